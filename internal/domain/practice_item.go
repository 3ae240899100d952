package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PracticeType string

const (
	PracticeTypeMCQ          PracticeType = "quiz_mcq"
	PracticeTypeShort        PracticeType = "quiz_short"
	PracticeTypeFlashcard    PracticeType = "flashcard"
	PracticeTypeBehavioral   PracticeType = "behavioral"
	PracticeTypeSystemDesign PracticeType = "system_design"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// DifficultyForMastery buckets a [0,1] mastery score into the practice
// generator's difficulty scale.
func DifficultyForMastery(mastery float64) Difficulty {
	switch {
	case mastery < 0.3:
		return DifficultyBeginner
	case mastery < 0.6:
		return DifficultyIntermediate
	case mastery < 0.8:
		return DifficultyAdvanced
	default:
		return DifficultyExpert
	}
}

// PracticeItem is weakly owned by a Task: it may exist independent of any
// task (ad hoc drills) or be generated on demand for one.
type PracticeItem struct {
	ID             uuid.UUID                        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TaskID         *uuid.UUID                        `gorm:"type:uuid;column:task_id;index" json:"task_id,omitempty"`
	Type           PracticeType                      `gorm:"column:type;not null" json:"type"`
	Title          string                            `gorm:"column:title;not null" json:"title"`
	Question       string                            `gorm:"column:question;not null" json:"question"`
	ExpectedAnswer *string                           `gorm:"column:expected_answer" json:"expected_answer,omitempty"`
	SkillRefs      datatypes.JSONSlice[uuid.UUID]      `gorm:"type:jsonb;column:skill_refs" json:"skill_refs"`
	Difficulty     Difficulty                         `gorm:"column:difficulty;not null" json:"difficulty"`
	Content        datatypes.JSONType[PracticeContent] `gorm:"type:jsonb;column:content" json:"content"`
	RubricID       uuid.UUID                          `gorm:"type:uuid;not null" json:"rubric_ref"`
	CreatedAt      time.Time                          `gorm:"not null;default:now()" json:"created_at"`
}

func (PracticeItem) TableName() string { return "practice_items" }
