package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Evaluation is immutable in the sense that a re-evaluation of the same
// Attempt atomically replaces it rather than appending a second row — the
// unique index on AttemptID is the mechanism.
type Evaluation struct {
	ID               uuid.UUID                       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AttemptID        uuid.UUID                       `gorm:"type:uuid;not null;uniqueIndex" json:"attempt_id"`
	RubricID         uuid.UUID                       `gorm:"type:uuid;not null" json:"rubric_id"`
	OverallScore     float64                          `gorm:"column:overall_score;not null" json:"overall_score"`
	CriterionScores  datatypes.JSONMap                 `gorm:"type:jsonb;column:criterion_scores" json:"criterion_scores"`
	Strengths        datatypes.JSONSlice[string]        `gorm:"type:jsonb;column:strengths" json:"strengths"`
	Weaknesses       datatypes.JSONSlice[string]        `gorm:"type:jsonb;column:weaknesses" json:"weaknesses"`
	Feedback         string                            `gorm:"column:feedback" json:"feedback"`
	CreatedAt        time.Time                         `gorm:"not null;default:now()" json:"created_at"`
}

func (Evaluation) TableName() string { return "evaluations" }

// Clamp01 clamps a score to [0,1], used whenever persisting criterion or
// overall scores.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
