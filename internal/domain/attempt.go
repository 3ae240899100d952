package domain

import (
	"time"

	"github.com/google/uuid"
)

// An Attempt's Answer is fixed once submitted; resubmission creates a new
// Attempt row rather than mutating the prior one. Score and Feedback are
// written back onto the row once grading completes.
type Attempt struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	PracticeItemID uuid.UUID  `gorm:"type:uuid;not null;index" json:"practice_item_id"`
	TaskID         *uuid.UUID `gorm:"type:uuid;column:task_id;index" json:"task_id,omitempty"`
	Answer         string     `gorm:"column:answer;not null" json:"answer"`
	TimeSpentSec   *int       `gorm:"column:time_spent_seconds" json:"time_spent_seconds,omitempty"`
	Score          *float64   `gorm:"column:score" json:"score,omitempty"`
	Feedback       string     `gorm:"column:feedback" json:"feedback,omitempty"`
	SubmittedAt    time.Time  `gorm:"column:submitted_at;not null;default:now()" json:"submitted_at"`
}

func (Attempt) TableName() string { return "attempts" }
