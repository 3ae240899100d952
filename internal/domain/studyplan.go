package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudyPlan is one-active-per-user; mutated in place by the Adaptive
// Planner (never replaced), with every mutation appending to DiffLog.
type StudyPlan struct {
	ID             uuid.UUID                          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID                          `gorm:"type:uuid;not null;index" json:"user_id"`
	WeeksCount     int                                `gorm:"column:weeks_count;not null" json:"weeks_count"`
	HoursPerWeek   float64                            `gorm:"column:hours_per_week;not null" json:"hours_per_week"`
	InterviewDate  *time.Time                         `gorm:"column:interview_date" json:"interview_date,omitempty"`
	FocusAreas     datatypes.JSONSlice[string]          `gorm:"type:jsonb;column:focus_areas" json:"focus_areas"`
	DiffLog        datatypes.JSONSlice[PlanDiffEntry]   `gorm:"type:jsonb;column:diff_log" json:"diff_log"`
	Epoch          int                                  `gorm:"column:epoch;not null;default:1" json:"epoch"`
	Active         bool                                 `gorm:"column:active;not null;default:true;index" json:"active"`
	CreatedAt      time.Time                            `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time                            `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt                        `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudyPlan) TableName() string { return "study_plans" }

// WindowEnd returns the exclusive end of the plan's time window:
// created_at.date + weeks_count*7.
func (p *StudyPlan) WindowEnd() time.Time {
	start := p.CreatedAt.Truncate(24 * time.Hour)
	return start.AddDate(0, 0, p.WeeksCount*7)
}

// WindowStart returns the inclusive start of the plan's time window.
func (p *StudyPlan) WindowStart() time.Time {
	return p.CreatedAt.Truncate(24 * time.Hour)
}

// LastTaskDate is the latest date a Task may be scheduled on, honoring the
// decision: no task is scheduled on or after interview_date.
func (p *StudyPlan) LastTaskDate() time.Time {
	end := p.WindowEnd().AddDate(0, 0, -1)
	if p.InterviewDate != nil {
		beforeInterview := p.InterviewDate.Truncate(24 * time.Hour).AddDate(0, 0, -1)
		if beforeInterview.Before(end) {
			end = beforeInterview
		}
	}
	return end
}
