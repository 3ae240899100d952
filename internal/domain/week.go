package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Week ordering within a plan is strict: WeekNumber runs 1..WeeksCount with
// no gaps, enforced by the Planner at synthesis time.
type Week struct {
	ID          uuid.UUID                  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanID      uuid.UUID                  `gorm:"type:uuid;not null;index" json:"plan_id"`
	WeekNumber  int                        `gorm:"column:week_number;not null" json:"week_number"`
	Theme       string                     `gorm:"column:theme" json:"theme"`
	FocusSkills datatypes.JSONSlice[string] `gorm:"type:jsonb;column:focus_skills" json:"focus_skills"`
}

func (Week) TableName() string { return "weeks" }
