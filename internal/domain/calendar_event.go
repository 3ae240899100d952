package domain

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEvent is regenerated wholesale on every calendar projection run for
// a plan; SyncUID is a stable function of (task_id, plan epoch) so that
// re-running the projection for an unchanged plan yields identical uids.
type CalendarEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	PlanEpoch   int       `gorm:"column:plan_epoch;not null" json:"plan_epoch"`
	Start       time.Time `gorm:"column:start;not null" json:"start"`
	End         time.Time `gorm:"column:end;not null" json:"end"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	SyncUID     string    `gorm:"column:sync_uid;not null;uniqueIndex" json:"sync_uid"`
}

func (CalendarEvent) TableName() string { return "calendar_events" }
