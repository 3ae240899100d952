package domain

import (
	"time"

	"github.com/google/uuid"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Mastery is upserted by the Mastery Tracker; at most one row exists per
// (user_id, skill_id), enforced by the unique index below.
type Mastery struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mastery_user_skill" json:"user_id"`
	SkillID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mastery_user_skill" json:"skill_id"`
	Score         float64   `gorm:"column:score;not null" json:"score"`
	LastPracticed time.Time `gorm:"column:last_practiced;not null" json:"last_practiced"`
	PracticeCount int       `gorm:"column:practice_count;not null;default:0" json:"practice_count"`
	Trend         Trend     `gorm:"column:trend;not null;default:'stable'" json:"trend"`
}

func (Mastery) TableName() string { return "mastery" }
