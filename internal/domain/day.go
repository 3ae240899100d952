package domain

import (
	"time"

	"github.com/google/uuid"
)

type Day struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WeekID           uuid.UUID `gorm:"type:uuid;not null;index" json:"week_id"`
	DayNumber        int       `gorm:"column:day_number;not null" json:"day_number"`
	Date             time.Time `gorm:"column:date;not null;index" json:"date"`
	Theme            string    `gorm:"column:theme" json:"theme"`
	EstimatedMinutes int       `gorm:"column:estimated_minutes;not null" json:"estimated_minutes"`
}

func (Day) TableName() string { return "days" }
