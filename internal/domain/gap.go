package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Coverage string

const (
	CoverageCovered Coverage = "covered"
	CoveragePartial Coverage = "partial"
	CoverageMissing Coverage = "missing"
)

type GapPriority string

const (
	GapPriorityCritical GapPriority = "critical"
	GapPriorityHigh     GapPriority = "high"
	GapPriorityMedium   GapPriority = "medium"
	GapPriorityLow      GapPriority = "low"
)

// rank gives the total order used for gap sort: gaps are returned
// sorted by (priority rank, -required_confidence, canonical_name).
func (p GapPriority) rank() int {
	switch p {
	case GapPriorityCritical:
		return 0
	case GapPriorityHigh:
		return 1
	case GapPriorityMedium:
		return 2
	case GapPriorityLow:
		return 3
	default:
		return 4
	}
}

// Rank exposes rank for sort comparators outside the package.
func (p GapPriority) Rank() int { return p.rank() }

// Gap is replaced wholesale on every re-analysis run of a user's resume/JD
// pair (GapAnalyzer.Analyze deletes the prior active set and creates a new
// one inside one transaction).
type Gap struct {
	ID                  uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID              uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	SkillID             uuid.UUID                   `gorm:"type:uuid;not null;index" json:"skill_id"`
	Skill               *Skill                      `gorm:"constraint:OnDelete:CASCADE;foreignKey:SkillID;references:ID" json:"skill,omitempty"`
	RequiredConfidence  float64                     `gorm:"column:required_confidence;not null" json:"required_confidence"`
	Coverage            Coverage                    `gorm:"column:coverage;not null" json:"coverage"`
	Priority            GapPriority                 `gorm:"column:priority;not null" json:"priority"`
	Reason              string                      `gorm:"column:reason" json:"reason"`
	EstimatedHours      float64                     `gorm:"column:estimated_hours;not null" json:"estimated_hours"`
	EvidenceRefs        datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb;column:evidence_refs" json:"evidence_refs"`
	CreatedAt           time.Time                   `gorm:"not null;default:now()" json:"created_at"`
}

func (Gap) TableName() string { return "gaps" }
