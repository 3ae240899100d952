package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RubricCriterion struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// Rubric is global, created lazily and idempotent by PracticeType: one
// default rubric per type, extensible with custom rubrics.
type Rubric struct {
	ID            uuid.UUID                         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PracticeType  PracticeType                       `gorm:"column:practice_type;not null;uniqueIndex:idx_rubric_type_default,where:is_default" json:"practice_type"`
	IsDefault     bool                               `gorm:"column:is_default;not null;default:true" json:"is_default"`
	Criteria      datatypes.JSONSlice[RubricCriterion] `gorm:"type:jsonb;column:criteria" json:"criteria"`
}

func (Rubric) TableName() string { return "rubrics" }

// WeightSum returns the sum of criterion weights, used to enforce the
// invariant Σ(criterion.weight) == 1 (within 1e-6).
func (r *Rubric) WeightSum() float64 {
	var sum float64
	for _, c := range r.Criteria {
		sum += c.Weight
	}
	return sum
}
