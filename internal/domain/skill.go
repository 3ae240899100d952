package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SkillCategory string

const (
	SkillCategoryProgramming SkillCategory = "programming"
	SkillCategoryFramework   SkillCategory = "framework"
	SkillCategoryDatabase    SkillCategory = "database"
	SkillCategoryCloud       SkillCategory = "cloud"
	SkillCategoryTool        SkillCategory = "tool"
	SkillCategorySoftSkill   SkillCategory = "soft_skill"
	SkillCategoryDomain      SkillCategory = "domain"
	SkillCategoryOther       SkillCategory = "other"
)

// Skill is global and created lazily on first reference; canonical_name is
// the race-safe upsert key (see internal/data/repos.SkillRepo.Upsert).
type Skill struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CanonicalName  string         `gorm:"column:canonical_name;not null;uniqueIndex" json:"canonical_name"`
	Category       SkillCategory  `gorm:"column:category;not null" json:"category"`
	ParentSkillID  *uuid.UUID     `gorm:"type:uuid;column:parent_skill_id;index" json:"parent_skill_id,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Skill) TableName() string { return "skills" }

// Canonicalize normalizes a raw skill name the way the Skill Extractor must
// before upserting: lowercased, trimmed, internal whitespace collapsed.
func Canonicalize(name string) string {
	return canonicalize(name)
}
