package domain

import (
	"time"

	"github.com/google/uuid"
)

// SkillEvidence is immutable once created by the Skill Extractor: a verbatim
// (case/whitespace-normalized) snippet of a Document supporting a Skill claim.
type SkillEvidence struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID  uuid.UUID `gorm:"type:uuid;not null;index:idx_evidence_doc_skill" json:"document_id"`
	Document    *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
	SkillID     uuid.UUID `gorm:"type:uuid;not null;index:idx_evidence_doc_skill" json:"skill_id"`
	Skill       *Skill    `gorm:"constraint:OnDelete:CASCADE;foreignKey:SkillID;references:ID" json:"skill,omitempty"`
	SnippetText string    `gorm:"column:snippet_text;not null" json:"snippet_text"`
	SectionName string    `gorm:"column:section_name" json:"section_name"`
	Confidence  float64   `gorm:"column:confidence;not null" json:"confidence"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SkillEvidence) TableName() string { return "skill_evidence" }
