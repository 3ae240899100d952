package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentKind string

const (
	DocumentKindResume DocumentKind = "resume"
	DocumentKindJD     DocumentKind = "jd"
)

// DocumentSection is one named, offset-anchored slice of a parsed document.
// Parsing itself is out of scope (consumed as parse(bytes) -> {sections,
// chunks}); this is the shape the external parser hands back.
type DocumentSection struct {
	Name   string `json:"name"`
	Text   string `json:"text"`
	Offset int    `json:"offset"`
}

// DocumentChunk is a smaller, possibly overlapping window over a section,
// used by the (out-of-scope) vector store for embedding and retrieval.
type DocumentChunk struct {
	SectionName string `json:"section_name"`
	Text        string `json:"text"`
	Offset      int    `json:"offset"`
}

// Document is immutable once parsed: a Skill Extractor run reads its
// ParsedSections and Chunks but never mutates them.
type Document struct {
	ID              uuid.UUID                                  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID                                  `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User                                      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Kind            DocumentKind                                `gorm:"column:kind;not null;index" json:"kind"`
	ParsedSections  datatypes.JSONSlice[DocumentSection]         `gorm:"type:jsonb;column:parsed_sections" json:"parsed_sections"`
	Chunks          datatypes.JSONSlice[DocumentChunk]            `gorm:"type:jsonb;column:chunks" json:"chunks"`
	RawText         string                                        `gorm:"column:raw_text" json:"raw_text"`
	CreatedAt       time.Time                                     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time                                     `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt                                 `gorm:"index" json:"deleted_at,omitempty"`
}

func (Document) TableName() string { return "documents" }

// Text returns RawText when it is set, otherwise the concatenation of the
// parsed sections in order; used by the Skill Extractor's verbatim-substring check.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	if d.RawText != "" {
		return d.RawText
	}
	out := ""
	for _, s := range d.ParsedSections {
		out += s.Text + "\n"
	}
	return out
}
