package skillextractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/interviewcoach/coach/internal/domain"
)

func TestVerbatimMatchCaseAndWhitespaceInsensitive(t *testing.T) {
	doc := "Experience\n\nBuilt services using   Go   and Kubernetes in production."
	assert.True(t, verbatimMatch(doc, "go and kubernetes"))
	assert.True(t, verbatimMatch(doc, "Built services using Go"))
	assert.False(t, verbatimMatch(doc, "Rust and Terraform"))
}

func TestVerbatimMatchRejectsEmptyEvidence(t *testing.T) {
	assert.False(t, verbatimMatch("some document text", "   "))
}

func TestNormalizeForMatchCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "go and kubernetes", normalizeForMatch("  Go   and\nKubernetes "))
}

func TestDecodeResultSkipsMalformedEntries(t *testing.T) {
	raw := map[string]any{
		"skills": []any{
			map[string]any{
				"skill_name":    "Go",
				"category":      "programming",
				"confidence":    0.9,
				"evidence_text": "built services in Go",
				"section_name":  "experience",
			},
			map[string]any{"skill_name": "", "evidence_text": "missing name"},
			"not even a map",
		},
	}
	res, err := decodeResult(raw)
	assert.NoError(t, err)
	if assert.Len(t, res.Skills, 1) {
		assert.Equal(t, "Go", res.Skills[0].SkillName)
		assert.Equal(t, 0.9, res.Skills[0].Confidence)
	}
}

func TestDecodeResultErrorsWithoutSkillsArray(t *testing.T) {
	_, err := decodeResult(map[string]any{"not_skills": 1})
	assert.Error(t, err)
}

func TestNearestSeenNameFoldsSpellingVariants(t *testing.T) {
	seen := map[string]*domain.Skill{
		domain.Canonicalize("Node.js"): {CanonicalName: "node.js"},
	}
	match, found := nearestSeenName("nodejs", seen)
	assert.True(t, found)
	assert.Equal(t, "node.js", match)
}

func TestNearestSeenNameRejectsUnrelatedNames(t *testing.T) {
	seen := map[string]*domain.Skill{
		domain.Canonicalize("Kubernetes"): {CanonicalName: "kubernetes"},
	}
	_, found := nearestSeenName("Terraform", seen)
	assert.False(t, found)
}

func TestBuildPromptUsesDocumentKindLabel(t *testing.T) {
	resume := &domain.Document{Kind: domain.DocumentKindResume, ParsedSections: []domain.DocumentSection{{Name: "skills", Text: "Go, Python"}}}
	system, user := buildPrompt(resume)
	assert.Contains(t, system, "résumé")
	assert.Contains(t, user, "Go, Python")

	jd := &domain.Document{Kind: domain.DocumentKindJD}
	system, _ = buildPrompt(jd)
	assert.Contains(t, system, "job description")
}
