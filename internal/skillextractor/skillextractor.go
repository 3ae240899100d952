// Package skillextractor turns a parsed Document into evidence-bearing
// Skill claims: for each candidate the LLM proposes, it is kept only if its
// evidence text appears verbatim (modulo case/whitespace normalization) in
// the document, so no skill claim is fabricated without a real snippet.
package skillextractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/data/repos"
	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/llm"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

// fuzzyNameDistanceLimit bounds the Levenshtein distance two canonicalized
// skill names may have and still be folded into the same skill within one
// extraction run, collapsing spelling variants an LLM emits inconsistently
// across candidates in the same response (e.g. "node.js" vs "nodejs").
const fuzzyNameDistanceLimit = 2

// Extractor is the boundary the orchestrator drives for skill extraction.
type Extractor interface {
	Extract(ctx context.Context, tx *gorm.DB, doc *domain.Document) ([]domain.SkillEvidence, error)
}

type extractor struct {
	llm          llm.Client
	skills       repos.SkillRepo
	evidence     repos.SkillEvidenceRepo
	log          *logger.Logger
}

func New(client llm.Client, skills repos.SkillRepo, evidence repos.SkillEvidenceRepo, log *logger.Logger) Extractor {
	return &extractor{llm: client, skills: skills, evidence: evidence, log: log.With("component", "skill_extractor")}
}

// skillRecord is the shape the LLM returns per candidate; struct tags
// double as the reflected JSON Schema passed to GenerateJSON.
type skillRecord struct {
	SkillName    string  `json:"skill_name" jsonschema:"required,description=Canonical-ish name of the skill or technology"`
	Category     string  `json:"category" jsonschema:"required,enum=programming,enum=framework,enum=database,enum=cloud,enum=tool,enum=soft_skill,enum=domain,enum=other"`
	Confidence   float64 `json:"confidence" jsonschema:"required,minimum=0,maximum=1"`
	EvidenceText string  `json:"evidence_text" jsonschema:"required,description=Verbatim snippet from the document supporting this skill claim"`
	SectionName  string  `json:"section_name" jsonschema:"description=Name of the document section the evidence was found in"`
}

type extractionResult struct {
	Skills []skillRecord `json:"skills" jsonschema:"required"`
}

const schemaName = "skill_extraction_result"

var validCategories = map[string]domain.SkillCategory{
	"programming": domain.SkillCategoryProgramming,
	"framework":   domain.SkillCategoryFramework,
	"database":    domain.SkillCategoryDatabase,
	"cloud":       domain.SkillCategoryCloud,
	"tool":        domain.SkillCategoryTool,
	"soft_skill":  domain.SkillCategorySoftSkill,
	"domain":      domain.SkillCategoryDomain,
	"other":       domain.SkillCategoryOther,
}

func (e *extractor) Extract(ctx context.Context, tx *gorm.DB, doc *domain.Document) ([]domain.SkillEvidence, error) {
	if doc == nil {
		return nil, fmt.Errorf("skillextractor: nil document")
	}
	docText := doc.Text()
	system, user := buildPrompt(doc)

	result, err := e.callWithRetry(ctx, system, user)
	if err != nil {
		e.log.Warn("skill extraction produced no usable output", "document_id", doc.ID, "error", err)
		return []domain.SkillEvidence{}, nil
	}

	out := make([]domain.SkillEvidence, 0, len(result.Skills))
	bySkillName := make(map[string]*domain.Skill)
	for _, rec := range result.Skills {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !verbatimMatch(docText, rec.EvidenceText) {
			continue
		}
		category, ok := validCategories[strings.ToLower(strings.TrimSpace(rec.Category))]
		if !ok {
			category = domain.SkillCategoryOther
		}

		name := rec.SkillName
		if match, found := nearestSeenName(name, bySkillName); found {
			name = match
		}
		skill, ok := bySkillName[domain.Canonicalize(name)]
		if !ok {
			var err error
			skill, err = e.skills.Upsert(ctx, tx, name, category)
			if err != nil {
				return nil, fmt.Errorf("skillextractor: upsert skill %q: %w", rec.SkillName, err)
			}
			bySkillName[domain.Canonicalize(name)] = skill
		}
		ev := domain.SkillEvidence{
			DocumentID:  doc.ID,
			SkillID:     skill.ID,
			SnippetText: rec.EvidenceText,
			SectionName: rec.SectionName,
			Confidence:  domain.Clamp01(rec.Confidence),
		}
		if err := e.evidence.Create(ctx, tx, &ev); err != nil {
			return nil, fmt.Errorf("skillextractor: create evidence: %w", err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// callWithRetry parses the LLM's structured output, retrying once with a
// stricter instruction if the first attempt doesn't decode.
func (e *extractor) callWithRetry(ctx context.Context, system, user string) (*extractionResult, error) {
	schema := llm.SchemaFor[extractionResult]()
	raw, err := e.llm.GenerateJSON(ctx, system, user, schemaName, schema)
	if err == nil {
		if res, decodeErr := decodeResult(raw); decodeErr == nil {
			return res, nil
		}
	}
	stricter := system + "\nReturn ONLY the fields defined by the schema, with no additional commentary."
	raw, err = e.llm.GenerateJSON(ctx, stricter, user, schemaName, schema)
	if err != nil {
		return nil, err
	}
	return decodeResult(raw)
}

func decodeResult(raw map[string]any) (*extractionResult, error) {
	skillsRaw, ok := raw["skills"].([]any)
	if !ok {
		return nil, fmt.Errorf("skillextractor: missing skills array")
	}
	res := &extractionResult{Skills: make([]skillRecord, 0, len(skillsRaw))}
	for _, item := range skillsRaw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := skillRecord{
			SkillName:    stringField(m, "skill_name"),
			Category:     stringField(m, "category"),
			Confidence:   floatField(m, "confidence"),
			EvidenceText: stringField(m, "evidence_text"),
			SectionName:  stringField(m, "section_name"),
		}
		if rec.SkillName == "" || rec.EvidenceText == "" {
			continue
		}
		res.Skills = append(res.Skills, rec)
	}
	return res, nil
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// nearestSeenName looks for a name already present in seen whose canonical
// form is within fuzzyNameDistanceLimit edits of candidate's, so that
// spelling variants the LLM emits inconsistently within one response (e.g.
// "node.js" vs "nodejs") collapse onto the same Skill instead of each
// minting its own row.
func nearestSeenName(candidate string, seen map[string]*domain.Skill) (string, bool) {
	canon := domain.Canonicalize(candidate)
	for canonSeen, skill := range seen {
		if fuzzy.LevenshteinDistance(canon, canonSeen) <= fuzzyNameDistanceLimit {
			return skill.CanonicalName, true
		}
	}
	return "", false
}

// verbatimMatch checks the evidence appears in the document text under
// case-folding and whitespace collapse, without requiring byte-identical
// substrings.
func verbatimMatch(docText, evidence string) bool {
	evidence = strings.TrimSpace(evidence)
	if evidence == "" {
		return false
	}
	return strings.Contains(normalizeForMatch(docText), normalizeForMatch(evidence))
}

func normalizeForMatch(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	return strings.Join(fields, " ")
}

func buildPrompt(doc *domain.Document) (system, user string) {
	kindLabel := "résumé"
	if doc.Kind == domain.DocumentKindJD {
		kindLabel = "job description"
	}
	system = fmt.Sprintf(
		"You extract skills and technologies mentioned in a %s. For each skill you find, "+
			"quote the exact supporting text verbatim from the document, name the section it "+
			"came from, classify its category, and rate your confidence in [0,1]. Never invent "+
			"a skill without a direct quotation from the document text.", kindLabel)

	var b strings.Builder
	b.WriteString("Document sections:\n\n")
	for _, s := range doc.ParsedSections {
		fmt.Fprintf(&b, "## %s\n%s\n\n", s.Name, s.Text)
	}
	if len(doc.ParsedSections) == 0 {
		b.WriteString(doc.Text())
	}
	user = b.String()
	return system, user
}
