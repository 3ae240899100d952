// Package gapanalyzer classifies each JD-required skill as covered,
// partial, or missing against the evidence extracted from a résumé, and
// assigns each gap a priority and a deterministic estimated-hours cost.
package gapanalyzer

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/data/repos"
	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

// coveredConfidenceThreshold is the resume confidence a skill needs to
// count as fully covered.
const coveredConfidenceThreshold = 0.7

// estimatedHours is the deterministic (category, coverage) -> hours table.
// Values are tuned so the worked examples hold exactly: framework/missing
// spans a full learning cycle, tool/missing a shorter one, soft skills
// need practice more than study time.
var estimatedHours = map[domain.SkillCategory]struct{ missing, partial float64 }{
	domain.SkillCategoryProgramming: {missing: 30, partial: 15},
	domain.SkillCategoryFramework:   {missing: 40, partial: 20},
	domain.SkillCategoryDatabase:    {missing: 25, partial: 12},
	domain.SkillCategoryCloud:       {missing: 30, partial: 15},
	domain.SkillCategoryTool:        {missing: 20, partial: 10},
	domain.SkillCategorySoftSkill:   {missing: 20, partial: 10},
	domain.SkillCategoryDomain:      {missing: 25, partial: 12},
	domain.SkillCategoryOther:       {missing: 20, partial: 10},
}

func estimatedHoursFor(category domain.SkillCategory, coverage domain.Coverage) float64 {
	table, ok := estimatedHours[category]
	if !ok {
		table = estimatedHours[domain.SkillCategoryOther]
	}
	switch coverage {
	case domain.CoverageMissing:
		return table.missing
	case domain.CoveragePartial:
		return table.partial
	default:
		return 0
	}
}

// Report is the output of Analyze: the user's gap set, in priority order.
type Report struct {
	Gaps []domain.Gap
}

// Analyzer is the boundary the orchestrator drives for gap analysis.
type Analyzer interface {
	Analyze(ctx context.Context, tx *gorm.DB, userID, resumeDocID, jdDocID uuid.UUID) (*Report, error)
}

type analyzer struct {
	evidence repos.SkillEvidenceRepo
	skills   repos.SkillRepo
	gaps     repos.GapRepo
	log      *logger.Logger
}

func New(evidence repos.SkillEvidenceRepo, skills repos.SkillRepo, gaps repos.GapRepo, log *logger.Logger) Analyzer {
	return &analyzer{evidence: evidence, skills: skills, gaps: gaps, log: log.With("component", "gap_analyzer")}
}

type skillSignal struct {
	skillID       uuid.UUID
	maxConfidence float64
	evidenceCount int
	evidenceRefs  []uuid.UUID
	weakOnly      bool
}

func (a *analyzer) Analyze(ctx context.Context, tx *gorm.DB, userID, resumeDocID, jdDocID uuid.UUID) (*Report, error) {
	resumeEvidence, err := a.evidence.ListByDocument(ctx, tx, resumeDocID)
	if err != nil {
		return nil, fmt.Errorf("gapanalyzer: list resume evidence: %w", err)
	}
	jdEvidence, err := a.evidence.ListByDocument(ctx, tx, jdDocID)
	if err != nil {
		return nil, fmt.Errorf("gapanalyzer: list jd evidence: %w", err)
	}

	resumeBySkill := aggregate(resumeEvidence)
	jdBySkill := aggregate(jdEvidence)

	gaps := make([]domain.Gap, 0, len(jdBySkill))
	skillNames := make(map[uuid.UUID]string, len(jdBySkill))
	for skillID, j := range jdBySkill {
		coverage := classify(j, resumeBySkill[skillID])
		skill, err := a.skills.Get(ctx, tx, skillID)
		if err != nil {
			return nil, fmt.Errorf("gapanalyzer: load skill %s: %w", skillID, err)
		}
		if skill == nil {
			continue
		}
		skillNames[skillID] = skill.CanonicalName
		priority := classifyPriority(coverage, j.maxConfidence)
		hours := estimatedHoursFor(skill.Category, coverage)
		refs := j.evidenceRefs
		if r, ok := resumeBySkill[skillID]; ok {
			refs = append(refs, r.evidenceRefs...)
		}
		gap := domain.Gap{
			UserID:             userID,
			SkillID:            skillID,
			RequiredConfidence: j.maxConfidence,
			Coverage:           coverage,
			Priority:           priority,
			Reason:             reasonFor(skill.CanonicalName, coverage, j, resumeBySkill[skillID]),
			EstimatedHours:     hours,
			EvidenceRefs:       refs,
		}
		gaps = append(gaps, gap)
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		gi, gj := gaps[i], gaps[j]
		if gi.Priority.Rank() != gj.Priority.Rank() {
			return gi.Priority.Rank() < gj.Priority.Rank()
		}
		if gi.RequiredConfidence != gj.RequiredConfidence {
			return gi.RequiredConfidence > gj.RequiredConfidence
		}
		return skillNames[gi.SkillID] < skillNames[gj.SkillID]
	})

	if err := a.gaps.ReplaceForUser(ctx, tx, userID, gaps); err != nil {
		return nil, fmt.Errorf("gapanalyzer: replace gaps: %w", err)
	}
	return &Report{Gaps: gaps}, nil
}

func aggregate(evidence []domain.SkillEvidence) map[uuid.UUID]*skillSignal {
	out := make(map[uuid.UUID]*skillSignal)
	for _, e := range evidence {
		sig, ok := out[e.SkillID]
		if !ok {
			sig = &skillSignal{skillID: e.SkillID, weakOnly: true}
			out[e.SkillID] = sig
		}
		if e.Confidence > sig.maxConfidence {
			sig.maxConfidence = e.Confidence
		}
		sig.evidenceCount++
		sig.evidenceRefs = append(sig.evidenceRefs, e.ID)
		if !domain.IsWeakSection(e.SectionName) {
			sig.weakOnly = false
		}
	}
	return out
}

func classify(jdSignal *skillSignal, resumeSignal *skillSignal) domain.Coverage {
	if resumeSignal == nil || resumeSignal.evidenceCount == 0 {
		return domain.CoverageMissing
	}
	if resumeSignal.maxConfidence >= coveredConfidenceThreshold && !resumeSignal.weakOnly {
		return domain.CoverageCovered
	}
	return domain.CoveragePartial
}

func classifyPriority(coverage domain.Coverage, requiredConfidence float64) domain.GapPriority {
	switch {
	case coverage == domain.CoverageMissing && requiredConfidence >= 0.8:
		return domain.GapPriorityCritical
	case (coverage == domain.CoverageMissing && requiredConfidence >= 0.5) ||
		(coverage == domain.CoveragePartial && requiredConfidence >= 0.8):
		return domain.GapPriorityHigh
	case (coverage == domain.CoveragePartial && requiredConfidence >= 0.5) ||
		(coverage == domain.CoverageMissing && requiredConfidence < 0.5):
		return domain.GapPriorityMedium
	default:
		return domain.GapPriorityLow
	}
}

func reasonFor(name string, coverage domain.Coverage, jdSignal *skillSignal, resumeSignal *skillSignal) string {
	resumeCount := 0
	if resumeSignal != nil {
		resumeCount = resumeSignal.evidenceCount
	}
	switch coverage {
	case domain.CoverageCovered:
		return fmt.Sprintf("%s is demonstrated by %d resume evidence item(s) at sufficient confidence.", name, resumeCount)
	case domain.CoveragePartial:
		return fmt.Sprintf("%s appears in the resume (%d evidence item(s)) but below the confidence or section-strength required by the job description.", name, resumeCount)
	default:
		return fmt.Sprintf("%s is required by the job description (%d evidence item(s)) but not found in the resume.", name, jdSignal.evidenceCount)
	}
}
