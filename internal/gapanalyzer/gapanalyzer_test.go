package gapanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/interviewcoach/coach/internal/domain"
)

func TestClassifyCoverage(t *testing.T) {
	cases := []struct {
		name     string
		resume   *skillSignal
		expected domain.Coverage
	}{
		{"no resume evidence", nil, domain.CoverageMissing},
		{"zero evidence count", &skillSignal{evidenceCount: 0}, domain.CoverageMissing},
		{"high confidence strong section", &skillSignal{evidenceCount: 1, maxConfidence: 0.9, weakOnly: false}, domain.CoverageCovered},
		{"high confidence weak section only", &skillSignal{evidenceCount: 1, maxConfidence: 0.9, weakOnly: true}, domain.CoveragePartial},
		{"low confidence", &skillSignal{evidenceCount: 1, maxConfidence: 0.4, weakOnly: false}, domain.CoveragePartial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(&skillSignal{}, tc.resume)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	cases := []struct {
		coverage   domain.Coverage
		confidence float64
		expected   domain.GapPriority
	}{
		{domain.CoverageMissing, 0.85, domain.GapPriorityCritical},
		{domain.CoverageMissing, 0.6, domain.GapPriorityHigh},
		{domain.CoveragePartial, 0.8, domain.GapPriorityHigh},
		{domain.CoveragePartial, 0.6, domain.GapPriorityMedium},
		{domain.CoverageMissing, 0.3, domain.GapPriorityMedium},
		{domain.CoveragePartial, 0.2, domain.GapPriorityLow},
		{domain.CoverageCovered, 0.9, domain.GapPriorityLow},
	}
	for _, tc := range cases {
		got := classifyPriority(tc.coverage, tc.confidence)
		assert.Equal(t, tc.expected, got, "coverage=%s confidence=%f", tc.coverage, tc.confidence)
	}
}

func TestGapFromMissingJDSkill(t *testing.T) {
	// Resume mentions "python" at 0.9; JD requires "kubernetes" at 0.85 and
	// it is entirely absent from the resume.
	coverage := classify(&skillSignal{maxConfidence: 0.85, evidenceCount: 1}, nil)
	assert.Equal(t, domain.CoverageMissing, coverage)
	priority := classifyPriority(coverage, 0.85)
	assert.Equal(t, domain.GapPriorityCritical, priority)
	hours := estimatedHoursFor(domain.SkillCategoryFramework, coverage)
	assert.Equal(t, 40.0, hours)
}

func TestEstimatedHoursTable(t *testing.T) {
	assert.Equal(t, 40.0, estimatedHoursFor(domain.SkillCategoryFramework, domain.CoverageMissing))
	assert.Equal(t, 20.0, estimatedHoursFor(domain.SkillCategoryFramework, domain.CoveragePartial))
	assert.Equal(t, 20.0, estimatedHoursFor(domain.SkillCategoryTool, domain.CoverageMissing))
	assert.Equal(t, 10.0, estimatedHoursFor(domain.SkillCategoryTool, domain.CoveragePartial))
	assert.Equal(t, 20.0, estimatedHoursFor(domain.SkillCategorySoftSkill, domain.CoverageMissing))
	assert.Equal(t, 0.0, estimatedHoursFor(domain.SkillCategoryFramework, domain.CoverageCovered))
}
