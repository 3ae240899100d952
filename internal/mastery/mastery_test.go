package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/interviewcoach/coach/internal/domain"
)

func evalsWithScores(scores ...float64) []domain.Evaluation {
	out := make([]domain.Evaluation, len(scores))
	for i, s := range scores {
		out[i] = domain.Evaluation{OverallScore: s}
	}
	return out
}

func TestComputeScoreBlendsRecentAndOlder(t *testing.T) {
	recent := evalsWithScores(0.9, 0.8, 0.9, 0.8, 0.9) // mean 0.86
	older := evalsWithScores(0.5, 0.5)                  // mean 0.5
	got := computeScore(recent, older, 0)
	want := 0.7*0.86 + 0.3*0.5
	assert.InDelta(t, want, got, 1e-9)
}

func TestComputeScoreUsesRecentOnlyWhenNoOlder(t *testing.T) {
	recent := evalsWithScores(0.7, 0.9)
	got := computeScore(recent, nil, 0)
	assert.InDelta(t, 0.8, got, 1e-9)
}

func TestComputeScoreUsesOlderOnlyWhenNoRecent(t *testing.T) {
	older := evalsWithScores(0.4, 0.6)
	got := computeScore(nil, older, 0)
	assert.InDelta(t, 0.5, got, 1e-9)
}

func TestComputeScoreFallsBackToNewScoreWhenNoHistory(t *testing.T) {
	got := computeScore(nil, nil, 0.73)
	assert.Equal(t, 0.73, got)
}

func TestComputeTrendRequiresMinimumEvaluations(t *testing.T) {
	recent := evalsWithScores(0.9, 0.9)
	trend := computeTrend(recent, nil, 2)
	assert.Equal(t, domain.TrendStable, trend)
}

func TestComputeTrendImproving(t *testing.T) {
	recent := evalsWithScores(0.9, 0.85)
	older := evalsWithScores(0.5, 0.5)
	trend := computeTrend(recent, older, 4)
	assert.Equal(t, domain.TrendImproving, trend)
}

func TestComputeTrendDeclining(t *testing.T) {
	recent := evalsWithScores(0.4, 0.3)
	older := evalsWithScores(0.8, 0.8)
	trend := computeTrend(recent, older, 4)
	assert.Equal(t, domain.TrendDeclining, trend)
}

func TestComputeTrendStableWithinThreshold(t *testing.T) {
	recent := evalsWithScores(0.72)
	older := evalsWithScores(0.70)
	trend := computeTrend(recent, older, 5)
	assert.Equal(t, domain.TrendStable, trend)
}

func TestComputeTrendStableWhenOlderEmpty(t *testing.T) {
	recent := evalsWithScores(0.9, 0.8, 0.7)
	trend := computeTrend(recent, nil, 3)
	assert.Equal(t, domain.TrendStable, trend)
}
