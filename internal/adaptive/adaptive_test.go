package adaptive

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/interviewcoach/coach/internal/domain"
)

func TestWeakReasonAggregatesTriggers(t *testing.T) {
	reason, weak := weakReason(domain.Mastery{Score: 0.2, Trend: domain.TrendDeclining, PracticeCount: 1})
	assert.True(t, weak)
	assert.Contains(t, reason, "score below 0.5")
	assert.Contains(t, reason, "trend declining")
	assert.Contains(t, reason, "fewer than 3 practice attempts")
}

func TestWeakReasonFalseWhenHealthy(t *testing.T) {
	_, weak := weakReason(domain.Mastery{Score: 0.9, Trend: domain.TrendStable, PracticeCount: 10})
	assert.False(t, weak)
}

func TestIsStrongRequiresAllThreeConditions(t *testing.T) {
	assert.True(t, isStrong(domain.Mastery{Score: 0.85, Trend: domain.TrendImproving, PracticeCount: 6}))
	assert.False(t, isStrong(domain.Mastery{Score: 0.85, Trend: domain.TrendStable, PracticeCount: 6}))
	assert.False(t, isStrong(domain.Mastery{Score: 0.6, Trend: domain.TrendImproving, PracticeCount: 6}))
	assert.False(t, isStrong(domain.Mastery{Score: 0.85, Trend: domain.TrendImproving, PracticeCount: 2}))
}

func TestContainsSkill(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.True(t, containsSkill([]uuid.UUID{a, b}, b))
	assert.False(t, containsSkill([]uuid.UUID{a}, b))
}

func TestPickDatesEnforcesSpacing(t *testing.T) {
	today := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	idx := &scheduleIndex{countByDate: map[time.Time]int{}}
	for i := 0; i < 5; i++ {
		idx.dates = append(idx.dates, today.AddDate(0, 0, i))
	}
	chosen := idx.pickDates(today, 2, reinforcementSpacingDays)
	if assert.Len(t, chosen, 2) {
		diff := chosen[1].Sub(chosen[0]).Hours() / 24
		if diff < 0 {
			diff = -diff
		}
		assert.GreaterOrEqual(t, diff, float64(reinforcementSpacingDays))
	}
}

func TestPickDatesPrefersLeastLoadedDates(t *testing.T) {
	today := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	idx := &scheduleIndex{countByDate: map[time.Time]int{}}
	for i := 0; i < 5; i++ {
		d := today.AddDate(0, 0, i)
		idx.dates = append(idx.dates, d)
		idx.countByDate[d] = 5 - i
	}
	chosen := idx.pickDates(today, 1, reinforcementSpacingDays)
	if assert.Len(t, chosen, 1) {
		assert.Equal(t, today.AddDate(0, 0, 4), chosen[0])
	}
}

func TestPickDatesExcludesPastDates(t *testing.T) {
	today := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	idx := &scheduleIndex{countByDate: map[time.Time]int{}, dates: []time.Time{
		today.AddDate(0, 0, -2), today.AddDate(0, 0, 1),
	}}
	chosen := idx.pickDates(today, 2, reinforcementSpacingDays)
	assert.Len(t, chosen, 1)
	assert.Equal(t, today.AddDate(0, 0, 1), chosen[0])
}
