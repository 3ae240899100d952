package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/interviewcoach/coach/internal/domain"
)

func gapWithHours(hours float64, priority domain.GapPriority) domain.Gap {
	return domain.Gap{ID: uuid.New(), SkillID: uuid.New(), EstimatedHours: hours, Priority: priority}
}

func TestAllocateHoursScalesDownToFitBudget(t *testing.T) {
	gaps := []domain.Gap{
		gapWithHours(40, domain.GapPriorityCritical),
		gapWithHours(40, domain.GapPriorityCritical),
	}
	out := allocateHours(gaps, 20)
	var total float64
	for _, h := range out {
		total += h
	}
	// Each gap scales to 10h (x0.25), then the 30% single-gap cap (6h of 20) binds.
	assert.InDelta(t, 12, total, 0.01)
}

func TestAllocateHoursCapsSingleGapShare(t *testing.T) {
	gaps := []domain.Gap{
		gapWithHours(100, domain.GapPriorityCritical),
		gapWithHours(1, domain.GapPriorityLow),
	}
	out := allocateHours(gaps, 100)
	assert.LessOrEqual(t, out[gaps[0].ID], 100*maxGapShareOfBudget+0.01)
}

func TestAllocateHoursNoScalingWhenUnderBudget(t *testing.T) {
	gaps := []domain.Gap{gapWithHours(5, domain.GapPriorityMedium)}
	out := allocateHours(gaps, 100)
	assert.InDelta(t, 5, out[gaps[0].ID], 0.01)
}

func TestBucketByWeekOrdersByPriorityThenHours(t *testing.T) {
	critical := gapWithHours(10, domain.GapPriorityCritical)
	high := gapWithHours(5, domain.GapPriorityHigh)
	low := gapWithHours(1, domain.GapPriorityLow)
	buckets := bucketByWeek([]domain.Gap{low, high, critical}, 1)
	if assert.Len(t, buckets, 1) {
		assert.Equal(t, critical.ID, buckets[0][0].ID)
	}
}

func TestBucketByWeekRespectsFocusSkillBounds(t *testing.T) {
	var gaps []domain.Gap
	for i := 0; i < 12; i++ {
		gaps = append(gaps, gapWithHours(float64(i+1), domain.GapPriorityMedium))
	}
	buckets := bucketByWeek(gaps, 3)
	for _, b := range buckets {
		assert.GreaterOrEqual(t, len(b), minFocusSkillsPerWeek)
		assert.LessOrEqual(t, len(b), maxFocusSkillsPerWeek)
	}
}

func TestBucketByWeekNeverEmptyWhenGapsExist(t *testing.T) {
	gaps := []domain.Gap{gapWithHours(3, domain.GapPriorityHigh)}
	buckets := bucketByWeek(gaps, 4)
	for _, b := range buckets {
		assert.NotEmpty(t, b)
	}
}

func TestWeeksUntilRoundsDown(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, weeksUntil(now, now.AddDate(0, 0, 6)))
	assert.Equal(t, 1, weeksUntil(now, now.AddDate(0, 0, 7)))
	assert.Equal(t, 0, weeksUntil(now, now.AddDate(0, 0, -3)))
}

func TestBuildDayTasksFirstDayHasNoReview(t *testing.T) {
	tasks, total := buildDayTasks(uuid.New(), uuid.New(), time.Now(), []uuid.UUID{uuid.New()}, 60, nil)
	assert.Len(t, tasks, 2)
	assert.Equal(t, domain.TaskTypeLearn, tasks[0].Type)
	assert.Equal(t, domain.TaskTypePractice, tasks[1].Type)
	assert.Equal(t, 60, total)
}

func TestBuildDayTasksSubsequentDayHasReview(t *testing.T) {
	prevRefs := []uuid.UUID{uuid.New(), uuid.New()}
	tasks, total := buildDayTasks(uuid.New(), uuid.New(), time.Now(), []uuid.UUID{uuid.New()}, 100, prevRefs)
	assert.Len(t, tasks, 3)
	assert.Equal(t, domain.TaskTypeReview, tasks[2].Type)
	assert.LessOrEqual(t, total, 100)
}

func TestBuildDayTasksPopulatesUserAndPlanIDs(t *testing.T) {
	planID, userID := uuid.New(), uuid.New()
	tasks, _ := buildDayTasks(planID, userID, time.Now(), []uuid.UUID{uuid.New()}, 60, nil)
	for _, task := range tasks {
		assert.Equal(t, planID, task.PlanID)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
	}
}

func TestIsWeekend(t *testing.T) {
	sat := time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, isWeekend(sat))
	assert.False(t, isWeekend(mon))
}
