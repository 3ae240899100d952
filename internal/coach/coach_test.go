package coach

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/interviewcoach/coach/internal/domain"
)

func TestFallbackMessageNoTasks(t *testing.T) {
	msg := fallbackMessage(&Briefing{TotalCount: 0})
	assert.Contains(t, msg, "No tasks scheduled")
}

func TestFallbackMessageAllComplete(t *testing.T) {
	msg := fallbackMessage(&Briefing{TotalCount: 3, CompletedCount: 3})
	assert.Contains(t, msg, "complete")
}

func TestFallbackMessageInProgress(t *testing.T) {
	msg := fallbackMessage(&Briefing{TotalCount: 5, CompletedCount: 2})
	assert.Contains(t, msg, "3 task(s) left")
}

func TestBriefingAggregation(t *testing.T) {
	skillA := domain.Task{Status: domain.TaskStatusCompleted, EstimatedMinutes: 30}
	actual := 25
	skillA.ActualMinutes = &actual

	b := &Briefing{}
	tasks := []domain.Task{skillA, {Status: domain.TaskStatusPending, EstimatedMinutes: 45}}
	b.TotalCount = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskStatusCompleted:
			b.CompletedCount++
			if t.ActualMinutes != nil {
				b.ActualMinutes += *t.ActualMinutes
			}
		case domain.TaskStatusPending, domain.TaskStatusInProgress:
			b.PendingCount++
		}
		b.EstimatedMinutes += t.EstimatedMinutes
	}
	if b.TotalCount > 0 {
		b.CompletionPercentage = float64(b.CompletedCount) / float64(b.TotalCount)
	}

	assert.Equal(t, 2, b.TotalCount)
	assert.Equal(t, 1, b.CompletedCount)
	assert.Equal(t, 1, b.PendingCount)
	assert.Equal(t, 25, b.ActualMinutes)
	assert.Equal(t, 75, b.EstimatedMinutes)
	assert.InDelta(t, 0.5, b.CompletionPercentage, 1e-9)
}

func TestCanTransitionStateMachine(t *testing.T) {
	assert.True(t, domain.CanTransition(domain.TaskStatusPending, domain.TaskStatusInProgress))
	assert.True(t, domain.CanTransition(domain.TaskStatusInProgress, domain.TaskStatusCompleted))
	assert.True(t, domain.CanTransition(domain.TaskStatusPending, domain.TaskStatusSkipped))
	assert.False(t, domain.CanTransition(domain.TaskStatusCompleted, domain.TaskStatusPending))
	assert.False(t, domain.CanTransition(domain.TaskStatusSkipped, domain.TaskStatusInProgress))
}
