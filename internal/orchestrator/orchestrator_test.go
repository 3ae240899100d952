package orchestrator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/interviewcoach/coach/internal/platform/apierr"
)

func TestTranslateTaskErrNotFound(t *testing.T) {
	err := translateTaskErr(fmt.Errorf("coach: task %s not found", "abc"))
	assert.True(t, apierr.Is(err, apierr.KindNotFound))
}

func TestTranslateTaskErrInvalidTransition(t *testing.T) {
	err := translateTaskErr(fmt.Errorf("coach: cannot transition task from completed to pending"))
	assert.True(t, apierr.Is(err, apierr.KindInvalidTransition))
}

func TestTranslateTaskErrNil(t *testing.T) {
	assert.Nil(t, translateTaskErr(nil))
}

func TestMasteryStatsBucketing(t *testing.T) {
	stats := &MasteryStats{}
	scores := []float64{0.2, 0.6, 0.9}
	for _, s := range scores {
		switch {
		case s < 0.5:
			stats.ByLevel.Weak++
		case s < 0.8:
			stats.ByLevel.Proficient++
		default:
			stats.ByLevel.Strong++
		}
	}
	assert.Equal(t, 1, stats.ByLevel.Weak)
	assert.Equal(t, 1, stats.ByLevel.Proficient)
	assert.Equal(t, 1, stats.ByLevel.Strong)
}
