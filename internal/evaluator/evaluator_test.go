package evaluator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interviewcoach/coach/internal/domain"
)

func TestDecodeEvaluationRequiresCriterionScores(t *testing.T) {
	_, err := decodeEvaluation(map[string]any{"feedback": "ok"})
	assert.Error(t, err)
}

func TestDecodeEvaluationParsesCriterionScores(t *testing.T) {
	raw := map[string]any{
		"criterion_scores": []any{
			map[string]any{"name": "Correctness", "score": 1.0},
			map[string]any{"name": "Understanding", "score": 0.5},
		},
		"strengths":  []any{"clear reasoning"},
		"weaknesses": []any{"minor gaps"},
		"feedback":   "good work",
	}
	rec, err := decodeEvaluation(raw)
	require.NoError(t, err)
	assert.Len(t, rec.CriterionScores, 2)
	assert.Equal(t, "good work", rec.Feedback)
}

func TestWeightedOverallScoreRecomputation(t *testing.T) {
	// quiz_mcq rubric (Correctness 0.7, Understanding 0.3); LLM returns
	// {Correctness: 1.0, Understanding: 0.5}. Expected overall = 0.85.
	rubric := &domain.Rubric{
		Criteria: []domain.RubricCriterion{
			{Name: "Correctness", Weight: 0.7},
			{Name: "Understanding", Weight: 0.3},
		},
	}
	scoreByName := map[string]float64{"Correctness": 1.0, "Understanding": 0.5}
	var overall float64
	for _, c := range rubric.Criteria {
		overall += scoreByName[c.Name] * c.Weight
	}
	assert.InDelta(t, 0.85, overall, 1e-9)
}

func TestFallbackEvaluationUsesDefaultScoreAndMessage(t *testing.T) {
	attemptID, rubricID := uuid.New(), uuid.New()
	eval := fallbackEvaluation(attemptID, rubricID)
	assert.Equal(t, 0.5, eval.OverallScore)
	assert.Equal(t, "evaluation unavailable", eval.Feedback)
	assert.Equal(t, attemptID, eval.AttemptID)
	assert.Equal(t, rubricID, eval.RubricID)
}

func TestBuildPromptIncludesExpectedAnswerWhenPresent(t *testing.T) {
	expected := "B"
	item := &domain.PracticeItem{Type: domain.PracticeTypeMCQ, Question: "2+2?", ExpectedAnswer: &expected}
	rubric := &domain.Rubric{Criteria: []domain.RubricCriterion{{Name: "Correctness", Weight: 1, Description: "right answer"}}}
	attempt := &domain.Attempt{Answer: "4"}
	_, user := buildPrompt(attempt, item, rubric)
	assert.Contains(t, user, "2+2?")
	assert.Contains(t, user, "B")
	assert.Contains(t, user, "4")
}

func TestFormatCriteriaIncludesWeights(t *testing.T) {
	out := formatCriteria([]domain.RubricCriterion{{Name: "Impact", Weight: 0.3, Description: "measurable outcome"}})
	assert.Contains(t, out, "Impact")
	assert.Contains(t, out, "0.30")
}
