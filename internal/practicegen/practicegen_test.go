package practicegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interviewcoach/coach/internal/domain"
)

func TestDecodeMCQRequiresExactlyFourOptions(t *testing.T) {
	raw := map[string]any{
		"question": "What does CAP stand for?",
		"options": []any{
			map[string]any{"text": "Consistency, Availability, Partition tolerance", "correct": true},
			map[string]any{"text": "wrong", "correct": false},
			map[string]any{"text": "wrong", "correct": false},
		},
		"explanation": "CAP theorem",
	}
	_, err := decodeMCQ(raw)
	assert.Error(t, err)
}

func TestDecodeMCQRequiresExactlyOneCorrectOption(t *testing.T) {
	raw := map[string]any{
		"question": "q",
		"options": []any{
			map[string]any{"text": "a", "correct": true},
			map[string]any{"text": "b", "correct": true},
			map[string]any{"text": "c", "correct": false},
			map[string]any{"text": "d", "correct": false},
		},
		"explanation": "e",
	}
	_, err := decodeMCQ(raw)
	assert.Error(t, err)
}

func TestDecodeMCQSetsExpectedAnswerToCorrectOption(t *testing.T) {
	raw := map[string]any{
		"question": "q",
		"options": []any{
			map[string]any{"text": "a", "correct": false},
			map[string]any{"text": "b", "correct": true},
			map[string]any{"text": "c", "correct": false},
			map[string]any{"text": "d", "correct": false},
		},
		"explanation": "e",
	}
	item, err := decodeMCQ(raw)
	require.NoError(t, err)
	require.NotNil(t, item.ExpectedAnswer)
	assert.Equal(t, "b", *item.ExpectedAnswer)
	assert.Equal(t, domain.PracticeTypeMCQ, item.Type)
}

func TestDecodeShortRequiresAtLeastThreeKeyPoints(t *testing.T) {
	raw := map[string]any{
		"question":   "q",
		"key_points": []any{"one", "two"},
	}
	_, err := decodeShort(raw)
	assert.Error(t, err)
}

func TestDecodeFlashcardSetsExpectedAnswerToBack(t *testing.T) {
	raw := map[string]any{"front": "What is Go's GC?", "back": "Concurrent, tri-color mark-and-sweep."}
	item, err := decodeFlashcard(raw)
	require.NoError(t, err)
	require.NotNil(t, item.ExpectedAnswer)
	assert.Equal(t, "Concurrent, tri-color mark-and-sweep.", *item.ExpectedAnswer)
}

func TestDecodeBehavioralPopulatesSTARFields(t *testing.T) {
	raw := map[string]any{
		"situation_prompt":    "Describe a conflict with a teammate.",
		"task_prompt":         "What was your responsibility?",
		"action_prompt":       "What did you do?",
		"result_prompt":       "What was the outcome?",
		"evaluation_criteria": []any{"clarity", "ownership"},
	}
	item, err := decodeBehavioral(raw)
	require.NoError(t, err)
	content := item.Content.Data()
	require.NotNil(t, content.Behavioral)
	assert.Equal(t, []string{"clarity", "ownership"}, content.Behavioral.EvaluationCriteria)
}

func TestDecodeSystemDesignPopulatesFramework(t *testing.T) {
	raw := map[string]any{
		"question":       "Design a URL shortener.",
		"requirements":   []any{"shorten URLs", "redirect"},
		"constraints":    []any{"high availability"},
		"functional":     "shorten/redirect",
		"non_functional": "low latency",
		"architecture":   "sharded key-value store",
		"trade_offs":     "consistency vs availability",
		"completeness":   "covers core flow",
	}
	item, err := decodeSystemDesign(raw)
	require.NoError(t, err)
	content := item.Content.Data()
	require.NotNil(t, content.SystemDesign)
	assert.Equal(t, "sharded key-value store", content.SystemDesign.EvaluationFramework.Architecture)
}

func TestBuildRequestSelectsSchemaPerType(t *testing.T) {
	g := &generator{}
	_, _, schemaName, _, _ := g.buildRequest(domain.PracticeTypeMCQ, domain.DifficultyIntermediate, []string{"Go"})
	assert.Equal(t, "mcq_item", schemaName)

	_, _, schemaName, _, _ = g.buildRequest(domain.PracticeTypeFlashcard, domain.DifficultyBeginner, []string{"Go"})
	assert.Equal(t, "flashcard_item", schemaName)
}
