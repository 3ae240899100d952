// Package evaluator scores a submitted Attempt against its PracticeItem's
// Rubric: the LLM proposes per-criterion scores, but the weighted overall
// score is always recomputed deterministically rather than trusted from the
// model's own output.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/data/repos"
	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/llm"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

const fallbackScore = 0.5
const fallbackFeedback = "evaluation unavailable"

// Evaluator is the boundary the orchestrator drives for attempt scoring.
type Evaluator interface {
	Evaluate(ctx context.Context, tx *gorm.DB, attempt *domain.Attempt, item *domain.PracticeItem, rubric *domain.Rubric) (*domain.Evaluation, error)
}

type evaluator struct {
	llm         llm.Client
	attempts    repos.AttemptRepo
	evaluations repos.EvaluationRepo
	log         *logger.Logger
}

func New(client llm.Client, attempts repos.AttemptRepo, evaluations repos.EvaluationRepo, log *logger.Logger) Evaluator {
	return &evaluator{llm: client, attempts: attempts, evaluations: evaluations, log: log.With("component", "evaluator")}
}

type criterionScoreRecord struct {
	Name  string  `json:"name" jsonschema:"required"`
	Score float64 `json:"score" jsonschema:"required,minimum=0,maximum=1"`
}

type evaluationRecord struct {
	CriterionScores []criterionScoreRecord `json:"criterion_scores" jsonschema:"required"`
	Strengths       []string               `json:"strengths" jsonschema:"required"`
	Weaknesses      []string               `json:"weaknesses" jsonschema:"required"`
	Feedback        string                 `json:"feedback" jsonschema:"required"`
}

const schemaName = "evaluation_result"

func (e *evaluator) Evaluate(ctx context.Context, tx *gorm.DB, attempt *domain.Attempt, item *domain.PracticeItem, rubric *domain.Rubric) (*domain.Evaluation, error) {
	if attempt == nil || item == nil || rubric == nil {
		return nil, fmt.Errorf("evaluator: nil attempt, item, or rubric")
	}

	eval, err := e.evaluateWithLLM(ctx, attempt, item, rubric)
	if err != nil {
		e.log.Warn("evaluation failed, using fallback", "attempt_id", attempt.ID, "error", err)
		eval = fallbackEvaluation(attempt.ID, rubric.ID)
	}

	if err := e.evaluations.Upsert(ctx, tx, eval); err != nil {
		return nil, fmt.Errorf("evaluator: persist evaluation: %w", err)
	}

	attempt.Score = &eval.OverallScore
	attempt.Feedback = eval.Feedback
	if err := e.attempts.Update(ctx, tx, attempt); err != nil {
		return nil, fmt.Errorf("evaluator: update attempt: %w", err)
	}
	return eval, nil
}

func (e *evaluator) evaluateWithLLM(ctx context.Context, attempt *domain.Attempt, item *domain.PracticeItem, rubric *domain.Rubric) (*domain.Evaluation, error) {
	system, user := buildPrompt(attempt, item, rubric)
	schema := llm.SchemaFor[evaluationRecord]()

	raw, err := e.llm.GenerateJSON(ctx, system, user, schemaName, schema)
	if err != nil {
		return nil, err
	}
	rec, err := decodeEvaluation(raw)
	if err != nil {
		raw, err = e.llm.GenerateJSON(ctx, system, user, schemaName, schema)
		if err != nil {
			return nil, err
		}
		rec, err = decodeEvaluation(raw)
		if err != nil {
			return nil, err
		}
	}

	criterionScores := make(map[string]any, len(rec.CriterionScores))
	scoreByName := make(map[string]float64, len(rec.CriterionScores))
	for _, cs := range rec.CriterionScores {
		clamped := domain.Clamp01(cs.Score)
		criterionScores[cs.Name] = clamped
		scoreByName[cs.Name] = clamped
	}

	var overall float64
	for _, c := range rubric.Criteria {
		overall += scoreByName[c.Name] * c.Weight
	}
	overall = domain.Clamp01(overall)

	return &domain.Evaluation{
		AttemptID:       attempt.ID,
		RubricID:        rubric.ID,
		OverallScore:    overall,
		CriterionScores: datatypes.JSONMap(criterionScores),
		Strengths:       rec.Strengths,
		Weaknesses:      rec.Weaknesses,
		Feedback:        rec.Feedback,
	}, nil
}

func fallbackEvaluation(attemptID, rubricID uuid.UUID) *domain.Evaluation {
	return &domain.Evaluation{
		AttemptID:       attemptID,
		RubricID:        rubricID,
		OverallScore:    fallbackScore,
		CriterionScores: datatypes.JSONMap{},
		Strengths:       []string{},
		Weaknesses:      []string{},
		Feedback:        fallbackFeedback,
	}
}

func decodeEvaluation(raw map[string]any) (*evaluationRecord, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var rec evaluationRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	if len(rec.CriterionScores) == 0 {
		return nil, fmt.Errorf("evaluator: missing criterion_scores")
	}
	return &rec, nil
}

func buildPrompt(attempt *domain.Attempt, item *domain.PracticeItem, rubric *domain.Rubric) (system, user string) {
	system = "You grade an interview-prep practice attempt against a weighted rubric. " +
		"Score every criterion independently in [0,1]; do not compute an overall score yourself."

	var expected string
	if item.ExpectedAnswer != nil {
		expected = *item.ExpectedAnswer
	}

	user = fmt.Sprintf(
		"Item type: %s\nQuestion: %s\nExpected answer (if any): %s\n\nRubric criteria:\n%s\n\nUser's answer:\n%s",
		item.Type, item.Question, expected, formatCriteria(rubric.Criteria), attempt.Answer)
	return system, user
}

func formatCriteria(criteria []domain.RubricCriterion) string {
	out := ""
	for _, c := range criteria {
		out += fmt.Sprintf("- %s (weight %.2f): %s\n", c.Name, c.Weight, c.Description)
	}
	return out
}
