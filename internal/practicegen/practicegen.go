// Package practicegen turns a Task into typed, mastery-adaptive practice
// items: multiple-choice quizzes, short-answer questions, flashcards,
// behavioral prompts, and system-design prompts, each carrying the default
// Rubric for its type.
package practicegen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/data/repos"
	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/llm"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

const maxConcurrentGenerations = 4

// Generator is the boundary the orchestrator drives for practice generation.
type Generator interface {
	Generate(ctx context.Context, tx *gorm.DB, task *domain.Task, itemType domain.PracticeType, count int) ([]domain.PracticeItem, error)
}

type generator struct {
	llm        llm.Client
	mastery    repos.MasteryRepo
	rubrics    repos.RubricRepo
	skills     repos.SkillRepo
	items      repos.PracticeItemRepo
	maxConcurrent int
	log        *logger.Logger
}

func New(client llm.Client, mastery repos.MasteryRepo, rubrics repos.RubricRepo, skills repos.SkillRepo, items repos.PracticeItemRepo, maxConcurrent int, log *logger.Logger) Generator {
	if maxConcurrent <= 0 {
		maxConcurrent = maxConcurrentGenerations
	}
	return &generator{
		llm: client, mastery: mastery, rubrics: rubrics, skills: skills, items: items,
		maxConcurrent: maxConcurrent, log: log.With("component", "practice_generator"),
	}
}

// defaultCriteria mirrors the per-type rubric weights.
var defaultCriteria = map[domain.PracticeType][]domain.RubricCriterion{
	domain.PracticeTypeMCQ: {
		{Name: "Correctness", Weight: 0.7, Description: "The selected answer matches the correct option."},
		{Name: "Understanding", Weight: 0.3, Description: "The explanation demonstrates understanding of why the answer is correct."},
	},
	domain.PracticeTypeFlashcard: {
		{Name: "Recall Accuracy", Weight: 1.0, Description: "The answer recalls the key fact accurately."},
	},
	domain.PracticeTypeShort: {
		{Name: "Correctness", Weight: 0.7, Description: "The answer covers the expected key points."},
		{Name: "Understanding", Weight: 0.3, Description: "The answer shows conceptual understanding beyond rote recall."},
	},
	domain.PracticeTypeBehavioral: {
		{Name: "STAR Structure", Weight: 0.3, Description: "The answer follows Situation/Task/Action/Result structure."},
		{Name: "Relevance", Weight: 0.2, Description: "The example is relevant to the prompt."},
		{Name: "Specificity", Weight: 0.2, Description: "The answer is concrete rather than generic."},
		{Name: "Impact", Weight: 0.3, Description: "The answer conveys measurable or clear impact."},
	},
	domain.PracticeTypeSystemDesign: {
		{Name: "Requirements", Weight: 0.2, Description: "Functional and non-functional requirements are identified."},
		{Name: "Architecture", Weight: 0.3, Description: "The proposed architecture is coherent and justified."},
		{Name: "Scalability", Weight: 0.2, Description: "Scalability concerns are addressed."},
		{Name: "Trade-offs", Weight: 0.2, Description: "Trade-offs between approaches are discussed."},
		{Name: "Completeness", Weight: 0.1, Description: "The answer covers the requested scope."},
	},
}

func (g *generator) Generate(ctx context.Context, tx *gorm.DB, task *domain.Task, itemType domain.PracticeType, count int) ([]domain.PracticeItem, error) {
	if task == nil {
		return nil, fmt.Errorf("practicegen: nil task")
	}
	if count < 1 {
		return nil, fmt.Errorf("practicegen: count must be >= 1")
	}

	rubric, err := g.rubrics.GetDefaultForType(ctx, tx, itemType)
	if err != nil {
		return nil, fmt.Errorf("practicegen: load rubric: %w", err)
	}
	if rubric == nil {
		rubric, err = g.rubrics.EnsureDefault(ctx, tx, itemType, defaultCriteria[itemType])
		if err != nil {
			return nil, fmt.Errorf("practicegen: ensure default rubric: %w", err)
		}
	}

	difficulty, err := g.difficultyFor(ctx, tx, task.UserID, task.SkillRefs)
	if err != nil {
		return nil, fmt.Errorf("practicegen: compute difficulty: %w", err)
	}

	skillNames := g.skillNamesFor(ctx, tx, task.SkillRefs)

	results := make([]*domain.PracticeItem, count)
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.maxConcurrent)
	for i := 0; i < count; i++ {
		idx := i
		grp.Go(func() error {
			item, genErr := g.generateOne(gctx, itemType, difficulty, skillNames, task.SkillRefs, rubric.ID)
			if genErr != nil {
				g.log.Warn("dropping practice item after generation failure", "task_id", task.ID, "type", itemType, "error", genErr)
				return nil
			}
			results[idx] = item
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.PracticeItem, 0, count)
	for _, item := range results {
		if item != nil {
			item.TaskID = &task.ID
			out = append(out, *item)
		}
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := g.items.CreateBatch(ctx, tx, out); err != nil {
		return nil, fmt.Errorf("practicegen: persist items: %w", err)
	}
	return out, nil
}

// difficultyFor buckets task difficulty by the minimum mastery score across
// its referenced skills, defaulting unknown skills to 0 (beginner).
func (g *generator) difficultyFor(ctx context.Context, tx *gorm.DB, userID uuid.UUID, skillRefs []uuid.UUID) (domain.Difficulty, error) {
	if len(skillRefs) == 0 {
		return domain.DifficultyForMastery(0), nil
	}
	min := 1.0
	for _, skillID := range skillRefs {
		score := 0.0
		m, err := g.mastery.Get(ctx, tx, userID, skillID)
		if err != nil {
			return "", err
		}
		if m != nil {
			score = m.Score
		}
		if score < min {
			min = score
		}
	}
	return domain.DifficultyForMastery(min), nil
}

func (g *generator) skillNamesFor(ctx context.Context, tx *gorm.DB, skillRefs []uuid.UUID) []string {
	out := make([]string, 0, len(skillRefs))
	for _, id := range skillRefs {
		s, err := g.skills.Get(ctx, tx, id)
		if err == nil && s != nil {
			out = append(out, s.CanonicalName)
		}
	}
	return out
}

type mcqOptionRecord struct {
	Text      string `json:"text" jsonschema:"required"`
	Correct   bool   `json:"correct" jsonschema:"required"`
	Rationale string `json:"rationale"`
}

type mcqRecord struct {
	Question    string            `json:"question" jsonschema:"required"`
	Options     []mcqOptionRecord `json:"options" jsonschema:"required,minItems=4,maxItems=4"`
	Explanation string            `json:"explanation" jsonschema:"required"`
}

type shortRecord struct {
	Question  string   `json:"question" jsonschema:"required"`
	KeyPoints []string `json:"key_points" jsonschema:"required,minItems=3,maxItems=6"`
}

type flashcardRecord struct {
	Front string `json:"front" jsonschema:"required"`
	Back  string `json:"back" jsonschema:"required,description=At most 3 short sentences"`
}

type behavioralRecord struct {
	SituationPrompt    string   `json:"situation_prompt" jsonschema:"required"`
	TaskPrompt         string   `json:"task_prompt" jsonschema:"required"`
	ActionPrompt       string   `json:"action_prompt" jsonschema:"required"`
	ResultPrompt       string   `json:"result_prompt" jsonschema:"required"`
	EvaluationCriteria []string `json:"evaluation_criteria" jsonschema:"required"`
}

type systemDesignRecord struct {
	Question            string   `json:"question" jsonschema:"required"`
	Requirements         []string `json:"requirements" jsonschema:"required"`
	Constraints          []string `json:"constraints" jsonschema:"required"`
	Functional           string   `json:"functional" jsonschema:"required"`
	NonFunctional        string   `json:"non_functional" jsonschema:"required"`
	Architecture         string   `json:"architecture" jsonschema:"required"`
	TradeOffs            string   `json:"trade_offs" jsonschema:"required"`
	Completeness         string   `json:"completeness" jsonschema:"required"`
}

func (g *generator) generateOne(ctx context.Context, itemType domain.PracticeType, difficulty domain.Difficulty, skillNames []string, skillRefs []uuid.UUID, rubricID uuid.UUID) (*domain.PracticeItem, error) {
	system, user, schemaName, schema, decode := g.buildRequest(itemType, difficulty, skillNames)

	raw, err := g.llm.GenerateJSON(ctx, system, user, schemaName, schema)
	if err != nil {
		stricter := system + "\nReturn ONLY the fields defined by the schema, with no additional commentary."
		raw, err = g.llm.GenerateJSON(ctx, stricter, user, schemaName, schema)
		if err != nil {
			return nil, err
		}
	}

	item, err := decode(raw)
	if err != nil {
		// Retry once on parse failure, per the generator's drop-on-failure policy.
		raw, err = g.llm.GenerateJSON(ctx, system, user, schemaName, schema)
		if err != nil {
			return nil, err
		}
		item, err = decode(raw)
		if err != nil {
			return nil, err
		}
	}
	item.ID = uuid.New()
	item.SkillRefs = skillRefs
	item.Difficulty = difficulty
	item.RubricID = rubricID
	return item, nil
}

type decodeFunc func(raw map[string]any) (*domain.PracticeItem, error)

func (g *generator) buildRequest(itemType domain.PracticeType, difficulty domain.Difficulty, skillNames []string) (system, user, schemaName string, schema map[string]any, decode decodeFunc) {
	base := fmt.Sprintf("You write a single %s interview-prep practice item at %s difficulty covering: %v. Respond using the provided schema only.", itemType, difficulty, skillNames)

	switch itemType {
	case domain.PracticeTypeMCQ:
		return base, "Generate one multiple-choice question with exactly 4 options and exactly one correct option.",
			"mcq_item", llm.SchemaFor[mcqRecord](), decodeMCQ
	case domain.PracticeTypeShort:
		return base, "Generate one short-answer question with 3-6 key points that form the grading rubric.",
			"short_item", llm.SchemaFor[shortRecord](), decodeShort
	case domain.PracticeTypeFlashcard:
		return base, "Generate one flashcard: a front question and a back answer of at most 3 short sentences.",
			"flashcard_item", llm.SchemaFor[flashcardRecord](), decodeFlashcard
	case domain.PracticeTypeBehavioral:
		return base, "Generate one behavioral interview prompt with STAR-structured guidance and an evaluation criteria list.",
			"behavioral_item", llm.SchemaFor[behavioralRecord](), decodeBehavioral
	case domain.PracticeTypeSystemDesign:
		return base, "Generate one system-design prompt with requirements, constraints, and an evaluation framework.",
			"system_design_item", llm.SchemaFor[systemDesignRecord](), decodeSystemDesign
	default:
		return base, "Generate one short-answer question.", "short_item", llm.SchemaFor[shortRecord](), decodeShort
	}
}

func decodeMCQ(raw map[string]any) (*domain.PracticeItem, error) {
	var rec mcqRecord
	if err := remarshal(raw, &rec); err != nil {
		return nil, err
	}
	if len(rec.Options) != 4 {
		return nil, fmt.Errorf("practicegen: mcq must have exactly 4 options, got %d", len(rec.Options))
	}
	correctCount := 0
	var expected string
	opts := make([]domain.MCQOption, 0, len(rec.Options))
	for _, o := range rec.Options {
		if o.Correct {
			correctCount++
			expected = o.Text
		}
		opts = append(opts, domain.MCQOption{Text: o.Text, Correct: o.Correct, Rationale: o.Rationale})
	}
	if correctCount != 1 {
		return nil, fmt.Errorf("practicegen: mcq must have exactly 1 correct option, got %d", correctCount)
	}
	return &domain.PracticeItem{
		Type:           domain.PracticeTypeMCQ,
		Title:          "Multiple Choice",
		Question:       rec.Question,
		ExpectedAnswer: &expected,
		Content: datatypes.NewJSONType(domain.PracticeContent{
			MCQ: &domain.MCQContent{Options: opts, Explanation: rec.Explanation},
		}),
	}, nil
}

func decodeShort(raw map[string]any) (*domain.PracticeItem, error) {
	var rec shortRecord
	if err := remarshal(raw, &rec); err != nil {
		return nil, err
	}
	if len(rec.KeyPoints) < 3 {
		return nil, fmt.Errorf("practicegen: short answer needs at least 3 key points")
	}
	return &domain.PracticeItem{
		Type:     domain.PracticeTypeShort,
		Title:    "Short Answer",
		Question: rec.Question,
		Content: datatypes.NewJSONType(domain.PracticeContent{
			Short: &domain.ShortAnswerContent{KeyPoints: rec.KeyPoints},
		}),
	}, nil
}

func decodeFlashcard(raw map[string]any) (*domain.PracticeItem, error) {
	var rec flashcardRecord
	if err := remarshal(raw, &rec); err != nil {
		return nil, err
	}
	back := rec.Back
	return &domain.PracticeItem{
		Type:           domain.PracticeTypeFlashcard,
		Title:          "Flashcard",
		Question:       rec.Front,
		ExpectedAnswer: &back,
		Content: datatypes.NewJSONType(domain.PracticeContent{
			Flashcard: &domain.FlashcardContent{Back: rec.Back},
		}),
	}, nil
}

func decodeBehavioral(raw map[string]any) (*domain.PracticeItem, error) {
	var rec behavioralRecord
	if err := remarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &domain.PracticeItem{
		Type:     domain.PracticeTypeBehavioral,
		Title:    "Behavioral",
		Question: rec.SituationPrompt,
		Content: datatypes.NewJSONType(domain.PracticeContent{
			Behavioral: &domain.BehavioralContent{
				SituationPrompt:    rec.SituationPrompt,
				TaskPrompt:         rec.TaskPrompt,
				ActionPrompt:       rec.ActionPrompt,
				ResultPrompt:       rec.ResultPrompt,
				EvaluationCriteria: rec.EvaluationCriteria,
			},
		}),
	}, nil
}

func decodeSystemDesign(raw map[string]any) (*domain.PracticeItem, error) {
	var rec systemDesignRecord
	if err := remarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &domain.PracticeItem{
		Type:     domain.PracticeTypeSystemDesign,
		Title:    "System Design",
		Question: rec.Question,
		Content: datatypes.NewJSONType(domain.PracticeContent{
			SystemDesign: &domain.SystemDesignContent{
				Requirements: rec.Requirements,
				Constraints:  rec.Constraints,
				EvaluationFramework: domain.SystemDesignEvaluationFramework{
					Functional:    rec.Functional,
					NonFunctional: rec.NonFunctional,
					Architecture:  rec.Architecture,
					TradeOffs:     rec.TradeOffs,
					Completeness:  rec.Completeness,
				},
			},
		}),
	}, nil
}

// remarshal round-trips a decoded-JSON map back through encoding/json into a
// concrete struct, since GenerateJSON hands back a generic map[string]any.
func remarshal(raw map[string]any, out any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
