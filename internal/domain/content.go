package domain

// TaskContent is the scaffold every Task carries regardless of its Type
// (learn/practice/review); kept as a typed shape rather than a free-form
// attribute bag so content stays queryable and self-describing.
type TaskContent struct {
	StudyMaterials []string `json:"study_materials,omitempty"`
	Resources      []string `json:"resources,omitempty"`
	KeyConcepts    []string `json:"key_concepts,omitempty"`
	Exercises      []string `json:"exercises,omitempty"`
	AdaptiveNote   string   `json:"adaptive_note,omitempty"`
}

// MCQOption is one choice of a quiz_mcq PracticeItem.
type MCQOption struct {
	Text      string `json:"text"`
	Correct   bool   `json:"correct"`
	Rationale string `json:"rationale,omitempty"`
}

type MCQContent struct {
	Options     []MCQOption `json:"options"`
	Explanation string      `json:"explanation"`
}

type ShortAnswerContent struct {
	KeyPoints []string `json:"key_points"`
}

type FlashcardContent struct {
	Back string `json:"back"`
}

type BehavioralContent struct {
	SituationPrompt     string   `json:"situation_prompt"`
	TaskPrompt          string   `json:"task_prompt"`
	ActionPrompt        string   `json:"action_prompt"`
	ResultPrompt        string   `json:"result_prompt"`
	EvaluationCriteria  []string `json:"evaluation_criteria"`
}

type SystemDesignEvaluationFramework struct {
	Functional     string `json:"functional"`
	NonFunctional  string `json:"non_functional"`
	Architecture   string `json:"architecture"`
	TradeOffs      string `json:"trade_offs"`
	Completeness   string `json:"completeness"`
}

type SystemDesignContent struct {
	Requirements         []string                        `json:"requirements"`
	Constraints          []string                        `json:"constraints"`
	EvaluationFramework  SystemDesignEvaluationFramework `json:"evaluation_framework"`
}

// PracticeContent is a discriminated union keyed by PracticeItem.Type: at
// most one field is populated, matching the field named by the item's Type.
type PracticeContent struct {
	MCQ          *MCQContent          `json:"mcq,omitempty"`
	Short        *ShortAnswerContent  `json:"short,omitempty"`
	Flashcard    *FlashcardContent    `json:"flashcard,omitempty"`
	Behavioral   *BehavioralContent   `json:"behavioral,omitempty"`
	SystemDesign *SystemDesignContent `json:"system_design,omitempty"`
}

// PlanDiffChange is one atomic mutation recorded by the Adaptive Planner.
type PlanDiffChange struct {
	Action string `json:"action"` // "add" | "mark_optional"
	Type   string `json:"type"`   // always "task" today
	Skill  string `json:"skill"`
	Count  int    `json:"count"`
	Reason string `json:"reason"`
}

// PlanDiffEntry is one append to StudyPlan.DiffLog, produced by a single
// Adaptive Planner apply.
type PlanDiffEntry struct {
	Timestamp int64            `json:"timestamp"` // unix seconds, UTC
	Changes   []PlanDiffChange `json:"changes"`
}
