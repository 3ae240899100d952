package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskType string

const (
	TaskTypeLearn    TaskType = "learn"
	TaskTypePractice TaskType = "practice"
	TaskTypeReview   TaskType = "review"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusSkipped    TaskStatus = "skipped"
)

// Task is created by the Planner or the Adaptive Planner and mutated by the
// Daily Coach (status transitions, completion) and, indirectly, by the
// Adaptive Planner's repetition-reduction pass (Optional flag).
type Task struct {
	ID               uuid.UUID                    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanID           uuid.UUID                    `gorm:"type:uuid;not null;index:idx_task_plan_status" json:"plan_id"`
	DayID            uuid.UUID                    `gorm:"type:uuid;not null;index" json:"day_id"`
	Date             time.Time                    `gorm:"column:date;not null;index:idx_task_user_date" json:"date"`
	UserID           uuid.UUID                    `gorm:"type:uuid;not null;index:idx_task_user_date" json:"user_id"`
	Type             TaskType                     `gorm:"column:type;not null" json:"type"`
	Title            string                       `gorm:"column:title;not null" json:"title"`
	Description      string                       `gorm:"column:description" json:"description"`
	SkillRefs        datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb;column:skill_refs" json:"skill_refs"`
	EstimatedMinutes int                           `gorm:"column:estimated_minutes;not null" json:"estimated_minutes"`
	Status           TaskStatus                    `gorm:"column:status;not null;index:idx_task_plan_status" json:"status"`
	Content          datatypes.JSONType[TaskContent] `gorm:"type:jsonb;column:content" json:"content"`
	Optional         bool                          `gorm:"column:optional;not null;default:false" json:"optional"`
	CompletedAt      *time.Time                    `gorm:"column:completed_at" json:"completed_at,omitempty"`
	ActualMinutes    *int                          `gorm:"column:actual_minutes" json:"actual_minutes,omitempty"`
	CreatedAt        time.Time                     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time                     `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt                 `gorm:"index" json:"deleted_at,omitempty"`
}

func (Task) TableName() string { return "tasks" }

// allowedTransitions encodes the daily task's status state machine:
// pending<->in_progress, any->completed, any->skipped.
var allowedTransitions = map[TaskStatus]map[TaskStatus]bool{
	TaskStatusPending:    {TaskStatusInProgress: true, TaskStatusCompleted: true, TaskStatusSkipped: true},
	TaskStatusInProgress: {TaskStatusPending: true, TaskStatusCompleted: true, TaskStatusSkipped: true},
	TaskStatusCompleted:  {TaskStatusCompleted: true, TaskStatusSkipped: true},
	TaskStatusSkipped:    {TaskStatusSkipped: true, TaskStatusCompleted: true},
}

// CanTransition reports whether moving from the task's current status to
// next is one of the allowed transitions.
func CanTransition(from, to TaskStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}
