// Package coach assembles the user's daily briefing and drives task status
// transitions, rescheduling, carry-over, and overdue-task redistribution.
package coach

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/data/repos"
	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/llm"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

const (
	focusSkillsCap       = 8
	overdueSpreadDays    = 3
	dailyMinuteTolerance = 1.10
)

// Briefing is the assembled view the Daily Coach returns for a given day.
type Briefing struct {
	Date                time.Time
	Tasks               []domain.Task
	OverdueTasks        []domain.Task
	TotalCount          int
	CompletedCount      int
	PendingCount        int
	OverdueCount        int
	CompletionPercentage float64
	EstimatedMinutes    int
	ActualMinutes       int
	FocusSkills         []uuid.UUID
	Message             string
}

// Coach is the boundary the orchestrator drives for daily interaction.
type Coach interface {
	Briefing(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*Briefing, error)
	Complete(ctx context.Context, tx *gorm.DB, taskID uuid.UUID, actualMinutes *int) (*domain.Task, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)
	Reschedule(ctx context.Context, tx *gorm.DB, taskID uuid.UUID, newDate time.Time, reason string) (*domain.Task, error)
	CarryOver(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromDate, toDate time.Time) ([]uuid.UUID, error)
	AutoRescheduleOverdue(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
}

type coach struct {
	tasks repos.TaskRepo
	plans repos.StudyPlanRepo
	llm   llm.Client
	log   *logger.Logger
}

func New(tasks repos.TaskRepo, plans repos.StudyPlanRepo, client llm.Client, log *logger.Logger) Coach {
	return &coach{tasks: tasks, plans: plans, llm: client, log: log.With("component", "daily_coach")}
}

func (c *coach) Briefing(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*Briefing, error) {
	day := date.Truncate(24 * time.Hour)
	todayTasks, err := c.tasks.ListByUserAndDate(ctx, tx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("coach: list today's tasks: %w", err)
	}
	overdue, err := c.tasks.ListOverdue(ctx, tx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("coach: list overdue tasks: %w", err)
	}

	b := &Briefing{Date: day, Tasks: todayTasks, OverdueTasks: overdue}
	b.TotalCount = len(todayTasks)
	b.OverdueCount = len(overdue)

	var allSkillRefs []uuid.UUID
	for _, t := range todayTasks {
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
		allSkillRefs = append(allSkillRefs, t.SkillRefs...)
	}
	b.FocusSkills = lo.Subset(lo.Uniq(allSkillRefs), 0, focusSkillsCap)
	if b.TotalCount > 0 {
		b.CompletionPercentage = float64(b.CompletedCount) / float64(b.TotalCount)
	}

	b.Message = c.motivationalMessage(ctx, b)
	return b, nil
}

func (c *coach) motivationalMessage(ctx context.Context, b *Briefing) string {
	system := "You write one short, encouraging paragraph for someone preparing for a job interview, " +
		"grounded in their actual progress for the day. No more than 3 sentences."
	user := fmt.Sprintf(
		"Today: %d tasks total, %d completed, %d pending, %d overdue from prior days. Completion: %.0f%%.",
		b.TotalCount, b.CompletedCount, b.PendingCount, b.OverdueCount, b.CompletionPercentage*100)

	msg, err := c.llm.GenerateText(ctx, system, user)
	if err != nil || msg == "" {
		return fallbackMessage(b)
	}
	return msg
}

func fallbackMessage(b *Briefing) string {
	if b.TotalCount == 0 {
		return "No tasks scheduled today — a good day to review past material or get ahead on tomorrow's plan."
	}
	if b.CompletedCount == b.TotalCount {
		return "All of today's tasks are complete. Great consistency — keep it up tomorrow."
	}
	return fmt.Sprintf("You have %d task(s) left today. Keep going — steady progress adds up.", b.TotalCount-b.CompletedCount)
}

func (c *coach) Complete(ctx context.Context, tx *gorm.DB, taskID uuid.UUID, actualMinutes *int) (*domain.Task, error) {
	task, err := c.tasks.Get(ctx, tx, taskID)
	if err != nil {
		return nil, fmt.Errorf("coach: load task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("coach: task %s not found", taskID)
	}
	if !domain.CanTransition(task.Status, domain.TaskStatusCompleted) {
		return nil, fmt.Errorf("coach: cannot transition task %s from %s to completed", taskID, task.Status)
	}
	now := time.Now().UTC()
	task.Status = domain.TaskStatusCompleted
	task.CompletedAt = &now
	if actualMinutes != nil {
		task.ActualMinutes = actualMinutes
	}
	task.UpdatedAt = now
	if err := c.tasks.Update(ctx, tx, task); err != nil {
		return nil, fmt.Errorf("coach: persist completion: %w", err)
	}
	return task, nil
}

func (c *coach) UpdateStatus(ctx context.Context, tx *gorm.DB, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error) {
	task, err := c.tasks.Get(ctx, tx, taskID)
	if err != nil {
		return nil, fmt.Errorf("coach: load task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("coach: task %s not found", taskID)
	}
	if !domain.CanTransition(task.Status, status) {
		return nil, fmt.Errorf("coach: cannot transition task %s from %s to %s", taskID, task.Status, status)
	}
	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	if status == domain.TaskStatusCompleted && task.CompletedAt == nil {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}
	if err := c.tasks.Update(ctx, tx, task); err != nil {
		return nil, fmt.Errorf("coach: persist status update: %w", err)
	}
	return task, nil
}

func (c *coach) Reschedule(ctx context.Context, tx *gorm.DB, taskID uuid.UUID, newDate time.Time, reason string) (*domain.Task, error) {
	task, err := c.tasks.Get(ctx, tx, taskID)
	if err != nil {
		return nil, fmt.Errorf("coach: load task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("coach: task %s not found", taskID)
	}
	plan, err := c.plans.Get(ctx, tx, task.PlanID)
	if err != nil {
		return nil, fmt.Errorf("coach: load plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("coach: plan %s not found", task.PlanID)
	}
	day := newDate.Truncate(24 * time.Hour)
	if day.Before(plan.WindowStart()) || !day.Before(plan.WindowEnd()) {
		return nil, fmt.Errorf("coach: %s is outside the plan window", day.Format("2006-01-02"))
	}
	if plan.InterviewDate != nil && !day.Before(plan.InterviewDate.Truncate(24*time.Hour)) {
		return nil, fmt.Errorf("coach: cannot reschedule on or after the interview date")
	}

	task.Date = day
	task.UpdatedAt = time.Now().UTC()
	if reason != "" {
		content := task.Content.Data()
		content.AdaptiveNote = reason
		task.Content = datatypes.NewJSONType(content)
	}
	if err := c.tasks.Update(ctx, tx, task); err != nil {
		return nil, fmt.Errorf("coach: persist reschedule: %w", err)
	}
	return task, nil
}

func (c *coach) CarryOver(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromDate, toDate time.Time) ([]uuid.UUID, error) {
	from := fromDate.Truncate(24 * time.Hour)
	to := toDate.Truncate(24 * time.Hour)
	tasks, err := c.tasks.ListByUserAndDate(ctx, tx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("coach: list tasks for %s: %w", from.Format("2006-01-02"), err)
	}
	var moved []uuid.UUID
	for i := range tasks {
		t := tasks[i]
		if t.Status != domain.TaskStatusPending && t.Status != domain.TaskStatusInProgress {
			continue
		}
		t.Date = to
		t.UpdatedAt = time.Now().UTC()
		if err := c.tasks.Update(ctx, tx, &t); err != nil {
			return nil, fmt.Errorf("coach: carry over task %s: %w", t.ID, err)
		}
		moved = append(moved, t.ID)
	}
	return moved, nil
}

func (c *coach) AutoRescheduleOverdue(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	overdue, err := c.tasks.ListOverdue(ctx, tx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("coach: list overdue tasks: %w", err)
	}
	if len(overdue) == 0 {
		return nil, nil
	}

	plan, err := c.plans.GetActiveForUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("coach: load active plan: %w", err)
	}
	var perDayCap float64 = 1 << 30
	if plan != nil {
		perDayCap = plan.HoursPerWeek * 60 * dailyMinuteTolerance / 7
	}

	candidateDates := make([]time.Time, overdueSpreadDays)
	minutesByDate := make(map[time.Time]int, overdueSpreadDays)
	for i := 0; i < overdueSpreadDays; i++ {
		d := today.AddDate(0, 0, i)
		candidateDates[i] = d
		existing, err := c.tasks.ListByUserAndDate(ctx, tx, userID, d)
		if err != nil {
			return nil, fmt.Errorf("coach: list tasks for %s: %w", d.Format("2006-01-02"), err)
		}
		for _, t := range existing {
			minutesByDate[d] += t.EstimatedMinutes
		}
	}

	var moved []uuid.UUID
	for i := range overdue {
		t := overdue[i]
		ranked := append([]time.Time(nil), candidateDates...)
		sort.Slice(ranked, func(i, j int) bool { return minutesByDate[ranked[i]] < minutesByDate[ranked[j]] })

		placed := false
		for _, d := range ranked {
			if float64(minutesByDate[d]+t.EstimatedMinutes) > perDayCap {
				continue
			}
			t.Date = d
			t.UpdatedAt = time.Now().UTC()
			if err := c.tasks.Update(ctx, tx, &t); err != nil {
				return nil, fmt.Errorf("coach: reschedule overdue task %s: %w", t.ID, err)
			}
			minutesByDate[d] += t.EstimatedMinutes
			moved = append(moved, t.ID)
			placed = true
			break
		}
		if !placed {
			c.log.Info("overdue task could not be placed within the spread window", "task_id", t.ID)
		}
	}
	return moved, nil
}
