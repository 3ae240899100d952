// Package planner synthesizes a multi-week StudyPlan from a user's gap
// report under a weekly time budget, enforcing the minute and date
// constraints deterministically regardless of anything an LLM is asked to
// title or describe.
package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/data/repos"
	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/llm"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

const (
	defaultWeekMinuteTolerance = 0.10
	maxGapShareOfBudget        = 0.30
	minFocusSkillsPerWeek      = 2
	maxFocusSkillsPerWeek      = 5
	weekendSkipMinWeeksOut     = 6
)

// Constraints is the caller-supplied budget for a new plan.
type Constraints struct {
	Weeks         int
	HoursPerWeek  float64
	InterviewDate *time.Time
}

// Result bundles everything Synthesize creates so the caller can persist it
// inside a single transaction.
type Result struct {
	Plan  domain.StudyPlan
	Weeks []domain.Week
	Days  []domain.Day
	Tasks []domain.Task
}

// Planner is the boundary the orchestrator drives for plan synthesis.
type Planner interface {
	Synthesize(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gaps []domain.Gap, constraints Constraints) (*Result, error)
}

type planner struct {
	llm             llm.Client
	skills          repos.SkillRepo
	tolerance       float64
	log             *logger.Logger
}

func New(client llm.Client, skills repos.SkillRepo, weekMinuteTolerance float64, log *logger.Logger) Planner {
	if weekMinuteTolerance <= 0 {
		weekMinuteTolerance = defaultWeekMinuteTolerance
	}
	return &planner{llm: client, skills: skills, tolerance: weekMinuteTolerance, log: log.With("component", "planner")}
}

func (p *planner) Synthesize(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gaps []domain.Gap, constraints Constraints) (*Result, error) {
	if constraints.Weeks < 1 {
		return nil, fmt.Errorf("planner: weeks must be >= 1")
	}
	if constraints.HoursPerWeek <= 0 {
		return nil, fmt.Errorf("planner: hours_per_week must be > 0")
	}
	if len(gaps) == 0 {
		return nil, fmt.Errorf("planner: no gaps to plan for")
	}

	now := time.Now().UTC()
	plan := domain.StudyPlan{
		ID:            uuid.New(),
		UserID:        userID,
		WeeksCount:    constraints.Weeks,
		HoursPerWeek:  constraints.HoursPerWeek,
		InterviewDate: constraints.InterviewDate,
		FocusAreas:    focusAreaNames(gaps, p, ctx, tx),
		Epoch:         1,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	targetTotalHours := float64(constraints.Weeks) * constraints.HoursPerWeek
	allocated := allocateHours(gaps, targetTotalHours)
	buckets := bucketByWeek(gaps, constraints.Weeks)

	weekBudgetMinutes := constraints.HoursPerWeek * 60 * (1 + p.tolerance)
	skipWeekends := constraints.InterviewDate != nil &&
		weeksUntil(now, *constraints.InterviewDate) >= weekendSkipMinWeeksOut

	var weeks []domain.Week
	var days []domain.Day
	var tasks []domain.Task

	lastTaskDate := plan.LastTaskDate()
	weekStart := plan.WindowStart()

	for weekIdx, gapBucket := range buckets {
		weekNumber := weekIdx + 1
		week := domain.Week{
			ID:          uuid.New(),
			PlanID:      plan.ID,
			WeekNumber:  weekNumber,
			Theme:       weekTheme(gapBucket),
			FocusSkills: skillNamesFor(gapBucket, p, ctx, tx),
		}
		weeks = append(weeks, week)

		weekMinutesTotal := 0.0
		for _, g := range gapBucket {
			weekMinutesTotal += allocated[g.ID] * 60
		}
		if weekMinutesTotal > weekBudgetMinutes {
			weekMinutesTotal = weekBudgetMinutes
		}

		weekDays, weekTasks := buildWeekDays(week, userID, weekStart, skipWeekends, weekMinutesTotal, gapBucket, lastTaskDate)
		days = append(days, weekDays...)
		tasks = append(tasks, weekTasks...)

		weekStart = weekStart.AddDate(0, 0, 7)
	}

	return &Result{Plan: plan, Weeks: weeks, Days: days, Tasks: tasks}, nil
}

// allocateHours scales each gap's estimated hours so the total fits the
// target budget, capping any single gap at 30% of that budget.
func allocateHours(gaps []domain.Gap, targetTotalHours float64) map[uuid.UUID]float64 {
	var total float64
	for _, g := range gaps {
		total += g.EstimatedHours
	}
	scale := 1.0
	if total > 0 && targetTotalHours > 0 {
		scale = targetTotalHours / total
		if scale > 1 {
			scale = 1
		}
	}
	capHours := targetTotalHours * maxGapShareOfBudget
	out := make(map[uuid.UUID]float64, len(gaps))
	for _, g := range gaps {
		h := g.EstimatedHours * scale
		if capHours > 0 && h > capHours {
			h = capHours
		}
		out[g.ID] = h
	}
	return out
}

// bucketByWeek groups priority-sorted gaps into weeksCount buckets of
// 2-5 focus skills each, highest priority first into earliest weeks.
func bucketByWeek(gaps []domain.Gap, weeksCount int) [][]domain.Gap {
	sorted := make([]domain.Gap, len(gaps))
	copy(sorted, gaps)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority.Rank() != sorted[j].Priority.Rank() {
			return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
		}
		return sorted[i].EstimatedHours > sorted[j].EstimatedHours
	})

	chunkSize := len(sorted) / weeksCount
	if chunkSize < minFocusSkillsPerWeek {
		chunkSize = minFocusSkillsPerWeek
	}
	if chunkSize > maxFocusSkillsPerWeek {
		chunkSize = maxFocusSkillsPerWeek
	}

	buckets := make([][]domain.Gap, weeksCount)
	idx := 0
	for w := 0; w < weeksCount; w++ {
		var bucket []domain.Gap
		for len(bucket) < chunkSize && idx < len(sorted) {
			bucket = append(bucket, sorted[idx])
			idx++
		}
		if len(bucket) == 0 && len(sorted) > 0 {
			// Out of fresh gaps; later weeks reinforce the lowest-priority
			// (last) skills rather than sit empty.
			start := len(sorted) - minFocusSkillsPerWeek
			if start < 0 {
				start = 0
			}
			bucket = append(bucket, sorted[start:]...)
		}
		buckets[w] = bucket
	}
	return buckets
}

func weekTheme(gaps []domain.Gap) string {
	if len(gaps) == 0 {
		return "Review"
	}
	return fmt.Sprintf("Focus: %s", gaps[0].Priority)
}

func skillNamesFor(gaps []domain.Gap, p *planner, ctx context.Context, tx *gorm.DB) []string {
	out := make([]string, 0, len(gaps))
	for _, g := range gaps {
		if s, err := p.skills.Get(ctx, tx, g.SkillID); err == nil && s != nil {
			out = append(out, s.CanonicalName)
		}
	}
	return out
}

func focusAreaNames(gaps []domain.Gap, p *planner, ctx context.Context, tx *gorm.DB) []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range gaps {
		s, err := p.skills.Get(ctx, tx, g.SkillID)
		if err != nil || s == nil || seen[s.CanonicalName] {
			continue
		}
		seen[s.CanonicalName] = true
		out = append(out, s.CanonicalName)
	}
	return out
}

func weeksUntil(now, target time.Time) int {
	days := int(target.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 7
}

// buildWeekDays distributes weekMinutesTotal across the week's active days
// (5 if weekends are skipped, else 7), producing a learn->practice->review
// triplet per day where the budget allows, with review referencing the
// prior day's skill set. No task is placed after lastTaskDate.
func buildWeekDays(week domain.Week, userID uuid.UUID, weekStart time.Time, skipWeekends bool, weekMinutesTotal float64, gaps []domain.Gap, lastTaskDate time.Time) ([]domain.Day, []domain.Task) {
	activeDayOffsets := make([]int, 0, 7)
	for offset := 0; offset < 7; offset++ {
		date := weekStart.AddDate(0, 0, offset)
		if skipWeekends && isWeekend(date) {
			continue
		}
		if date.After(lastTaskDate) {
			continue
		}
		activeDayOffsets = append(activeDayOffsets, offset)
	}
	if len(activeDayOffsets) == 0 {
		return nil, nil
	}

	perDayMinutes := weekMinutesTotal / float64(len(activeDayOffsets))
	skillRefs := skillIDs(gaps)

	var days []domain.Day
	var tasks []domain.Task
	var prevDayTaskRefs []uuid.UUID

	for dayNum, offset := range activeDayOffsets {
		date := weekStart.AddDate(0, 0, offset)
		dayTasks, minutes := buildDayTasks(week.PlanID, userID, date, skillRefs, perDayMinutes, prevDayTaskRefs)
		day := domain.Day{
			ID:               uuid.New(),
			WeekID:           week.ID,
			DayNumber:        dayNum + 1,
			Date:             date,
			Theme:            week.Theme,
			EstimatedMinutes: minutes,
		}
		days = append(days, day)
		for i := range dayTasks {
			dayTasks[i].DayID = day.ID
		}
		tasks = append(tasks, dayTasks...)

		prevDayTaskRefs = prevDayTaskRefs[:0]
		for _, t := range dayTasks {
			if t.Type == domain.TaskTypeLearn || t.Type == domain.TaskTypePractice {
				prevDayTaskRefs = append(prevDayTaskRefs, t.ID)
			}
		}
	}
	return days, tasks
}

func skillIDs(gaps []domain.Gap) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(gaps))
	for _, g := range gaps {
		out = append(out, g.SkillID)
	}
	return out
}

// buildDayTasks produces the learn->practice->review triplet for one day.
// A review task is only included when there is a prior day to reference.
func buildDayTasks(planID, userID uuid.UUID, date time.Time, skillRefs []uuid.UUID, budgetMinutes float64, prevDayRefs []uuid.UUID) ([]domain.Task, int) {
	hasReview := len(prevDayRefs) > 0
	var learnShare, practiceShare, reviewShare float64
	if hasReview {
		learnShare, practiceShare, reviewShare = 0.4, 0.4, 0.2
	} else {
		learnShare, practiceShare = 0.5, 0.5
	}

	learnMinutes := int(budgetMinutes * learnShare)
	practiceMinutes := int(budgetMinutes * practiceShare)
	reviewMinutes := int(budgetMinutes * reviewShare)

	tasks := []domain.Task{
		newTask(planID, userID, date, domain.TaskTypeLearn, "Study session", skillRefs, learnMinutes, domain.TaskContent{
			KeyConcepts: []string{"Review core concepts for today's focus skills"},
		}),
		newTask(planID, userID, date, domain.TaskTypePractice, "Practice session", skillRefs, practiceMinutes, domain.TaskContent{
			Exercises: []string{"Apply today's concepts with hands-on exercises"},
		}),
	}
	total := learnMinutes + practiceMinutes
	if hasReview {
		tasks = append(tasks, newTask(planID, userID, date, domain.TaskTypeReview, "Review prior material", skillRefs, reviewMinutes, domain.TaskContent{
			StudyMaterials: []string{"Revisit yesterday's learn and practice sessions"},
		}))
		total += reviewMinutes
	}
	return tasks, total
}

func newTask(planID, userID uuid.UUID, date time.Time, taskType domain.TaskType, title string, skillRefs []uuid.UUID, minutes int, content domain.TaskContent) domain.Task {
	now := time.Now().UTC()
	return domain.Task{
		ID:               uuid.New(),
		PlanID:           planID,
		UserID:           userID,
		Date:             date,
		Type:             taskType,
		Title:            title,
		Description:      fmt.Sprintf("%s covering this week's focus skills.", title),
		SkillRefs:        skillRefs,
		EstimatedMinutes: minutes,
		Status:           domain.TaskStatusPending,
		Content:          datatypes.NewJSONType(content),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
