// Package adaptive analyzes mastery trends against a user's active plan and,
// when asked to apply, atomically mutates the plan's upcoming tasks:
// inserting reinforcement practice for weak skills and marking redundant
// tasks optional for skills the user has already mastered.
package adaptive

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
	"github.com/interviewcoach/coach/internal/platform/logger"
)

// Defaults used whenever an Options field is left at its zero value.
const (
	defaultWeakMasteryThreshold     = 0.5
	defaultWeakPracticeCountFloor   = 3
	defaultStrongMasteryThreshold   = 0.8
	defaultStrongPracticeCountFloor = 5
	defaultHighPriorityThreshold    = 0.3
	defaultReinforcementMinutes     = 30
	defaultReinforcementCount       = 2
	defaultReinforcementSpacingDays = 2
	defaultRedundantTaskKeepCount   = 2
)

// reinforcementSpacingDays is used directly by pickDates's tests; spacing is
// not currently exposed as a per-call Options field since it only matters
// at insertion time, not analysis time.
const reinforcementSpacingDays = defaultReinforcementSpacingDays

// Options configures the thresholds and cadence the Adaptive Planner uses.
// Zero-valued fields fall back to the package defaults.
type Options struct {
	WeakMasteryThreshold     float64
	WeakPracticeCountFloor   int
	StrongMasteryThreshold   float64
	StrongPracticeCountFloor int
	HighPriorityThreshold    float64
	ReinforcementMinutes     int
	ReinforcementCount       int
	ReinforcementSpacingDays int
	RedundantTaskKeepCount   int
}

func (o Options) withDefaults() Options {
	if o.WeakMasteryThreshold == 0 {
		o.WeakMasteryThreshold = defaultWeakMasteryThreshold
	}
	if o.WeakPracticeCountFloor == 0 {
		o.WeakPracticeCountFloor = defaultWeakPracticeCountFloor
	}
	if o.StrongMasteryThreshold == 0 {
		o.StrongMasteryThreshold = defaultStrongMasteryThreshold
	}
	if o.StrongPracticeCountFloor == 0 {
		o.StrongPracticeCountFloor = defaultStrongPracticeCountFloor
	}
	if o.HighPriorityThreshold == 0 {
		o.HighPriorityThreshold = defaultHighPriorityThreshold
	}
	if o.ReinforcementMinutes == 0 {
		o.ReinforcementMinutes = defaultReinforcementMinutes
	}
	if o.ReinforcementCount == 0 {
		o.ReinforcementCount = defaultReinforcementCount
	}
	if o.ReinforcementSpacingDays == 0 {
		o.ReinforcementSpacingDays = defaultReinforcementSpacingDays
	}
	if o.RedundantTaskKeepCount == 0 {
		o.RedundantTaskKeepCount = defaultRedundantTaskKeepCount
	}
	return o
}

func defaultOptions() Options {
	return Options{}.withDefaults()
}

type SkillAnalysis struct {
	SkillID   uuid.UUID
	SkillName string
	Reason    string
	Score     float64
	Trend     domain.Trend
}

type Recommendation struct {
	SkillID   uuid.UUID
	SkillName string
	Action    string
	Priority  string
}

type Analysis struct {
	WeakSkills      []SkillAnalysis
	StrongSkills    []SkillAnalysis
	Recommendations []Recommendation
}

type Result struct {
	Analysis Analysis
	Changes  []domain.PlanDiffChange
}

// Adapter is the boundary the orchestrator drives for adaptive replanning.
type Adapter interface {
	Adapt(ctx context.Context, tx *gorm.DB, userID uuid.UUID, apply bool) (*Result, error)
}

type adapter struct {
	plans   repos.StudyPlanRepo
	weeks   repos.WeekRepo
	days    repos.DayRepo
	tasks   repos.TaskRepo
	mastery repos.MasteryRepo
	skills  repos.SkillRepo
	opts    Options
	log     *logger.Logger
}

func New(plans repos.StudyPlanRepo, weeks repos.WeekRepo, days repos.DayRepo, tasks repos.TaskRepo, mastery repos.MasteryRepo, skills repos.SkillRepo, opts Options, log *logger.Logger) Adapter {
	return &adapter{
		plans: plans, weeks: weeks, days: days, tasks: tasks, mastery: mastery, skills: skills,
		opts: opts.withDefaults(), log: log.With("component", "adaptive_planner"),
	}
}

func (a *adapter) Adapt(ctx context.Context, tx *gorm.DB, userID uuid.UUID, apply bool) (*Result, error) {
	plan, err := a.plans.GetActiveForUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("adaptive: load active plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("adaptive: user has no active plan")
	}

	masteries, err := a.mastery.ListByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("adaptive: list mastery: %w", err)
	}

	analysis := a.analyze(ctx, tx, masteries)

	result := &Result{Analysis: analysis}
	if !apply {
		return result, nil
	}

	changes, err := a.apply(ctx, tx, plan, userID, analysis)
	if err != nil {
		return nil, err
	}
	result.Changes = changes
	return result, nil
}

func (a *adapter) analyze(ctx context.Context, tx *gorm.DB, masteries []domain.Mastery) Analysis {
	var analysis Analysis
	for _, m := range masteries {
		skill, err := a.skills.Get(ctx, tx, m.SkillID)
		if err != nil || skill == nil {
			continue
		}
		if reason, weak := weakReasonWithOpts(m, a.opts); weak {
			analysis.WeakSkills = append(analysis.WeakSkills, SkillAnalysis{
				SkillID: m.SkillID, SkillName: skill.CanonicalName, Reason: reason, Score: m.Score, Trend: m.Trend,
			})
			priority := "medium"
			if m.Score < a.opts.HighPriorityThreshold || m.Trend == domain.TrendDeclining {
				priority = "high"
			}
			analysis.Recommendations = append(analysis.Recommendations, Recommendation{
				SkillID: m.SkillID, SkillName: skill.CanonicalName, Action: fmt.Sprintf("add %d reinforcement tasks", a.opts.ReinforcementCount), Priority: priority,
			})
			continue
		}
		if isStrongWithOpts(m, a.opts) {
			analysis.StrongSkills = append(analysis.StrongSkills, SkillAnalysis{
				SkillID: m.SkillID, SkillName: skill.CanonicalName, Score: m.Score, Trend: m.Trend,
			})
		}
	}
	return analysis
}

// weakReason applies the documented default thresholds; it exists mainly
// so tests can exercise the classification logic without constructing an
// adapter. analyze uses weakReasonWithOpts so configured thresholds apply.
func weakReason(m domain.Mastery) (string, bool) {
	return weakReasonWithOpts(m, defaultOptions())
}

func weakReasonWithOpts(m domain.Mastery, opts Options) (string, bool) {
	var reasons []string
	if m.Score < opts.WeakMasteryThreshold {
		reasons = append(reasons, fmt.Sprintf("score below %g", opts.WeakMasteryThreshold))
	}
	if m.Trend == domain.TrendDeclining {
		reasons = append(reasons, "trend declining")
	}
	if m.PracticeCount < opts.WeakPracticeCountFloor {
		reasons = append(reasons, fmt.Sprintf("fewer than %d practice attempts", opts.WeakPracticeCountFloor))
	}
	if len(reasons) == 0 {
		return "", false
	}
	reason := reasons[0]
	for _, r := range reasons[1:] {
		reason += "; " + r
	}
	return reason, true
}

func isStrong(m domain.Mastery) bool {
	return isStrongWithOpts(m, defaultOptions())
}

func isStrongWithOpts(m domain.Mastery, opts Options) bool {
	return m.Score >= opts.StrongMasteryThreshold && m.Trend == domain.TrendImproving && m.PracticeCount >= opts.StrongPracticeCountFloor
}

// scheduleIndex maps a truncated date to the Day row covering it and a
// mutable count of tasks already scheduled there, used to pick the
// least-loaded dates for reinforcement insertion.
type scheduleIndex struct {
	dayIDByDate map[time.Time]uuid.UUID
	countByDate map[time.Time]int
	dates       []time.Time
}

func (a *adapter) buildScheduleIndex(ctx context.Context, tx *gorm.DB, plan *domain.StudyPlan) (*scheduleIndex, []domain.Task, error) {
	weeks, err := a.weeks.ListByPlan(ctx, tx, plan.ID)
	if err != nil {
		return nil, nil, err
	}
	idx := &scheduleIndex{dayIDByDate: map[time.Time]uuid.UUID{}, countByDate: map[time.Time]int{}}
	for _, w := range weeks {
		days, err := a.days.ListByWeek(ctx, tx, w.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, d := range days {
			date := d.Date.Truncate(24 * time.Hour)
			idx.dayIDByDate[date] = d.ID
			idx.dates = append(idx.dates, date)
		}
	}
	sort.Slice(idx.dates, func(i, j int) bool { return idx.dates[i].Before(idx.dates[j]) })

	tasks, err := a.tasks.ListByPlan(ctx, tx, plan.ID)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range tasks {
		date := t.Date.Truncate(24 * time.Hour)
		idx.countByDate[date]++
	}
	return idx, tasks, nil
}

// pickDates returns up to n upcoming dates (on/after today) with the fewest
// existing tasks, enforcing minSpacingDays between any two chosen dates.
func (idx *scheduleIndex) pickDates(today time.Time, n, minSpacingDays int) []time.Time {
	var candidates []time.Time
	for _, d := range idx.dates {
		if !d.Before(today) {
			candidates = append(candidates, d)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if idx.countByDate[ci] != idx.countByDate[cj] {
			return idx.countByDate[ci] < idx.countByDate[cj]
		}
		return ci.Before(cj)
	})

	var chosen []time.Time
	for _, d := range candidates {
		if len(chosen) >= n {
			break
		}
		spaced := true
		for _, c := range chosen {
			diff := d.Sub(c).Hours() / 24
			if diff < 0 {
				diff = -diff
			}
			if int(diff) < minSpacingDays {
				spaced = false
				break
			}
		}
		if spaced {
			chosen = append(chosen, d)
		}
	}
	return chosen
}

func (idx *scheduleIndex) reserve(date time.Time) {
	idx.countByDate[date]++
}

func (a *adapter) apply(ctx context.Context, tx *gorm.DB, plan *domain.StudyPlan, userID uuid.UUID, analysis Analysis) ([]domain.PlanDiffChange, error) {
	idx, tasks, err := a.buildScheduleIndex(ctx, tx, plan)
	if err != nil {
		return nil, fmt.Errorf("adaptive: build schedule index: %w", err)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var changes []domain.PlanDiffChange
	var newTasks []domain.Task

	for _, weak := range analysis.WeakSkills {
		dates := idx.pickDates(today, a.opts.ReinforcementCount, a.opts.ReinforcementSpacingDays)
		if len(dates) == 0 {
			continue
		}
		placed := 0
		for _, date := range dates {
			dayID, ok := idx.dayIDByDate[date]
			if !ok {
				continue
			}
			now := time.Now().UTC()
			task := domain.Task{
				ID:               uuid.New(),
				PlanID:           plan.ID,
				DayID:            dayID,
				UserID:           userID,
				Date:             date,
				Type:             domain.TaskTypePractice,
				Title:            fmt.Sprintf("Reinforce %s", weak.SkillName),
				Description:      fmt.Sprintf("Additional practice inserted because %s is a weak skill (%s).", weak.SkillName, weak.Reason),
				SkillRefs:        datatypes.JSONSlice[uuid.UUID]{weak.SkillID},
				EstimatedMinutes: a.opts.ReinforcementMinutes,
				Status:           domain.TaskStatusPending,
				Content: datatypes.NewJSONType(domain.TaskContent{
					AdaptiveNote: fmt.Sprintf("Inserted by adaptive replanning: %s", weak.Reason),
				}),
				CreatedAt: now,
				UpdatedAt: now,
			}
			newTasks = append(newTasks, task)
			idx.reserve(date)
			placed++
		}
		if placed > 0 {
			changes = append(changes, domain.PlanDiffChange{
				Action: "add", Type: "task", Skill: weak.SkillName, Count: placed,
				Reason: fmt.Sprintf("weak skill: %s", weak.Reason),
			})
		}
	}

	if len(newTasks) > 0 {
		if err := a.tasks.CreateBatch(ctx, tx, newTasks); err != nil {
			return nil, fmt.Errorf("adaptive: insert reinforcement tasks: %w", err)
		}
	}

	for _, strong := range analysis.StrongSkills {
		var upcoming []domain.Task
		for _, t := range tasks {
			if t.Date.Before(today) || !containsSkill(t.SkillRefs, strong.SkillID) {
				continue
			}
			upcoming = append(upcoming, t)
		}
		if len(upcoming) <= a.opts.RedundantTaskKeepCount {
			continue
		}
		sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
		marked := 0
		for _, t := range upcoming[a.opts.RedundantTaskKeepCount:] {
			t.Optional = true
			if err := a.tasks.Update(ctx, tx, &t); err != nil {
				return nil, fmt.Errorf("adaptive: mark task optional: %w", err)
			}
			marked++
		}
		if marked > 0 {
			changes = append(changes, domain.PlanDiffChange{
				Action: "mark_optional", Type: "task", Skill: strong.SkillName, Count: marked,
				Reason: "strong skill: redundant upcoming tasks reduced",
			})
		}
	}

	if len(changes) == 0 {
		return changes, nil
	}

	plan.DiffLog = append(plan.DiffLog, domain.PlanDiffEntry{
		Timestamp: time.Now().UTC().Unix(),
		Changes:   changes,
	})
	if err := a.plans.Update(ctx, tx, plan); err != nil {
		return nil, fmt.Errorf("adaptive: append diff log: %w", err)
	}
	return changes, nil
}

func containsSkill(refs []uuid.UUID, skillID uuid.UUID) bool {
	for _, r := range refs {
		if r == skillID {
			return true
		}
	}
	return false
}
