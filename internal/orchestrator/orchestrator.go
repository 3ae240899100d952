// Package orchestrator sequences the component pipeline behind every
// operation an outer surface (CLI, RPC) can drive: uploading documents,
// extracting skills, analyzing gaps, synthesizing and adapting plans,
// generating and grading practice, and projecting the result to a calendar.
// It is the only package that opens transactions across more than one repo
// call and the only one that translates component errors into apierr.Kind.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/adaptive"
	"github.com/interviewcoach/coach/internal/calendarproj"
	"github.com/interviewcoach/coach/internal/coach"
	"github.com/interviewcoach/coach/internal/data/repos"
	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/evaluator"
	"github.com/interviewcoach/coach/internal/gapanalyzer"
	"github.com/interviewcoach/coach/internal/mastery"
	"github.com/interviewcoach/coach/internal/planner"
	"github.com/interviewcoach/coach/internal/platform/apierr"
	"github.com/interviewcoach/coach/internal/platform/cache"
	"github.com/interviewcoach/coach/internal/platform/ctxutil"
	"github.com/interviewcoach/coach/internal/platform/keyedlock"
	"github.com/interviewcoach/coach/internal/platform/logger"
	"github.com/interviewcoach/coach/internal/practicegen"
	"github.com/interviewcoach/coach/internal/skillextractor"
)

// Orchestrator is the single entry point every outer surface calls into.
// Its methods are the operation table: one method per named operation.
type Orchestrator struct {
	db *gorm.DB

	users        repos.UserRepo
	documents    repos.DocumentRepo
	gaps         repos.GapRepo
	plans        repos.StudyPlanRepo
	weeks        repos.WeekRepo
	days         repos.DayRepo
	tasks        repos.TaskRepo
	items        repos.PracticeItemRepo
	rubrics      repos.RubricRepo
	attempts     repos.AttemptRepo
	evaluations  repos.EvaluationRepo
	masteryRepo  repos.MasteryRepo
	events       repos.CalendarEventRepo

	extractor   skillextractor.Extractor
	gapAnalyzer gapanalyzer.Analyzer
	planSynth   planner.Planner
	practiceGen practicegen.Generator
	grader      evaluator.Evaluator
	masteryTrk  mastery.Tracker
	adapter     adaptive.Adapter
	dailyCoach  coach.Coach
	calendar    calendarproj.Projector

	// briefingCache is optional: a nil cache just means every briefing is
	// recomputed, so the zero Deps value still works without Redis.
	briefingCache cache.Cache

	// planLocks serializes plan synthesis and adaptive apply per user: a
	// user has at most one active plan, so a per-user key is equivalent to
	// a per-plan lock for synthesis (which has no plan id yet to key on)
	// and still excludes concurrent applies against that same plan.
	planLocks *keyedlock.Map

	log *logger.Logger
}

// briefingCacheTTL bounds how stale a cached briefing may be before a
// fresh read recomputes it from the database.
const briefingCacheTTL = 60 * time.Second

// Deps bundles every repo and component the Orchestrator drives. Building
// it is the App layer's job; the Orchestrator itself never opens a
// database connection or constructs a component.
type Deps struct {
	DB *gorm.DB

	Users       repos.UserRepo
	Documents   repos.DocumentRepo
	Gaps        repos.GapRepo
	Plans       repos.StudyPlanRepo
	Weeks       repos.WeekRepo
	Days        repos.DayRepo
	Tasks       repos.TaskRepo
	Items       repos.PracticeItemRepo
	Rubrics     repos.RubricRepo
	Attempts    repos.AttemptRepo
	Evaluations repos.EvaluationRepo
	Mastery     repos.MasteryRepo
	Events      repos.CalendarEventRepo

	Extractor   skillextractor.Extractor
	GapAnalyzer gapanalyzer.Analyzer
	Planner     planner.Planner
	PracticeGen practicegen.Generator
	Evaluator   evaluator.Evaluator
	MasteryTrk  mastery.Tracker
	Adapter     adaptive.Adapter
	Coach       coach.Coach
	Calendar    calendarproj.Projector

	// BriefingCache is optional; leave nil to always recompute briefings.
	BriefingCache cache.Cache

	Log *logger.Logger
}

func New(d Deps) *Orchestrator {
	return &Orchestrator{
		db:          d.DB,
		users:       d.Users,
		documents:   d.Documents,
		gaps:        d.Gaps,
		plans:       d.Plans,
		weeks:       d.Weeks,
		days:        d.Days,
		tasks:       d.Tasks,
		items:       d.Items,
		rubrics:     d.Rubrics,
		attempts:    d.Attempts,
		evaluations: d.Evaluations,
		masteryRepo: d.Mastery,
		events:      d.Events,
		extractor:   d.Extractor,
		gapAnalyzer: d.GapAnalyzer,
		planSynth:   d.Planner,
		practiceGen: d.PracticeGen,
		grader:      d.Evaluator,
		masteryTrk:  d.MasteryTrk,
		adapter:     d.Adapter,
		dailyCoach:  d.Coach,
		calendar:    d.Calendar,
		briefingCache: d.BriefingCache,
		planLocks:     keyedlock.New(),
		log:           d.Log.With("component", "orchestrator"),
	}
}

// UploadDocument persists a resume or job description. Parsing raw bytes
// into sections and chunks is an external concern (parse(bytes) ->
// {sections, chunks}); the orchestrator only stores the parsed shape and
// the raw text the Skill Extractor reads verbatim substrings from.
func (o *Orchestrator) UploadDocument(ctx context.Context, userID uuid.UUID, kind domain.DocumentKind, rawText string, sections []domain.DocumentSection, chunks []domain.DocumentChunk) (*domain.Document, error) {
	if rawText == "" && len(sections) == 0 {
		return nil, apierr.InvalidInput("document has no text content")
	}
	user, err := o.users.Get(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	if user == nil {
		return nil, apierr.NotFound("user")
	}
	doc := &domain.Document{
		ID:             uuid.New(),
		UserID:         userID,
		Kind:           kind,
		RawText:        rawText,
		ParsedSections: sections,
		Chunks:         chunks,
	}
	if err := o.documents.Create(ctx, nil, doc); err != nil {
		return nil, apierr.StorageConflict(fmt.Errorf("orchestrator: create document: %w", err))
	}
	return doc, nil
}

// ExtractSkills runs the Skill Extractor over a previously uploaded
// document and persists the resulting evidence rows.
func (o *Orchestrator) ExtractSkills(ctx context.Context, documentID uuid.UUID) ([]domain.SkillEvidence, error) {
	doc, err := o.documents.Get(ctx, nil, documentID)
	if err != nil {
		return nil, apierr.StorageConflict(fmt.Errorf("orchestrator: load document: %w", err))
	}
	if doc == nil {
		return nil, apierr.NotFound("document")
	}
	evidence, err := o.extractor.Extract(ctx, nil, doc)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apierr.Cancelled()
		}
		return nil, apierr.LLMUnavailable(err)
	}
	return evidence, nil
}

// AnalyzeGaps compares resume and job-description skill evidence and
// replaces the user's gap set atomically.
func (o *Orchestrator) AnalyzeGaps(ctx context.Context, userID, resumeDocID, jdDocID uuid.UUID) (*gapanalyzer.Report, error) {
	resume, err := o.documents.Get(ctx, nil, resumeDocID)
	if err != nil {
		return nil, apierr.StorageConflict(fmt.Errorf("orchestrator: load resume: %w", err))
	}
	if resume == nil {
		return nil, apierr.NotFound("resume document")
	}
	jd, err := o.documents.Get(ctx, nil, jdDocID)
	if err != nil {
		return nil, apierr.StorageConflict(fmt.Errorf("orchestrator: load job description: %w", err))
	}
	if jd == nil {
		return nil, apierr.NotFound("job description document")
	}

	var report *gapanalyzer.Report
	err = o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		report, txErr = o.gapAnalyzer.Analyze(ctx, tx, userID, resumeDocID, jdDocID)
		return txErr
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, apierr.Cancelled()
		}
		return nil, apierr.LLMUnavailable(err)
	}
	return report, nil
}

// GeneratePlan retires the user's current active plan (if any) and
// synthesizes a fresh one from their current gap set, persisting the
// plan, its weeks, days, and tasks inside a single transaction.
func (o *Orchestrator) GeneratePlan(ctx context.Context, userID uuid.UUID, constraints planner.Constraints) (*planner.Result, error) {
	if constraints.Weeks < 1 || constraints.HoursPerWeek <= 0 {
		return nil, apierr.InvalidInput("weeks and hours_per_week must be positive")
	}

	gapList, err := o.gaps.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StorageConflict(fmt.Errorf("orchestrator: load gaps: %w", err))
	}
	if len(gapList) == 0 {
		return nil, apierr.New(apierr.KindInvalidInput, "no gaps on record for this user; run analyze_gaps first", nil)
	}

	// Excludes this synthesis from a concurrent adaptive apply against the
	// plan it is about to replace.
	unlock := o.planLocks.Lock(userID.String())
	defer unlock()

	var result *planner.Result
	err = o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, synthErr := o.planSynth.Synthesize(ctx, tx, userID, gapList, constraints)
		if synthErr != nil {
			return synthErr
		}
		if err := o.plans.Deactivate(ctx, tx, userID); err != nil {
			return fmt.Errorf("deactivate prior plans: %w", err)
		}
		if err := o.plans.Create(ctx, tx, &res.Plan); err != nil {
			return fmt.Errorf("create plan: %w", err)
		}
		if len(res.Weeks) > 0 {
			if err := o.weeks.CreateBatch(ctx, tx, res.Weeks); err != nil {
				return fmt.Errorf("create weeks: %w", err)
			}
		}
		if len(res.Days) > 0 {
			if err := o.days.CreateBatch(ctx, tx, res.Days); err != nil {
				return fmt.Errorf("create days: %w", err)
			}
		}
		if len(res.Tasks) > 0 {
			if err := o.tasks.CreateBatch(ctx, tx, res.Tasks); err != nil {
				return fmt.Errorf("create tasks: %w", err)
			}
		}
		result = res
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, apierr.Cancelled()
		}
		return nil, apierr.New(apierr.KindInvalidInput, "plan synthesis failed", err)
	}
	return result, nil
}

// GetBriefing assembles the day's task summary and motivational message.
// A hit against briefingCache skips recomputation (and the LLM call
// motivationalMessage makes); a miss populates it for the next caller.
func (o *Orchestrator) GetBriefing(ctx context.Context, userID uuid.UUID, date time.Time) (*coach.Briefing, error) {
	key := cache.BriefingKey(userID.String(), date.Format("2006-01-02"))
	if o.briefingCache != nil {
		var cached coach.Briefing
		if hit, err := o.briefingCache.GetJSON(ctx, key, &cached); err != nil {
			o.log.Warn("briefing cache read failed", "user_id", userID, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	b, err := o.dailyCoach.Briefing(ctx, nil, userID, date)
	if err != nil {
		return nil, apierr.NotFound("user's active plan or tasks")
	}

	if o.briefingCache != nil {
		if err := o.briefingCache.SetJSON(ctx, key, b, briefingCacheTTL); err != nil {
			o.log.Warn("briefing cache write failed", "user_id", userID, "error", err)
		}
	}
	return b, nil
}

// invalidateBriefing drops any cached briefing for userID on each given
// date, so the next GetBriefing reflects a task mutation immediately
// instead of waiting out briefingCacheTTL.
func (o *Orchestrator) invalidateBriefing(ctx context.Context, userID uuid.UUID, dates ...time.Time) {
	if o.briefingCache == nil {
		return
	}
	keys := lo.Map(dates, func(d time.Time, _ int) string {
		return cache.BriefingKey(userID.String(), d.Format("2006-01-02"))
	})
	if err := o.briefingCache.Delete(ctx, keys...); err != nil {
		o.log.Warn("briefing cache invalidation failed", "user_id", userID, "error", err)
	}
}

// UpdateTask applies a status transition and/or actual-minutes update.
func (o *Orchestrator) UpdateTask(ctx context.Context, taskID uuid.UUID, status *domain.TaskStatus, actualMinutes *int) (*domain.Task, error) {
	if status != nil && *status == domain.TaskStatusCompleted {
		task, err := o.dailyCoach.Complete(ctx, nil, taskID, actualMinutes)
		if err != nil {
			return nil, translateTaskErr(err)
		}
		o.invalidateBriefing(ctx, task.UserID, task.Date)
		return task, nil
	}
	if status != nil {
		task, err := o.dailyCoach.UpdateStatus(ctx, nil, taskID, *status)
		if err != nil {
			return nil, translateTaskErr(err)
		}
		o.invalidateBriefing(ctx, task.UserID, task.Date)
		return task, nil
	}
	task, err := o.tasks.Get(ctx, nil, taskID)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	if task == nil {
		return nil, apierr.NotFound("task")
	}
	if actualMinutes != nil {
		task.ActualMinutes = actualMinutes
		task.UpdatedAt = time.Now().UTC()
		if err := o.tasks.Update(ctx, nil, task); err != nil {
			return nil, apierr.StorageConflict(err)
		}
		o.invalidateBriefing(ctx, task.UserID, task.Date)
	}
	return task, nil
}

func translateTaskErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "not found") {
		return apierr.NotFound("task")
	}
	return apierr.InvalidTransition(msg)
}

// RescheduleTask moves a task to a new date within the plan's window.
func (o *Orchestrator) RescheduleTask(ctx context.Context, taskID uuid.UUID, newDate time.Time, reason string) (*domain.Task, error) {
	var oldDate time.Time
	if prior, err := o.tasks.Get(ctx, nil, taskID); err == nil && prior != nil {
		oldDate = prior.Date
	}
	task, err := o.dailyCoach.Reschedule(ctx, nil, taskID, newDate, reason)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, apierr.NotFound("task")
		}
		return nil, apierr.New(apierr.KindInvalidInput, "requested date is outside the plan window", err)
	}
	o.invalidateBriefing(ctx, task.UserID, oldDate, task.Date)
	return task, nil
}

// CarryOver moves a user's pending/in-progress tasks from one date to
// another, used for the "I didn't get to today" flow.
func (o *Orchestrator) CarryOver(ctx context.Context, userID uuid.UUID, fromDate, toDate time.Time) ([]uuid.UUID, error) {
	moved, err := o.dailyCoach.CarryOver(ctx, nil, userID, fromDate, toDate)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	o.invalidateBriefing(ctx, userID, fromDate, toDate)
	return moved, nil
}

// AutoRescheduleOverdue spreads a user's overdue tasks across the next few
// days by current load, reporting what could and could not be placed.
func (o *Orchestrator) AutoRescheduleOverdue(ctx context.Context, userID uuid.UUID) (moved []uuid.UUID, remaining []uuid.UUID, err error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	before, err := o.tasks.ListOverdue(ctx, nil, userID, today)
	if err != nil {
		return nil, nil, apierr.StorageConflict(err)
	}
	moved, err = o.dailyCoach.AutoRescheduleOverdue(ctx, nil, userID)
	if err != nil {
		return nil, nil, apierr.StorageConflict(err)
	}
	beforeIDs := lo.Map(before, func(t domain.Task, _ int) uuid.UUID { return t.ID })
	remaining = lo.Without(beforeIDs, moved...)
	staleDates := lo.Map(before, func(t domain.Task, _ int) time.Time { return t.Date })
	// Moved tasks land on today through today+2.
	o.invalidateBriefing(ctx, userID, append(staleDates, today, today.AddDate(0, 0, 1), today.AddDate(0, 0, 2))...)
	return moved, remaining, nil
}

// GeneratePractice creates fresh practice items for a task.
func (o *Orchestrator) GeneratePractice(ctx context.Context, taskID uuid.UUID, itemType domain.PracticeType, count int) ([]domain.PracticeItem, error) {
	task, err := o.tasks.Get(ctx, nil, taskID)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	if task == nil {
		return nil, apierr.NotFound("task")
	}
	items, err := o.practiceGen.Generate(ctx, nil, task, itemType, count)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apierr.Cancelled()
		}
		return nil, apierr.LLMUnavailable(err)
	}
	return items, nil
}

// AttemptResult bundles the persisted Attempt with its Evaluation, which
// may be a fallback if grading itself failed.
type AttemptResult struct {
	Attempt    *domain.Attempt
	Evaluation *domain.Evaluation
}

// SubmitAttempt runs the full grading pipeline: persist the Attempt, grade
// it, update mastery, and optionally trigger adaptive analysis. Only
// Attempt persistence can fail the call; every later stage is logged and
// swallowed so a grading or mastery hiccup never loses a learner's answer.
func (o *Orchestrator) SubmitAttempt(ctx context.Context, userID, practiceItemID uuid.UUID, taskID *uuid.UUID, answer string, timeSpentSec *int) (*AttemptResult, error) {
	log := o.log
	if reqID := ctxutil.RequestID(ctx); reqID != "" {
		log = log.With("request_id", reqID)
	}

	item, err := o.items.Get(ctx, nil, practiceItemID)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	if item == nil {
		return nil, apierr.NotFound("practice item")
	}

	attempt := &domain.Attempt{
		ID:             uuid.New(),
		UserID:         userID,
		PracticeItemID: practiceItemID,
		TaskID:         taskID,
		Answer:         answer,
		TimeSpentSec:   timeSpentSec,
		SubmittedAt:    time.Now().UTC(),
	}
	if err := o.attempts.Create(ctx, nil, attempt); err != nil {
		return nil, apierr.StorageConflict(fmt.Errorf("orchestrator: persist attempt: %w", err))
	}

	result := &AttemptResult{Attempt: attempt}

	rubric, err := o.rubrics.Get(ctx, nil, item.RubricID)
	if err != nil || rubric == nil {
		log.Error("could not load rubric for grading, skipping evaluation", "error", err, "practice_item_id", practiceItemID)
		return result, nil
	}

	eval, err := o.grader.Evaluate(ctx, nil, attempt, item, rubric)
	if err != nil {
		log.Error("evaluation failed after attempt persistence", "error", err, "attempt_id", attempt.ID)
		return result, nil
	}
	result.Evaluation = eval

	attempt.Score = &eval.OverallScore
	attempt.Feedback = eval.Feedback
	if err := o.attempts.Update(ctx, nil, attempt); err != nil {
		log.Error("could not backfill attempt score", "error", err, "attempt_id", attempt.ID)
	}

	if len(item.SkillRefs) > 0 {
		if err := o.masteryTrk.Update(ctx, nil, userID, item.SkillRefs, eval.OverallScore); err != nil {
			log.Error("mastery update failed after evaluation", "error", err, "attempt_id", attempt.ID)
		}
	}

	if _, err := o.adapter.Adapt(ctx, nil, userID, false); err != nil {
		log.Error("adaptive analysis trigger failed after mastery update", "error", err, "user_id", userID)
	}

	return result, nil
}

// MasteryLevelCounts buckets a user's mastery scores at the Adaptive
// Planner's default weak (< 0.5) and strong (>= 0.8) thresholds, for a
// stable, glanceable summary.
type MasteryLevelCounts struct {
	Weak       int
	Proficient int
	Strong     int
}

// MasteryStats is the aggregated view get_mastery_stats returns.
type MasteryStats struct {
	TotalSkills int
	Average     float64
	ByLevel     MasteryLevelCounts
	Trends      map[domain.Trend]int
	RecentCount int
}

const recentPracticeWindow = 7 * 24 * time.Hour

// GetMasteryStats aggregates a user's mastery rows into level buckets,
// trend counts, and a recent-activity count.
func (o *Orchestrator) GetMasteryStats(ctx context.Context, userID uuid.UUID) (*MasteryStats, error) {
	rows, err := o.masteryRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	stats := &MasteryStats{
		TotalSkills: len(rows),
		Trends:      map[domain.Trend]int{domain.TrendImproving: 0, domain.TrendStable: 0, domain.TrendDeclining: 0},
	}
	if len(rows) == 0 {
		return stats, nil
	}

	now := time.Now().UTC()
	var sum float64
	for _, m := range rows {
		sum += m.Score
		switch {
		case m.Score < 0.5:
			stats.ByLevel.Weak++
		case m.Score < 0.8:
			stats.ByLevel.Proficient++
		default:
			stats.ByLevel.Strong++
		}
		stats.Trends[m.Trend]++
		if now.Sub(m.LastPracticed) <= recentPracticeWindow {
			stats.RecentCount++
		}
	}
	stats.Average = sum / float64(len(rows))
	return stats, nil
}

// AnalyzeAdaptation runs the Adaptive Planner in dry-run mode: it reports
// weak/strong skills and recommendations without mutating the plan.
func (o *Orchestrator) AnalyzeAdaptation(ctx context.Context, userID, planID uuid.UUID) (*adaptive.Analysis, error) {
	plan, err := o.plans.Get(ctx, nil, planID)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	if plan == nil || plan.UserID != userID {
		return nil, apierr.NotFound("study plan")
	}
	result, err := o.adapter.Adapt(ctx, nil, userID, false)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	return &result.Analysis, nil
}

// ApplyAdaptation runs the Adaptive Planner for real: reinforcement tasks
// are inserted, redundant repetition is trimmed, and the diff is appended
// to the plan's log, all inside a single transaction.
func (o *Orchestrator) ApplyAdaptation(ctx context.Context, userID, planID uuid.UUID) (*adaptive.Result, error) {
	plan, err := o.plans.Get(ctx, nil, planID)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	if plan == nil || plan.UserID != userID {
		return nil, apierr.NotFound("study plan")
	}

	// Excludes this apply from plan synthesis and from any other apply
	// running concurrently for the same user's plan.
	unlock := o.planLocks.Lock(userID.String())
	defer unlock()

	var result *adaptive.Result
	err = o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var adaptErr error
		result, adaptErr = o.adapter.Adapt(ctx, tx, userID, true)
		return adaptErr
	})
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	return result, nil
}

// ProjectCalendar renders a plan's tasks as calendar events, upserting on
// stable sync UIDs and deleting anything superseded by a re-projection.
func (o *Orchestrator) ProjectCalendar(ctx context.Context, planID uuid.UUID) ([]domain.CalendarEvent, error) {
	plan, err := o.plans.Get(ctx, nil, planID)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	if plan == nil {
		return nil, apierr.NotFound("study plan")
	}
	tasks, err := o.tasks.ListByPlan(ctx, nil, planID)
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}

	var events []domain.CalendarEvent
	err = o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var projErr error
		events, projErr = o.calendar.Project(ctx, tx, plan, tasks)
		return projErr
	})
	if err != nil {
		return nil, apierr.StorageConflict(err)
	}
	return events, nil
}

// DailySweep runs the maintenance pass a scheduler drives for each user on
// every scheduled run: push overdue tasks onto the next few days, then re-project the
// active plan's calendar so external calendars see the new dates. A user
// with no active plan is a no-op, not an error.
func (o *Orchestrator) DailySweep(ctx context.Context, userID uuid.UUID) (moved []uuid.UUID, err error) {
	moved, _, err = o.AutoRescheduleOverdue(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := o.plans.GetActiveForUser(ctx, nil, userID)
	if err != nil {
		return moved, apierr.StorageConflict(err)
	}
	if plan == nil {
		return moved, nil
	}
	if _, err := o.ProjectCalendar(ctx, plan.ID); err != nil {
		return moved, err
	}
	return moved, nil
}

// DailySweepAll runs DailySweep for every user, used by a scheduled job.
// One user's failure is logged and skipped rather than aborting the rest.
func (o *Orchestrator) DailySweepAll(ctx context.Context) (int, error) {
	users, err := o.users.ListAll(ctx, nil)
	if err != nil {
		return 0, apierr.StorageConflict(err)
	}
	swept := 0
	for _, u := range users {
		if _, err := o.DailySweep(ctx, u.ID); err != nil {
			o.log.Error("daily sweep failed for user", "user_id", u.ID, "error", err)
			continue
		}
		swept++
	}
	return swept, nil
}
