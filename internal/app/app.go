package app

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/adaptive"
	"github.com/interviewcoach/coach/internal/calendarproj"
	"github.com/interviewcoach/coach/internal/coach"
	"github.com/interviewcoach/coach/internal/data/db"
	"github.com/interviewcoach/coach/internal/data/repos"
	"github.com/interviewcoach/coach/internal/evaluator"
	"github.com/interviewcoach/coach/internal/gapanalyzer"
	"github.com/interviewcoach/coach/internal/mastery"
	"github.com/interviewcoach/coach/internal/orchestrator"
	"github.com/interviewcoach/coach/internal/planner"
	"github.com/interviewcoach/coach/internal/platform/cache"
	"github.com/interviewcoach/coach/internal/platform/llm"
	"github.com/interviewcoach/coach/internal/platform/logger"
	"github.com/interviewcoach/coach/internal/practicegen"
	"github.com/interviewcoach/coach/internal/skillextractor"
)

// App bundles everything a cmd entrypoint needs: the resolved config, the
// database handle (for migrations), and the Orchestrator every operation
// is driven through.
type App struct {
	Config       Config
	Postgres     *db.PostgresService
	Orchestrator *orchestrator.Orchestrator
	Cache        cache.Cache
	Log          *logger.Logger
}

// Close releases the briefing cache connection and flushes the logger. Safe
// to call on a nil App or a nil Cache.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// New reads configuration, opens the database, builds the LLM client, and
// wires every repo and component into an Orchestrator.
func New() (*App, error) {
	log, err := logger.New("")
	if err != nil {
		return nil, fmt.Errorf("app: init logger: %w", err)
	}

	cfg := LoadConfig(log)
	if cfg.LogMode != "" {
		if l, err := logger.New(cfg.LogMode); err == nil {
			log = l
		}
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		return nil, fmt.Errorf("app: connect database: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		return nil, fmt.Errorf("app: migrate database: %w", err)
	}

	client, err := newLLMClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("app: build llm client: %w", err)
	}

	gdb := pg.DB()
	repoSet := buildRepos(gdb, log)
	orch, briefingCache := buildOrchestrator(gdb, repoSet, client, cfg, log)

	return &App{Config: cfg, Postgres: pg, Orchestrator: orch, Cache: briefingCache, Log: log}, nil
}

func newLLMClient(cfg Config, log *logger.Logger) (llm.Client, error) {
	var (
		client llm.Client
		err    error
	)
	switch cfg.LLMProvider {
	case "langchain", "openai":
		client, err = llm.NewLangchainClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL, log)
	default:
		client, err = llm.NewAnthropicClient(cfg.LLMAPIKey, cfg.LLMModel, log)
	}
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	return llm.WithResilience(cfg.LLMProvider, client, timeout, log), nil
}

// repoSet is the concrete repository bundle every component is built from.
type repoSet struct {
	users       repos.UserRepo
	documents   repos.DocumentRepo
	skills      repos.SkillRepo
	evidence    repos.SkillEvidenceRepo
	gaps        repos.GapRepo
	plans       repos.StudyPlanRepo
	weeks       repos.WeekRepo
	days        repos.DayRepo
	tasks       repos.TaskRepo
	items       repos.PracticeItemRepo
	rubrics     repos.RubricRepo
	attempts    repos.AttemptRepo
	evaluations repos.EvaluationRepo
	masteryRepo repos.MasteryRepo
	events      repos.CalendarEventRepo
}

func buildRepos(gdb *gorm.DB, log *logger.Logger) repoSet {
	return repoSet{
		users:       repos.NewUserRepo(gdb, log),
		documents:   repos.NewDocumentRepo(gdb, log),
		skills:      repos.NewSkillRepo(gdb, log),
		evidence:    repos.NewSkillEvidenceRepo(gdb, log),
		gaps:        repos.NewGapRepo(gdb, log),
		plans:       repos.NewStudyPlanRepo(gdb, log),
		weeks:       repos.NewWeekRepo(gdb, log),
		days:        repos.NewDayRepo(gdb, log),
		tasks:       repos.NewTaskRepo(gdb, log),
		items:       repos.NewPracticeItemRepo(gdb, log),
		rubrics:     repos.NewRubricRepo(gdb, log),
		attempts:    repos.NewAttemptRepo(gdb, log),
		evaluations: repos.NewEvaluationRepo(gdb, log),
		masteryRepo: repos.NewMasteryRepo(gdb, log),
		events:      repos.NewCalendarEventRepo(gdb, log),
	}
}

func buildOrchestrator(gdb *gorm.DB, rs repoSet, client llm.Client, cfg Config, log *logger.Logger) (*orchestrator.Orchestrator, cache.Cache) {
	adaptiveOpts := adaptive.Options{
		WeakMasteryThreshold:     cfg.AdaptiveWeakThreshold,
		StrongMasteryThreshold:   cfg.AdaptiveStrongThreshold,
		ReinforcementCount:       cfg.AdaptiveReinforcementCount,
		ReinforcementSpacingDays: cfg.AdaptiveMinSpacingDays,
	}

	var briefingCache cache.Cache
	if cfg.RedisAddr != "" {
		c, err := cache.NewRedisCache(cfg.RedisAddr, log)
		if err != nil {
			log.Warn("briefing cache disabled: could not connect to redis", "error", err)
		} else {
			briefingCache = c
		}
	}

	orch := orchestrator.New(orchestrator.Deps{
		DB:          gdb,
		Users:       rs.users,
		Documents:   rs.documents,
		Gaps:        rs.gaps,
		Plans:       rs.plans,
		Weeks:       rs.weeks,
		Days:        rs.days,
		Tasks:       rs.tasks,
		Items:       rs.items,
		Rubrics:     rs.rubrics,
		Attempts:    rs.attempts,
		Evaluations: rs.evaluations,
		Mastery:     rs.masteryRepo,
		Events:      rs.events,

		Extractor:   skillextractor.New(client, rs.skills, rs.evidence, log),
		GapAnalyzer: gapanalyzer.New(rs.evidence, rs.skills, rs.gaps, log),
		Planner:     planner.New(client, rs.skills, cfg.PlannerWeekMinuteTolerance, log),
		PracticeGen: practicegen.New(client, rs.masteryRepo, rs.rubrics, rs.skills, rs.items, cfg.PracticeMaxParallelGenerations, log),
		Evaluator:   evaluator.New(client, rs.attempts, rs.evaluations, log),
		MasteryTrk:  mastery.New(rs.evaluations, rs.masteryRepo, log),
		Adapter:     adaptive.New(rs.plans, rs.weeks, rs.days, rs.tasks, rs.masteryRepo, rs.skills, adaptiveOpts, log),
		Coach:       coach.New(rs.tasks, rs.plans, client, log),
		Calendar:    calendarproj.New(rs.events, cfg.CoachDefaultStartHour, log),

		BriefingCache: briefingCache,

		Log: log,
	})
	return orch, briefingCache
}
