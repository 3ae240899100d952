// Package app loads configuration and wires the database, LLM client, and
// every component into an Orchestrator ready for a cmd entrypoint to drive.
package app

import (
	"github.com/interviewcoach/coach/internal/platform/envutil"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

// Config holds every environment-tunable knob this module recognizes.
// Unset values fall back to the defaults baked into each component.
type Config struct {
	LogMode string

	LLMProvider           string
	LLMAPIKey             string
	LLMModel              string
	LLMBaseURL            string
	LLMDefaultTemperature float64
	LLMTimeoutSeconds     int

	PlannerWeekMinuteTolerance float64

	AdaptiveWeakThreshold      float64
	AdaptiveStrongThreshold    float64
	AdaptiveReinforcementCount int
	AdaptiveMinSpacingDays     int

	CoachDefaultStartHour int

	PracticeMaxParallelGenerations int

	// RedisAddr enables the briefing cache when set; left empty, every
	// GetBriefing call recomputes from the database.
	RedisAddr string

	// SchedulerCron controls how often cmd/coachd runs the overdue-task
	// sweep and calendar re-projection, in standard 5-field cron syntax.
	SchedulerCron string
}

// LoadConfig reads every recognized environment variable, falling back to
// the documented default whenever a variable is unset or unparsable.
func LoadConfig(log *logger.Logger) Config {
	return Config{
		LogMode: envutil.String("LOG_MODE", "development"),

		LLMProvider:           envutil.String("LLM_PROVIDER", "anthropic"),
		LLMAPIKey:             envutil.String("LLM_API_KEY", ""),
		LLMModel:              envutil.String("LLM_MODEL", ""),
		LLMBaseURL:            envutil.String("LLM_BASE_URL", ""),
		LLMDefaultTemperature: envutil.Float("LLM_DEFAULT_TEMPERATURE", 0.3),
		LLMTimeoutSeconds:     envutil.Int("LLM_TIMEOUT_SECONDS", 30),

		PlannerWeekMinuteTolerance: envutil.Float("PLANNER_WEEK_MINUTE_TOLERANCE", 0.10),

		AdaptiveWeakThreshold:      envutil.Float("ADAPTIVE_WEAK_THRESHOLD", 0.5),
		AdaptiveStrongThreshold:    envutil.Float("ADAPTIVE_STRONG_THRESHOLD", 0.8),
		AdaptiveReinforcementCount: envutil.Int("ADAPTIVE_REINFORCEMENT_COUNT", 2),
		AdaptiveMinSpacingDays:     envutil.Int("ADAPTIVE_MIN_SPACING_DAYS", 2),

		CoachDefaultStartHour: envutil.Int("COACH_DEFAULT_START_HOUR", 9),

		PracticeMaxParallelGenerations: envutil.Int("PRACTICE_MAX_PARALLEL_GENERATIONS", 4),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		SchedulerCron: envutil.String("SCHEDULER_CRON", "*/15 * * * *"),
	}
}
