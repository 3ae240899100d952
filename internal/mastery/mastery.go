// Package mastery recomputes a user's per-skill Mastery score after every
// Evaluation, blending a recency-weighted mean of recent attempts with an
// older-attempt baseline and deriving an improving/stable/declining trend.
package mastery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/data/repos"
	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/keyedlock"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

const (
	historyWindow  = 10
	recentWindow   = 5
	recentWeight   = 0.7
	olderWeight    = 0.3
	trendThreshold = 0.05
	minEvalsForTrend = 3
)

// Tracker is the boundary the orchestrator drives after every Evaluation.
type Tracker interface {
	Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, skillRefs []uuid.UUID, newScore float64) error
}

type tracker struct {
	evaluations repos.EvaluationRepo
	mastery     repos.MasteryRepo
	userLocks   *keyedlock.Map
	log         *logger.Logger
}

func New(evaluations repos.EvaluationRepo, mastery repos.MasteryRepo, log *logger.Logger) Tracker {
	return &tracker{
		evaluations: evaluations,
		mastery:     mastery,
		userLocks:   keyedlock.New(),
		log:         log.With("component", "mastery_tracker"),
	}
}

// Update serializes all Mastery writes for one user behind a per-user
// lock: spec.md requires that Evaluations submitted in order S1, S2 update
// Mastery in that same order, which a bare read-compute-then-upsert cannot
// guarantee once two evaluations for the same user race each other.
func (t *tracker) Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, skillRefs []uuid.UUID, newScore float64) error {
	unlock := t.userLocks.Lock(userID.String())
	defer unlock()

	for _, skillID := range skillRefs {
		if err := t.updateOne(ctx, tx, userID, skillID, newScore); err != nil {
			return fmt.Errorf("mastery: update skill %s: %w", skillID, err)
		}
	}
	return nil
}

func (t *tracker) updateOne(ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID, newScore float64) error {
	evals, err := t.evaluations.ListRecentByUserAndSkill(ctx, tx, userID, skillID, historyWindow)
	if err != nil {
		return err
	}

	recentN := len(evals)
	if recentN > recentWindow {
		recentN = recentWindow
	}
	recent := evals[:recentN]
	older := evals[recentN:]

	score := computeScore(recent, older, newScore)
	trend := computeTrend(recent, older, len(evals))

	existing, err := t.mastery.Get(ctx, tx, userID, skillID)
	if err != nil {
		return err
	}
	practiceCount := 1
	m := &domain.Mastery{UserID: userID, SkillID: skillID}
	if existing != nil {
		m.ID = existing.ID
		practiceCount = existing.PracticeCount + 1
	}
	m.Score = domain.Clamp01(score)
	m.Trend = trend
	m.PracticeCount = practiceCount
	m.LastPracticed = time.Now().UTC()

	return t.mastery.Upsert(ctx, tx, m)
}

func computeScore(recent, older []domain.Evaluation, newScore float64) float64 {
	recentMean, hasRecent := mean(recent)
	olderMean, hasOlder := mean(older)
	switch {
	case hasRecent && hasOlder:
		return recentWeight*recentMean + olderWeight*olderMean
	case hasRecent:
		return recentMean
	case hasOlder:
		return olderMean
	default:
		return newScore
	}
}

func computeTrend(recent, older []domain.Evaluation, total int) domain.Trend {
	if total < minEvalsForTrend {
		return domain.TrendStable
	}
	recentMean, hasRecent := mean(recent)
	olderMean, hasOlder := mean(older)
	if !hasRecent || !hasOlder {
		return domain.TrendStable
	}
	diff := recentMean - olderMean
	switch {
	case diff > trendThreshold:
		return domain.TrendImproving
	case diff < -trendThreshold:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

func mean(evals []domain.Evaluation) (float64, bool) {
	if len(evals) == 0 {
		return 0, false
	}
	var sum float64
	for _, e := range evals {
		sum += e.OverallScore
	}
	return sum / float64(len(evals)), true
}
