package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type EvaluationRepo interface {
	GetByAttempt(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (*domain.Evaluation, error)
	// Upsert atomically replaces any prior evaluation for the same attempt,
	// keeping the unique index on attempt_id meaningful as "latest wins".
	Upsert(ctx context.Context, tx *gorm.DB, e *domain.Evaluation) error
	// ListRecentByUserAndSkill returns up to limit Evaluations for userID
	// whose Attempt's PracticeItem references skillID, most recent first.
	ListRecentByUserAndSkill(ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID, limit int) ([]domain.Evaluation, error)
}

type evaluationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvaluationRepo(db *gorm.DB, baseLog *logger.Logger) EvaluationRepo {
	return &evaluationRepo{db: db, log: baseLog.With("repo", "EvaluationRepo")}
}

func (r *evaluationRepo) GetByAttempt(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (*domain.Evaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.Evaluation
	err := transaction.WithContext(ctx).Where("attempt_id = ?", attemptID).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *evaluationRepo) Upsert(ctx context.Context, tx *gorm.DB, e *domain.Evaluation) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "attempt_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"rubric_id", "overall_score", "criterion_scores", "strengths", "weaknesses", "feedback",
			}),
		}).
		Create(e).Error
}

// ListRecentByUserAndSkill joins through attempts and practice_items,
// filtering on jsonb array containment of skillID in skill_refs.
func (r *evaluationRepo) ListRecentByUserAndSkill(ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID, limit int) ([]domain.Evaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.Evaluation
	err := transaction.WithContext(ctx).
		Joins("JOIN attempts ON attempts.id = evaluations.attempt_id").
		Joins("JOIN practice_items ON practice_items.id = attempts.practice_item_id").
		Where("attempts.user_id = ?", userID).
		Where("practice_items.skill_refs @> ?", uuidContainsJSON(skillID)).
		Order("evaluations.created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func uuidContainsJSON(id uuid.UUID) string {
	return "[\"" + id.String() + "\"]"
}
