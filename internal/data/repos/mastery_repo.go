package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type MasteryRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID) (*domain.Mastery, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]domain.Mastery, error)
	// Upsert writes the full row on conflict of (user_id, skill_id); callers
	// compute the new score/trend/practice_count before calling this.
	Upsert(ctx context.Context, tx *gorm.DB, m *domain.Mastery) error
}

type masteryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMasteryRepo(db *gorm.DB, baseLog *logger.Logger) MasteryRepo {
	return &masteryRepo{db: db, log: baseLog.With("repo", "MasteryRepo")}
}

func (r *masteryRepo) Get(ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID) (*domain.Mastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.Mastery
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *masteryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]domain.Mastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.Mastery
	err := transaction.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *masteryRepo) Upsert(ctx context.Context, tx *gorm.DB, m *domain.Mastery) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.LastPracticed.IsZero() {
		m.LastPracticed = time.Now().UTC()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "last_practiced", "practice_count", "trend",
			}),
		}).
		Create(m).Error
}
