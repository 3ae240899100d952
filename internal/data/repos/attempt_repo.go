package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type AttemptRepo interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Attempt, error)
	Create(ctx context.Context, tx *gorm.DB, a *domain.Attempt) error
	Update(ctx context.Context, tx *gorm.DB, a *domain.Attempt) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]domain.Attempt, error)
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return &attemptRepo{db: db, log: baseLog.With("repo", "AttemptRepo")}
}

func (r *attemptRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Attempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.Attempt
	err := transaction.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *attemptRepo) Create(ctx context.Context, tx *gorm.DB, a *domain.Attempt) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(a).Error
}

func (r *attemptRepo) Update(ctx context.Context, tx *gorm.DB, a *domain.Attempt) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(a).Error
}

func (r *attemptRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]domain.Attempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("user_id = ?", userID).Order("submitted_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []domain.Attempt
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
