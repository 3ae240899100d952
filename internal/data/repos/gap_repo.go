package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type GapRepo interface {
	// ReplaceForUser atomically deletes the user's prior gap set and inserts
	// the freshly analyzed one; callers must pass a non-nil tx so the delete
	// and inserts commit or roll back together.
	ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gaps []domain.Gap) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]domain.Gap, error)
}

type gapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGapRepo(db *gorm.DB, baseLog *logger.Logger) GapRepo {
	return &gapRepo{db: db, log: baseLog.With("repo", "GapRepo")}
}

func (r *gapRepo) ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gaps []domain.Gap) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Gap{}).Error; err != nil {
		return err
	}
	if len(gaps) == 0 {
		return nil
	}
	for i := range gaps {
		if gaps[i].ID == uuid.Nil {
			gaps[i].ID = uuid.New()
		}
		gaps[i].UserID = userID
	}
	return transaction.WithContext(ctx).Create(&gaps).Error
}

func (r *gapRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]domain.Gap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.Gap
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
