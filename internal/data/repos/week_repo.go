package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type WeekRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, weeks []domain.Week) error
	ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]domain.Week, error)
}

type weekRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeekRepo(db *gorm.DB, baseLog *logger.Logger) WeekRepo {
	return &weekRepo{db: db, log: baseLog.With("repo", "WeekRepo")}
}

func (r *weekRepo) CreateBatch(ctx context.Context, tx *gorm.DB, weeks []domain.Week) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(weeks) == 0 {
		return nil
	}
	for i := range weeks {
		if weeks[i].ID == uuid.Nil {
			weeks[i].ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).Create(&weeks).Error
}

func (r *weekRepo) ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]domain.Week, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.Week
	err := transaction.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("week_number asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
