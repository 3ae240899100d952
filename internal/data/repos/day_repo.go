package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type DayRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, days []domain.Day) error
	ListByWeek(ctx context.Context, tx *gorm.DB, weekID uuid.UUID) ([]domain.Day, error)
}

type dayRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDayRepo(db *gorm.DB, baseLog *logger.Logger) DayRepo {
	return &dayRepo{db: db, log: baseLog.With("repo", "DayRepo")}
}

func (r *dayRepo) CreateBatch(ctx context.Context, tx *gorm.DB, days []domain.Day) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(days) == 0 {
		return nil
	}
	for i := range days {
		if days[i].ID == uuid.Nil {
			days[i].ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).Create(&days).Error
}

func (r *dayRepo) ListByWeek(ctx context.Context, tx *gorm.DB, weekID uuid.UUID) ([]domain.Day, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.Day
	err := transaction.WithContext(ctx).
		Where("week_id = ?", weekID).
		Order("day_number asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
