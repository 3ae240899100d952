package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type PracticeItemRepo interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.PracticeItem, error)
	Create(ctx context.Context, tx *gorm.DB, p *domain.PracticeItem) error
	CreateBatch(ctx context.Context, tx *gorm.DB, items []domain.PracticeItem) error
	ListByTask(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) ([]domain.PracticeItem, error)
}

type practiceItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPracticeItemRepo(db *gorm.DB, baseLog *logger.Logger) PracticeItemRepo {
	return &practiceItemRepo{db: db, log: baseLog.With("repo", "PracticeItemRepo")}
}

func (r *practiceItemRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.PracticeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.PracticeItem
	err := transaction.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *practiceItemRepo) Create(ctx context.Context, tx *gorm.DB, p *domain.PracticeItem) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(p).Error
}

func (r *practiceItemRepo) CreateBatch(ctx context.Context, tx *gorm.DB, items []domain.PracticeItem) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).Create(&items).Error
}

func (r *practiceItemRepo) ListByTask(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) ([]domain.PracticeItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.PracticeItem
	err := transaction.WithContext(ctx).Where("task_id = ?", taskID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
