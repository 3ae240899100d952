package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type DocumentRepo interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Document, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind domain.DocumentKind) ([]domain.Document, error)
	Create(ctx context.Context, tx *gorm.DB, d *domain.Document) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.Document
	err := transaction.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *documentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind domain.DocumentKind) ([]domain.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var rows []domain.Document
	if err := q.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, d *domain.Document) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(d).Error
}
