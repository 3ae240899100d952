package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type UserRepo interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, tx *gorm.DB, u *domain.User) error
	// ListAll returns every user, for the scheduler's daily sweep.
	ListAll(ctx context.Context, tx *gorm.DB) ([]domain.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.User
	err := transaction.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, u *domain.User) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(u).Error
}

func (r *userRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.User
	if err := transaction.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
