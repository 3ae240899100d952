package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type RubricRepo interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Rubric, error)
	GetDefaultForType(ctx context.Context, tx *gorm.DB, practiceType domain.PracticeType) (*domain.Rubric, error)
	// EnsureDefault creates the default rubric for practiceType if one does
	// not already exist, returning the (possibly pre-existing) row.
	EnsureDefault(ctx context.Context, tx *gorm.DB, practiceType domain.PracticeType, criteria []domain.RubricCriterion) (*domain.Rubric, error)
}

type rubricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRubricRepo(db *gorm.DB, baseLog *logger.Logger) RubricRepo {
	return &rubricRepo{db: db, log: baseLog.With("repo", "RubricRepo")}
}

func (r *rubricRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Rubric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.Rubric
	err := transaction.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *rubricRepo) GetDefaultForType(ctx context.Context, tx *gorm.DB, practiceType domain.PracticeType) (*domain.Rubric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.Rubric
	err := transaction.WithContext(ctx).
		Where("practice_type = ? AND is_default = ?", practiceType, true).
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

func (r *rubricRepo) EnsureDefault(ctx context.Context, tx *gorm.DB, practiceType domain.PracticeType, criteria []domain.RubricCriterion) (*domain.Rubric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row := &domain.Rubric{
		ID:           uuid.New(),
		PracticeType: practiceType,
		IsDefault:    true,
		Criteria:     criteria,
	}
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "practice_type"}},
			DoNothing: true,
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.GetDefaultForType(ctx, transaction, practiceType)
}
