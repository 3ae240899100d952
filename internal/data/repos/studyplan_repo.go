package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type StudyPlanRepo interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.StudyPlan, error)
	GetActiveForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.StudyPlan, error)
	Create(ctx context.Context, tx *gorm.DB, p *domain.StudyPlan) error
	Update(ctx context.Context, tx *gorm.DB, p *domain.StudyPlan) error
	// Deactivate marks every active plan for userID inactive, used when a
	// synthesis run retires the user's current plan for a fresh one.
	Deactivate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type studyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return &studyPlanRepo{db: db, log: baseLog.With("repo", "StudyPlanRepo")}
}

func (r *studyPlanRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.StudyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.StudyPlan
	err := transaction.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *studyPlanRepo) GetActiveForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.StudyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.StudyPlan
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at desc").
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

func (r *studyPlanRepo) Create(ctx context.Context, tx *gorm.DB, p *domain.StudyPlan) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(p).Error
}

func (r *studyPlanRepo) Update(ctx context.Context, tx *gorm.DB, p *domain.StudyPlan) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(p).Error
}

func (r *studyPlanRepo) Deactivate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.StudyPlan{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false).Error
}
