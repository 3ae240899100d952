package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type SkillRepo interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Skill, error)
	GetByCanonicalName(ctx context.Context, tx *gorm.DB, canonicalName string) (*domain.Skill, error)
	// Upsert creates the skill if canonical_name is unseen, otherwise returns
	// the existing row untouched — skills are lazily created and never
	// silently re-categorized by a later extraction run.
	Upsert(ctx context.Context, tx *gorm.DB, rawName string, category domain.SkillCategory) (*domain.Skill, error)
	ListByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]domain.Skill, error)
}

type skillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillRepo(db *gorm.DB, baseLog *logger.Logger) SkillRepo {
	return &skillRepo{db: db, log: baseLog.With("repo", "SkillRepo")}
}

func (r *skillRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.Skill
	err := transaction.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *skillRepo) GetByCanonicalName(ctx context.Context, tx *gorm.DB, canonicalName string) (*domain.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.Skill
	err := transaction.WithContext(ctx).Where("canonical_name = ?", canonicalName).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *skillRepo) Upsert(ctx context.Context, tx *gorm.DB, rawName string, category domain.SkillCategory) (*domain.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	canonical := domain.Canonicalize(rawName)
	row := &domain.Skill{
		ID:            uuid.New(),
		CanonicalName: canonical,
		Category:      category,
	}
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "canonical_name"}},
			DoNothing: true,
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	// DoNothing on conflict leaves row with client-side defaults rather than
	// the row actually stored, so always re-fetch by the unique key.
	return r.GetByCanonicalName(ctx, transaction, canonical)
}

func (r *skillRepo) ListByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]domain.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []domain.Skill
	if err := transaction.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
