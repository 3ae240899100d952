package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type SkillEvidenceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, e *domain.SkillEvidence) error
	ListByDocumentAndSkill(ctx context.Context, tx *gorm.DB, documentID, skillID uuid.UUID) ([]domain.SkillEvidence, error)
	ListByDocument(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]domain.SkillEvidence, error)
	ListByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]domain.SkillEvidence, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]domain.SkillEvidence, error)
}

type skillEvidenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillEvidenceRepo(db *gorm.DB, baseLog *logger.Logger) SkillEvidenceRepo {
	return &skillEvidenceRepo{db: db, log: baseLog.With("repo", "SkillEvidenceRepo")}
}

func (r *skillEvidenceRepo) Create(ctx context.Context, tx *gorm.DB, e *domain.SkillEvidence) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(e).Error
}

func (r *skillEvidenceRepo) ListByDocumentAndSkill(ctx context.Context, tx *gorm.DB, documentID, skillID uuid.UUID) ([]domain.SkillEvidence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.SkillEvidence
	err := transaction.WithContext(ctx).
		Where("document_id = ? AND skill_id = ?", documentID, skillID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *skillEvidenceRepo) ListByDocument(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]domain.SkillEvidence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.SkillEvidence
	err := transaction.WithContext(ctx).Where("document_id = ?", documentID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *skillEvidenceRepo) ListByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]domain.SkillEvidence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []domain.SkillEvidence
	if err := transaction.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *skillEvidenceRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]domain.SkillEvidence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.SkillEvidence
	err := transaction.WithContext(ctx).
		Joins("JOIN documents ON documents.id = skill_evidence.document_id").
		Where("documents.user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
