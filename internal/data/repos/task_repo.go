package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type TaskRepo interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Task, error)
	CreateBatch(ctx context.Context, tx *gorm.DB, tasks []domain.Task) error
	Update(ctx context.Context, tx *gorm.DB, t *domain.Task) error
	// ListByUserAndDate backs the Daily Coach's Briefing operation.
	ListByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) ([]domain.Task, error)
	// ListByPlanAndStatus backs the Adaptive Planner's progress evaluation.
	ListByPlanAndStatus(ctx context.Context, tx *gorm.DB, planID uuid.UUID, status domain.TaskStatus) ([]domain.Task, error)
	ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]domain.Task, error)
	// ListOverdue backs auto_reschedule_overdue: pending/in_progress tasks
	// whose date is strictly before asOf.
	ListOverdue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, asOf time.Time) ([]domain.Task, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (r *taskRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.Task
	err := transaction.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *taskRepo) CreateBatch(ctx context.Context, tx *gorm.DB, tasks []domain.Task) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(tasks) == 0 {
		return nil
	}
	for i := range tasks {
		if tasks[i].ID == uuid.Nil {
			tasks[i].ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).Create(&tasks).Error
}

func (r *taskRepo) Update(ctx context.Context, tx *gorm.DB, t *domain.Task) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(t).Error
}

func (r *taskRepo) ListByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) ([]domain.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	day := date.Truncate(24 * time.Hour)
	var rows []domain.Task
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *taskRepo) ListByPlanAndStatus(ctx context.Context, tx *gorm.DB, planID uuid.UUID, status domain.TaskStatus) ([]domain.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("plan_id = ?", planID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []domain.Task
	if err := q.Order("date asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *taskRepo) ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]domain.Task, error) {
	return r.ListByPlanAndStatus(ctx, tx, planID, "")
}

func (r *taskRepo) ListOverdue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, asOf time.Time) ([]domain.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	cutoff := asOf.Truncate(24 * time.Hour)
	var rows []domain.Task
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND date < ? AND status IN ?", userID, cutoff,
			[]domain.TaskStatus{domain.TaskStatusPending, domain.TaskStatusInProgress}).
		Order("date asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
