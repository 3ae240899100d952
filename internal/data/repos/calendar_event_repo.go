package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type CalendarEventRepo interface {
	ListByTaskIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) ([]domain.CalendarEvent, error)
	// UpsertBatch writes every event keyed by its stable sync_uid, so
	// re-projecting an unchanged plan is a no-op at the row level.
	UpsertBatch(ctx context.Context, tx *gorm.DB, events []domain.CalendarEvent) error
	// DeleteStale removes prior-epoch events for a plan's tasks that no
	// longer appear in the freshly projected sync_uid set.
	DeleteStale(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID, keepSyncUIDs []string) error
}

type calendarEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCalendarEventRepo(db *gorm.DB, baseLog *logger.Logger) CalendarEventRepo {
	return &calendarEventRepo{db: db, log: baseLog.With("repo", "CalendarEventRepo")}
}

func (r *calendarEventRepo) ListByTaskIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) ([]domain.CalendarEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var rows []domain.CalendarEvent
	err := transaction.WithContext(ctx).Where("task_id IN ?", taskIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *calendarEventRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, events []domain.CalendarEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(events) == 0 {
		return nil
	}
	for i := range events {
		if events[i].ID == uuid.Nil {
			events[i].ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sync_uid"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"task_id", "plan_epoch", "start", "end", "title", "description",
			}),
		}).
		Create(&events).Error
}

func (r *calendarEventRepo) DeleteStale(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID, keepSyncUIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(taskIDs) == 0 {
		return nil
	}
	q := transaction.WithContext(ctx).Where("task_id IN ?", taskIDs)
	if len(keepSyncUIDs) > 0 {
		q = q.Where("sync_uid NOT IN ?", keepSyncUIDs)
	}
	return q.Delete(&domain.CalendarEvent{}).Error
}
