// Package calendarproj projects a StudyPlan's tasks into calendar events.
// Formatting those events into a concrete calendar wire format (ICS and
// similar) is delegated to an external serializer and is out of scope here.
package calendarproj

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/data/repos"
	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

// taskStartHour is the local-of-record hour every task's calendar block
// starts at: "09:00 local-of-record" in the projection contract.
const taskStartHour = 9

// Projector is the boundary the orchestrator drives for calendar projection.
type Projector interface {
	Project(ctx context.Context, tx *gorm.DB, plan *domain.StudyPlan, tasks []domain.Task) ([]domain.CalendarEvent, error)
}

type projector struct {
	events    repos.CalendarEventRepo
	startHour int
	log       *logger.Logger
}

// New builds a Projector. startHour is the local-of-record hour every
// task's calendar block starts at; 0 falls back to taskStartHour.
func New(events repos.CalendarEventRepo, startHour int, log *logger.Logger) Projector {
	if startHour <= 0 {
		startHour = taskStartHour
	}
	return &projector{events: events, startHour: startHour, log: log.With("component", "calendar_projector")}
}

func (p *projector) Project(ctx context.Context, tx *gorm.DB, plan *domain.StudyPlan, tasks []domain.Task) ([]domain.CalendarEvent, error) {
	if plan == nil {
		return nil, fmt.Errorf("calendarproj: nil plan")
	}

	taskIDs := make([]uuid.UUID, 0, len(tasks))
	events := make([]domain.CalendarEvent, 0, len(tasks))
	keepSyncUIDs := make([]string, 0, len(tasks))

	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
		start := time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), p.startHour, 0, 0, 0, t.Date.Location())
		end := start.Add(time.Duration(t.EstimatedMinutes) * time.Minute)
		syncUID := SyncUID(t.ID, plan.Epoch)
		events = append(events, domain.CalendarEvent{
			TaskID:      t.ID,
			PlanEpoch:   plan.Epoch,
			Start:       start,
			End:         end,
			Title:       t.Title,
			Description: t.Description,
			SyncUID:     syncUID,
		})
		keepSyncUIDs = append(keepSyncUIDs, syncUID)
	}

	if err := p.events.UpsertBatch(ctx, tx, events); err != nil {
		return nil, fmt.Errorf("calendarproj: upsert events: %w", err)
	}
	if err := p.events.DeleteStale(ctx, tx, taskIDs, keepSyncUIDs); err != nil {
		return nil, fmt.Errorf("calendarproj: delete stale events: %w", err)
	}
	return events, nil
}

// SyncUID is a stable function of (task_id, plan epoch): re-projecting an
// unchanged plan produces identical uids, so external calendars see updates
// rather than duplicate events.
func SyncUID(taskID uuid.UUID, planEpoch int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", taskID.String(), planEpoch)))
	return hex.EncodeToString(sum[:])
}
