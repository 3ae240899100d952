package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/interviewcoach/coach/internal/data/repos/testutil"
	"github.com/interviewcoach/coach/internal/domain"
)

func TestTaskRepoListByUserAndDate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewTaskRepo(db, testutil.Logger(t))
	user := testutil.SeedUser(t, ctx, tx)
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	dayID := uuid.New()
	todayTask := testutil.SeedTask(t, ctx, tx, plan.ID, dayID, user.ID, today)
	testutil.SeedTask(t, ctx, tx, plan.ID, dayID, user.ID, tomorrow)

	rows, err := repo.ListByUserAndDate(ctx, tx, user.ID, today)
	if err != nil {
		t.Fatalf("ListByUserAndDate: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != todayTask.ID {
		t.Fatalf("expected exactly today's task, got %+v", rows)
	}
}

func TestTaskRepoListOverdueExcludesCompleted(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewTaskRepo(db, testutil.Logger(t))
	user := testutil.SeedUser(t, ctx, tx)
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	dayID := uuid.New()

	pending := testutil.SeedTask(t, ctx, tx, plan.ID, dayID, user.ID, yesterday)

	completed := testutil.SeedTask(t, ctx, tx, plan.ID, dayID, user.ID, yesterday)
	completed.Status = domain.TaskStatusCompleted
	if err := repo.Update(ctx, tx, completed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	rows, err := repo.ListOverdue(ctx, tx, user.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("ListOverdue: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != pending.ID {
		t.Fatalf("expected only the pending overdue task, got %+v", rows)
	}
}

func TestTaskRepoListByPlanAndStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewTaskRepo(db, testutil.Logger(t))
	user := testutil.SeedUser(t, ctx, tx)
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)
	dayID := uuid.New()
	testutil.SeedTask(t, ctx, tx, plan.ID, dayID, user.ID, time.Now().UTC())

	rows, err := repo.ListByPlanAndStatus(ctx, tx, plan.ID, domain.TaskStatusPending)
	if err != nil {
		t.Fatalf("ListByPlanAndStatus: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(rows))
	}

	rows, err = repo.ListByPlanAndStatus(ctx, tx, plan.ID, domain.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("ListByPlanAndStatus completed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected 0 completed tasks, got %d", len(rows))
	}
}
