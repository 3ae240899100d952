package repos

import (
	"context"
	"testing"

	"github.com/interviewcoach/coach/internal/data/repos/testutil"
	"github.com/interviewcoach/coach/internal/domain"
)

func TestGapRepoReplaceForUserIsWholesale(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewGapRepo(db, testutil.Logger(t))
	user := testutil.SeedUser(t, ctx, tx)
	skillRepo := NewSkillRepo(db, testutil.Logger(t))
	skillA, _ := skillRepo.Upsert(ctx, tx, "kubernetes", domain.SkillCategoryTool)
	skillB, _ := skillRepo.Upsert(ctx, tx, "terraform", domain.SkillCategoryTool)

	first := []domain.Gap{
		{UserID: user.ID, SkillID: skillA.ID, Coverage: domain.CoverageMissing, Priority: domain.GapPriorityHigh, EstimatedHours: 20},
	}
	if err := repo.ReplaceForUser(ctx, tx, user.ID, first); err != nil {
		t.Fatalf("ReplaceForUser first: %v", err)
	}

	rows, err := repo.ListByUser(ctx, tx, user.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser after first replace: err=%v len=%d", err, len(rows))
	}

	second := []domain.Gap{
		{UserID: user.ID, SkillID: skillB.ID, Coverage: domain.CoveragePartial, Priority: domain.GapPriorityMedium, EstimatedHours: 10},
	}
	if err := repo.ReplaceForUser(ctx, tx, user.ID, second); err != nil {
		t.Fatalf("ReplaceForUser second: %v", err)
	}

	rows, err = repo.ListByUser(ctx, tx, user.ID)
	if err != nil || len(rows) != 1 || rows[0].SkillID != skillB.ID {
		t.Fatalf("expected prior gap set replaced wholesale, got %+v (err=%v)", rows, err)
	}
}
