package repos

import (
	"context"
	"testing"

	"github.com/interviewcoach/coach/internal/data/repos/testutil"
	"github.com/interviewcoach/coach/internal/domain"
)

func TestMasteryRepoUpsertUpdatesExistingRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewMasteryRepo(db, testutil.Logger(t))
	user := testutil.SeedUser(t, ctx, tx)
	skill := testutil.SeedSkill(t, ctx, tx, "system design", domain.SkillCategoryDomain)

	if err := repo.Upsert(ctx, tx, &domain.Mastery{
		UserID:        user.ID,
		SkillID:       skill.ID,
		Score:         0.4,
		PracticeCount: 1,
		Trend:         domain.TrendStable,
	}); err != nil {
		t.Fatalf("Upsert initial: %v", err)
	}

	if err := repo.Upsert(ctx, tx, &domain.Mastery{
		UserID:        user.ID,
		SkillID:       skill.ID,
		Score:         0.6,
		PracticeCount: 2,
		Trend:         domain.TrendImproving,
	}); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	got, err := repo.Get(ctx, tx, user.ID, skill.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a mastery row")
	}
	if got.Score != 0.6 || got.PracticeCount != 2 || got.Trend != domain.TrendImproving {
		t.Fatalf("expected upsert to overwrite row, got %+v", got)
	}
}
