package repos

import (
	"context"
	"testing"

	"github.com/interviewcoach/coach/internal/data/repos/testutil"
	"github.com/interviewcoach/coach/internal/domain"
)

func TestSkillRepoUpsertIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewSkillRepo(db, testutil.Logger(t))

	first, err := repo.Upsert(ctx, tx, "  Go   Programming ", domain.SkillCategoryProgramming)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if first.CanonicalName != "go programming" {
		t.Fatalf("expected canonicalized name, got %q", first.CanonicalName)
	}

	second, err := repo.Upsert(ctx, tx, "go programming", domain.SkillCategoryFramework)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same skill row on re-upsert, got different IDs")
	}
	if second.Category != domain.SkillCategoryProgramming {
		t.Fatalf("expected category to remain as first-seen value, got %q", second.Category)
	}
}

func TestSkillRepoGetByCanonicalNameMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewSkillRepo(db, testutil.Logger(t))
	got, err := repo.GetByCanonicalName(ctx, tx, "does not exist")
	if err != nil {
		t.Fatalf("GetByCanonicalName: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unseen skill, got %+v", got)
	}
}
