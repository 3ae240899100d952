package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB) *domain.User {
	tb.Helper()
	u := &domain.User{ID: uuid.New()}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSkill(tb testing.TB, ctx context.Context, tx *gorm.DB, canonicalName string, category domain.SkillCategory) *domain.Skill {
	tb.Helper()
	s := &domain.Skill{
		ID:            uuid.New(),
		CanonicalName: canonicalName,
		Category:      category,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed skill: %v", err)
	}
	return s
}

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind domain.DocumentKind) *domain.Document {
	tb.Helper()
	d := &domain.Document{
		ID:      uuid.New(),
		UserID:  userID,
		Kind:    kind,
		RawText: "seeded document text",
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return d
}

func SeedStudyPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *domain.StudyPlan {
	tb.Helper()
	p := &domain.StudyPlan{
		ID:           uuid.New(),
		UserID:       userID,
		WeeksCount:   4,
		HoursPerWeek: 10,
		Active:       true,
		Epoch:        1,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed study plan: %v", err)
	}
	return p
}

func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, planID, dayID, userID uuid.UUID, date time.Time) *domain.Task {
	tb.Helper()
	t := &domain.Task{
		ID:               uuid.New(),
		PlanID:           planID,
		DayID:            dayID,
		UserID:           userID,
		Date:             date.Truncate(24 * time.Hour),
		Type:             domain.TaskTypeLearn,
		Title:            "seeded task",
		EstimatedMinutes: 30,
		Status:           domain.TaskStatusPending,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return t
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
func PtrTime(v time.Time) *time.Time { return &v }
