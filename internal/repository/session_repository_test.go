package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/aptitude-quiz/internal/model"
)

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := NewMemorySessionRepository(time.Minute)
	repo.now = func() time.Time { return now }

	s := model.NewSession(now)
	s.Questions = []model.Question{{Topic: "T", Question: "Q", Answer: "A"}}
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.Score = 5
	got.Questions[0].Question = "mutated"

	again, _ := repo.Get(ctx, s.ID)
	if again.Score != 0 || again.Questions[0].Question != "Q" {
		t.Error("Get returned shared state")
	}

	if _, err := repo.Get(ctx, uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown id: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := repo.Get(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session: %v", err)
	}
}

func TestMemorySessionRepository_DeleteAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	repo := NewMemorySessionRepository(time.Minute)
	repo.now = func() time.Time { return now }

	a, b := model.NewSession(now), model.NewSession(now)
	_ = repo.Save(ctx, a)
	_ = repo.Save(ctx, b)

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, a.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("deleted session still present: %v", err)
	}

	now = now.Add(time.Hour)
	if removed := repo.Sweep(); removed != 1 {
		t.Errorf("sweep removed %d, want 1", removed)
	}
}
