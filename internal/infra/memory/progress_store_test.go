package memory

import (
	"context"
	"testing"
	"time"

	"progression-service/internal/domain"
)

func TestUpsertModuleProgressMerges(t *testing.T) {
	store := NewProgressStore()
	ctx := context.Background()

	early := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	row, err := store.UpsertModuleProgress(ctx, domain.ModuleProgress{
		UserID: "u1", ModuleID: "m1", WatchTimeSeconds: 100, LastWatchedAt: &late,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if row.WatchTimeSeconds != 100 {
		t.Fatalf("initial row: %+v", row)
	}

	// Watch time accumulates; an older last-watched timestamp never wins.
	row, err = store.UpsertModuleProgress(ctx, domain.ModuleProgress{
		UserID: "u1", ModuleID: "m1", WatchTimeSeconds: 50, LastWatchedAt: &early,
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if row.WatchTimeSeconds != 150 {
		t.Fatalf("watch time %d, want 150", row.WatchTimeSeconds)
	}
	if row.LastWatchedAt == nil || !row.LastWatchedAt.Equal(late) {
		t.Fatalf("last watched regressed: %v", row.LastWatchedAt)
	}

	// Completing sets the flag once.
	row, err = store.UpsertModuleProgress(ctx, domain.ModuleProgress{
		UserID: "u1", ModuleID: "m1", Completed: true, CompletedAt: &early,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !row.Completed || row.CompletedAt == nil || !row.CompletedAt.Equal(early) {
		t.Fatalf("completion not recorded: %+v", row)
	}

	// Completed is sticky and the original completion time is kept.
	row, err = store.UpsertModuleProgress(ctx, domain.ModuleProgress{
		UserID: "u1", ModuleID: "m1", Completed: true, CompletedAt: &late,
	})
	if err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	if !row.CompletedAt.Equal(early) {
		t.Fatalf("completion time rewritten: %v", row.CompletedAt)
	}

	// One row per (user, module); other users are untouched.
	if _, err := store.UpsertModuleProgress(ctx, domain.ModuleProgress{
		UserID: "u2", ModuleID: "m1", WatchTimeSeconds: 10,
	}); err != nil {
		t.Fatalf("other user: %v", err)
	}
	rows, err := store.ListModuleProgress(ctx, "u1", []string{"m1"})
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows for u1: %+v %v", rows, err)
	}
	if rows[0].WatchTimeSeconds != 150 {
		t.Fatalf("merged row: %+v", rows[0])
	}
}

func TestAttemptNumbering(t *testing.T) {
	store := NewProgressStore()
	ctx := context.Background()

	n, err := store.NextAttemptNumber(ctx, "u1", "m1")
	if err != nil || n != 1 {
		t.Fatalf("first attempt number %d %v, want 1", n, err)
	}

	if err := store.InsertAttempt(ctx, domain.QuizAttempt{ID: "a1", UserID: "u1", ModuleID: "m1", AttemptNumber: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	n, err = store.NextAttemptNumber(ctx, "u1", "m1")
	if err != nil || n != 2 {
		t.Fatalf("second attempt number %d %v, want 2", n, err)
	}

	// Numbering is per (user, module).
	n, err = store.NextAttemptNumber(ctx, "u1", "m2")
	if err != nil || n != 1 {
		t.Fatalf("other module attempt number %d %v, want 1", n, err)
	}

	attempts, err := store.ListAttempts(ctx, "u1", "m1")
	if err != nil || len(attempts) != 1 {
		t.Fatalf("attempts: %+v %v", attempts, err)
	}
}
