package progress

import (
	"testing"

	"progression-service/internal/domain"
)

func TestIsCourseComplete(t *testing.T) {
	mods := []string{"m1", "m2", "m3"}

	if IsCourseComplete(mods, map[string]bool{"m1": true, "m2": true}) {
		t.Fatal("course reported complete with an outstanding module")
	}
	if !IsCourseComplete(mods, map[string]bool{"m1": true, "m2": true, "m3": true}) {
		t.Fatal("fully completed course reported incomplete")
	}
	if IsCourseComplete(nil, map[string]bool{"m1": true}) {
		t.Fatal("zero-module course must never be complete")
	}
}

func TestCompletionPercent(t *testing.T) {
	mods := []string{"m1", "m2", "m3"}

	if got := CompletionPercent(mods, nil); got != 0 {
		t.Fatalf("no completions scored %d, want 0", got)
	}
	if got := CompletionPercent(mods, map[string]bool{"m1": true}); got != 33 {
		t.Fatalf("1/3 scored %d, want 33", got)
	}
	if got := CompletionPercent(mods, map[string]bool{"m1": true, "m2": true}); got != 67 {
		t.Fatalf("2/3 scored %d, want 67", got)
	}
	if got := CompletionPercent(nil, map[string]bool{"m1": true}); got != 0 {
		t.Fatalf("zero-module course scored %d, want 0", got)
	}
}

func TestComputePathProgress(t *testing.T) {
	required := []string{"c1", "c2", "c3", "c4"}

	agg := ComputePathProgress(required, map[string]bool{"c1": true})
	if agg.CompletedCourses != 1 || agg.TotalCourses != 4 || agg.CompletionPercent != 25 {
		t.Fatalf("partial path: %+v", agg)
	}
	if agg.Status != domain.PathStatusEnrolled {
		t.Fatalf("partial path status %q, want enrolled", agg.Status)
	}

	all := map[string]bool{"c1": true, "c2": true, "c3": true, "c4": true}
	agg = ComputePathProgress(required, all)
	if agg.CompletionPercent != 100 || agg.Status != domain.PathStatusCompleted {
		t.Fatalf("finished path: %+v", agg)
	}
}

func TestComputePathProgressEmptyPath(t *testing.T) {
	agg := ComputePathProgress(nil, nil)
	if agg.CompletionPercent != 0 {
		t.Fatalf("empty path percent %d, want 0 (not a division by zero)", agg.CompletionPercent)
	}
	if agg.Status != domain.PathStatusEnrolled {
		t.Fatalf("empty path status %q, want enrolled", agg.Status)
	}
}
