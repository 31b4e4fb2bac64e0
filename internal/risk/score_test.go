package risk

import (
	"testing"
	"time"

	"progression-service/internal/domain"
)

var now = time.Date(2025, 8, 11, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) *time.Time {
	t := now.Add(-time.Duration(d) * 24 * time.Hour)
	return &t
}

func intp(v int) *int { return &v }

func baseInput() Input {
	return Input{
		User:      domain.User{ID: "u1", DisplayName: "Alice"},
		CourseID:  "c1",
		ModuleIDs: []string{"m1", "m2", "m3", "m4"},
		Now:       now,
	}
}

func TestEvaluateHealthyUserNoSignal(t *testing.T) {
	in := baseInput()
	in.Progress = []domain.ModuleProgress{
		{ModuleID: "m1", Completed: true, CompletedAt: daysAgo(1)},
		{ModuleID: "m2", Completed: true, CompletedAt: daysAgo(1)},
		{ModuleID: "m3", Completed: true, CompletedAt: daysAgo(1)},
	}

	if sig, flagged := Evaluate(in); flagged {
		t.Fatalf("healthy user flagged: %+v", sig)
	}
}

func TestEvaluateNoActivity(t *testing.T) {
	// Zero completion (35) plus no recorded activity (30) = 65, medium.
	in := baseInput()

	sig, flagged := Evaluate(in)
	if !flagged {
		t.Fatal("inactive zero-completion user not flagged")
	}
	if sig.RiskScore != 65 || sig.RiskLevel != domain.RiskLevelMedium {
		t.Fatalf("got score %d level %s, want 65 medium", sig.RiskScore, sig.RiskLevel)
	}
	if sig.LastActiveAt != nil {
		t.Fatalf("lastActiveAt should be nil, got %v", sig.LastActiveAt)
	}
}

func TestEvaluateWorkedExample(t *testing.T) {
	// 20% completion (35) + inactive 35 days (45) + 1 overdue (15) = 95, high.
	due := now.Add(-10 * 24 * time.Hour)
	in := baseInput()
	in.ModuleIDs = []string{"m1", "m2", "m3", "m4", "m5"}
	in.Progress = []domain.ModuleProgress{
		{ModuleID: "m1", Completed: true, CompletedAt: daysAgo(35)},
	}
	in.Assignments = []domain.Assignment{
		{ID: "a1", CourseID: "c1", DueAt: &due, PassingPercent: 60},
	}

	sig, flagged := Evaluate(in)
	if !flagged {
		t.Fatal("expected a signal")
	}
	if sig.RiskScore != 95 {
		t.Fatalf("score %d, want 95", sig.RiskScore)
	}
	if sig.RiskLevel != domain.RiskLevelHigh {
		t.Fatalf("level %s, want high", sig.RiskLevel)
	}
	if sig.CompletionPercent != 20 || sig.OverdueAssignments != 1 {
		t.Fatalf("factors wrong: %+v", sig)
	}
	want := "completion is below 35%, inactive for 30+ days, 1 overdue assignment(s)"
	if sig.Reason != want {
		t.Fatalf("reason %q, want %q", sig.Reason, want)
	}
}

func TestEvaluateInactivityTiers(t *testing.T) {
	// Hold completion at 50% (20 points) and vary only recency.
	withActivity := func(days int) Input {
		in := baseInput()
		in.Progress = []domain.ModuleProgress{
			{ModuleID: "m1", Completed: true, CompletedAt: daysAgo(days)},
			{ModuleID: "m2", Completed: true, CompletedAt: daysAgo(days)},
		}
		return in
	}

	if sig, flagged := Evaluate(withActivity(5)); flagged {
		t.Fatalf("recent activity at 50%% flagged: %+v", sig)
	}

	sig, flagged := Evaluate(withActivity(15))
	if !flagged || sig.RiskScore != 50 {
		t.Fatalf("14+ days: flagged=%v score=%d, want 50", flagged, sig.RiskScore)
	}

	sig, flagged = Evaluate(withActivity(40))
	if !flagged || sig.RiskScore != 65 {
		t.Fatalf("30+ days: flagged=%v score=%d, want 65", flagged, sig.RiskScore)
	}
}

func TestEvaluateOverdueAndLowScoreCaps(t *testing.T) {
	due := now.Add(-24 * time.Hour)
	in := baseInput()
	in.Progress = []domain.ModuleProgress{
		{ModuleID: "m1", Completed: true, CompletedAt: daysAgo(1)},
		{ModuleID: "m2", Completed: true, CompletedAt: daysAgo(1)},
	}
	for _, id := range []string{"a1", "a2", "a3", "a4"} {
		in.Assignments = append(in.Assignments, domain.Assignment{
			ID: id, CourseID: "c1", DueAt: &due, PassingPercent: 60,
		})
	}
	in.Submissions = []domain.Submission{
		{ID: "s3", AssignmentID: "a3", UserID: "u1", Status: domain.SubmissionGraded, ScorePercent: intp(40), GradedAt: daysAgo(1)},
		{ID: "s4", AssignmentID: "a4", UserID: "u1", Status: domain.SubmissionGraded, ScorePercent: intp(30), GradedAt: daysAgo(1)},
	}

	// 50% completion (20) + 2 overdue capped check (2*15=30) + 2 low scores
	// (2*10=20) = 70.
	sig, flagged := Evaluate(in)
	if !flagged {
		t.Fatal("expected a signal")
	}
	if sig.OverdueAssignments != 2 || sig.LowScoreAssignments != 2 {
		t.Fatalf("counts wrong: %+v", sig)
	}
	if sig.RiskScore != 70 || sig.RiskLevel != domain.RiskLevelHigh {
		t.Fatalf("score %d level %s, want 70 high", sig.RiskScore, sig.RiskLevel)
	}

	// Pile on more overdue and low-score rows; both factors must stay capped
	// and the total must never exceed 100.
	for _, id := range []string{"a5", "a6", "a7"} {
		in.Assignments = append(in.Assignments, domain.Assignment{
			ID: id, CourseID: "c1", DueAt: &due, PassingPercent: 60,
		})
		in.Submissions = append(in.Submissions, domain.Submission{
			ID: "s-" + id, AssignmentID: id, UserID: "u1",
			Status: domain.SubmissionGraded, ScorePercent: intp(10), GradedAt: daysAgo(1),
		})
	}
	sig, _ = Evaluate(in)
	if sig.RiskScore != 70 {
		t.Fatalf("capped score %d, want 70 (overdue capped at 30, low scores at 20)", sig.RiskScore)
	}
}

func TestEvaluateStalledBonus(t *testing.T) {
	due := now.Add(-24 * time.Hour)
	in := baseInput()
	in.Assignments = []domain.Assignment{
		{ID: "a1", CourseID: "c1", DueAt: &due, PassingPercent: 60},
	}
	in.Submissions = []domain.Submission{
		{ID: "s1", AssignmentID: "a1", UserID: "u1", Status: domain.SubmissionReturned, SubmittedAt: daysAgo(2)},
	}

	// 0% completion (35) + active 2 days ago (0) + 1 overdue (15) + stalled
	// bonus (10) = 60. A returned submission counts as outstanding.
	sig, flagged := Evaluate(in)
	if !flagged || sig.RiskScore != 60 {
		t.Fatalf("flagged=%v score=%d, want 60", flagged, sig.RiskScore)
	}
}

func TestEvaluateReasonFallback(t *testing.T) {
	// Exactly at the medium threshold with a single factor still names it.
	in := baseInput()
	in.Progress = []domain.ModuleProgress{
		{ModuleID: "m1", Completed: true, CompletedAt: daysAgo(1)},
		{ModuleID: "m2", Completed: true, CompletedAt: daysAgo(1)},
	}
	if _, flagged := Evaluate(in); flagged {
		t.Fatal("50% completion alone (20 points) should not flag")
	}
}

func TestSortOrdersByScoreThenName(t *testing.T) {
	signals := []domain.RiskSignal{
		{UserID: "u1", UserName: "Zoe", RiskScore: 65},
		{UserID: "u2", UserName: "Alice", RiskScore: 95},
		{UserID: "u3", UserName: "Bob", RiskScore: 65},
	}
	Sort(signals)

	got := []string{signals[0].UserName, signals[1].UserName, signals[2].UserName}
	want := []string{"Alice", "Bob", "Zoe"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}
