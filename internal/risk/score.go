// Package risk computes per-learner engagement risk for a human-reviewed
// triage queue. Scoring is additive, capped, and threshold-gated on purpose:
// each contributing factor is named in the reason string, and small input
// changes move the score by bounded amounts.
package risk

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"progression-service/internal/domain"
	"progression-service/internal/progress"
)

// Score thresholds. Pairs below Medium emit no signal at all.
const (
	highThreshold   = 70
	mediumThreshold = 45
)

// Input is everything needed to evaluate one (user, course) pair.
type Input struct {
	User        domain.User
	CourseID    string
	ModuleIDs   []string
	Progress    []domain.ModuleProgress
	Assignments []domain.Assignment
	Submissions []domain.Submission
	Now         time.Time
}

// Evaluate applies the scoring heuristic and reports whether the pair crosses
// the medium threshold. Callers should only pass pairs that have started the
// course (at least one progress row or assignment relationship).
func Evaluate(in Input) (domain.RiskSignal, bool) {
	completion := completionPercent(in)
	lastActive := lastActiveAt(in)
	overdue := overdueCount(in)
	lowScores := lowScoreCount(in)

	score := 0
	var reasons []string

	switch {
	case completion < 35:
		score += 35
		reasons = append(reasons, "completion is below 35%")
	case completion < 55:
		score += 20
		reasons = append(reasons, "completion is below 55%")
	}

	switch {
	case lastActive == nil:
		score += 30
		reasons = append(reasons, "no activity recorded")
	case in.Now.Sub(*lastActive) >= 30*24*time.Hour:
		score += 45
		reasons = append(reasons, "inactive for 30+ days")
	case in.Now.Sub(*lastActive) >= 14*24*time.Hour:
		score += 30
		reasons = append(reasons, "inactive for 14+ days")
	}

	if overdue > 0 {
		score += capAdd(15*overdue, 30)
		reasons = append(reasons, fmt.Sprintf("%d overdue assignment(s)", overdue))
	}

	if lowScores > 0 {
		score += capAdd(10*lowScores, 20)
		reasons = append(reasons, fmt.Sprintf("%d low-score assignment(s)", lowScores))
	}

	// Stalled-at-the-gate bonus, kept exactly as the heuristic has always
	// scored it even though completion and overdue already contributed.
	if completion == 0 && overdue > 0 {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	if score < mediumThreshold {
		return domain.RiskSignal{}, false
	}

	level := domain.RiskLevelMedium
	if score >= highThreshold {
		level = domain.RiskLevelHigh
	}

	return domain.RiskSignal{
		UserID:              in.User.ID,
		UserName:            in.User.DisplayName,
		CourseID:            in.CourseID,
		RiskScore:           score,
		RiskLevel:           level,
		Reason:              reasonText(reasons),
		CompletionPercent:   completion,
		OverdueAssignments:  overdue,
		LowScoreAssignments: lowScores,
		LastActiveAt:        lastActive,
	}, true
}

// Sort orders signals by score descending, ties broken by user name ascending.
func Sort(signals []domain.RiskSignal) {
	sort.SliceStable(signals, func(i, j int) bool {
		if signals[i].RiskScore != signals[j].RiskScore {
			return signals[i].RiskScore > signals[j].RiskScore
		}
		return signals[i].UserName < signals[j].UserName
	})
}

func completionPercent(in Input) int {
	completed := make(map[string]bool, len(in.Progress))
	for _, row := range in.Progress {
		if row.Completed {
			completed[row.ModuleID] = true
		}
	}
	return progress.CompletionPercent(in.ModuleIDs, completed)
}

func lastActiveAt(in Input) *time.Time {
	var last *time.Time
	bump := func(t *time.Time) {
		if t != nil && (last == nil || t.After(*last)) {
			last = t
		}
	}
	for _, row := range in.Progress {
		bump(row.CompletedAt)
		bump(row.LastWatchedAt)
	}
	for _, sub := range in.Submissions {
		bump(sub.GradedAt)
		bump(sub.SubmittedAt)
	}
	return last
}

func overdueCount(in Input) int {
	byAssignment := make(map[string]domain.Submission, len(in.Submissions))
	for _, sub := range in.Submissions {
		byAssignment[sub.AssignmentID] = sub
	}
	count := 0
	for _, a := range in.Assignments {
		if a.DueAt == nil || !a.DueAt.Before(in.Now) {
			continue
		}
		sub, ok := byAssignment[a.ID]
		if !ok || sub.Status == domain.SubmissionDraft || sub.Status == domain.SubmissionReturned {
			count++
		}
	}
	return count
}

func lowScoreCount(in Input) int {
	passing := make(map[string]int, len(in.Assignments))
	for _, a := range in.Assignments {
		passing[a.ID] = a.PassingPercent
	}
	count := 0
	for _, sub := range in.Submissions {
		threshold, ok := passing[sub.AssignmentID]
		if !ok || sub.ScorePercent == nil {
			continue
		}
		if *sub.ScorePercent < threshold {
			count++
		}
	}
	return count
}

func capAdd(v, max int) int {
	if v > max {
		return max
	}
	return v
}

func reasonText(reasons []string) string {
	if len(reasons) == 0 {
		return "engagement risk detected"
	}
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return strings.Join(reasons, ", ")
}
