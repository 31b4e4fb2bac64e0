// Package progress rolls raw per-module completion records up to course and
// learning-path level. Everything here is a pure function over current state;
// aggregates are always recomputed fresh, never patched incrementally, so the
// stored rollup can never drift from the underlying rows.
package progress

import (
	"math"

	"progression-service/internal/domain"
)

// IsCourseComplete reports whether every module of the course is in the
// completed set. A course with zero modules is never complete; an empty
// course must not become certificate-eligible by vacuous truth.
func IsCourseComplete(moduleIDs []string, completed map[string]bool) bool {
	if len(moduleIDs) == 0 {
		return false
	}
	for _, id := range moduleIDs {
		if !completed[id] {
			return false
		}
	}
	return true
}

// PathAggregate is the freshly computed rollup for one user on one path.
type PathAggregate struct {
	CompletedCourses  int
	TotalCourses      int
	CompletionPercent int
	Status            string
}

// ComputePathProgress counts required courses only. Percent is 0 when the
// path has no required courses; status is completed exactly at 100%, enrolled
// otherwise. Paused is a stored override applied elsewhere, never derived.
func ComputePathProgress(requiredCourseIDs []string, completeByCourse map[string]bool) PathAggregate {
	agg := PathAggregate{
		TotalCourses: len(requiredCourseIDs),
		Status:       domain.PathStatusEnrolled,
	}
	for _, id := range requiredCourseIDs {
		if completeByCourse[id] {
			agg.CompletedCourses++
		}
	}
	if agg.TotalCourses > 0 {
		agg.CompletionPercent = int(math.Round(100 * float64(agg.CompletedCourses) / float64(agg.TotalCourses)))
	}
	if agg.TotalCourses > 0 && agg.CompletionPercent == 100 {
		agg.Status = domain.PathStatusCompleted
	}
	return agg
}

// CompletionPercent is the module-level completion ratio for a course,
// rounded to an integer. Zero modules yields zero.
func CompletionPercent(moduleIDs []string, completed map[string]bool) int {
	if len(moduleIDs) == 0 {
		return 0
	}
	done := 0
	for _, id := range moduleIDs {
		if completed[id] {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(moduleIDs))))
}
