// Package app wires the progression engine's use cases to injected
// repositories. The engine itself holds no mutable state; every invocation is
// an independent request-scoped computation, and cross-request coordination is
// delegated to the store's upsert and unique-constraint guarantees.
package app

import (
	"context"
	"time"

	"progression-service/internal/cert"
	"progression-service/internal/domain"
)

// QuizRepository loads quiz content for a module (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, moduleID string) (domain.QuizPayload, error)
}

// CatalogRepository reads users, courses, paths, and assignments. The engine
// never writes catalog data.
type CatalogRepository interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
	GetCourse(ctx context.Context, courseID string) (domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	ListCourseModuleIDs(ctx context.Context, courseID string) ([]string, error)
	GetLearningPath(ctx context.Context, pathID string) (domain.LearningPath, error)
	ListLearningPaths(ctx context.Context) ([]domain.LearningPath, error)
	ListPathCourses(ctx context.Context, pathID string) ([]domain.PathCourse, error)
	ListPublishedAssignments(ctx context.Context, courseID string) ([]domain.Assignment, error)
}

// ProgressRepository stores per-module progress and graded attempts.
// UpsertModuleProgress merges into the single (user, module) row: completed
// is sticky, watch time accumulates the delta, last-watched takes the max.
type ProgressRepository interface {
	UpsertModuleProgress(ctx context.Context, p domain.ModuleProgress) (domain.ModuleProgress, error)
	ListModuleProgress(ctx context.Context, userID string, moduleIDs []string) ([]domain.ModuleProgress, error)
	ListCourseProgress(ctx context.Context, moduleIDs []string) ([]domain.ModuleProgress, error)
	NextAttemptNumber(ctx context.Context, userID, moduleID string) (int, error)
	InsertAttempt(ctx context.Context, a domain.QuizAttempt) error
	ListAttempts(ctx context.Context, userID, moduleID string) ([]domain.QuizAttempt, error)
}

// PathRepository stores recomputed learning-path aggregates, one row per
// (path, user).
type PathRepository interface {
	UpsertPathProgress(ctx context.Context, p domain.LearningPathProgress) (domain.LearningPathProgress, error)
	GetPathProgress(ctx context.Context, pathID, userID string) (domain.LearningPathProgress, bool, error)
	ListUserPathProgress(ctx context.Context, userID string) ([]domain.LearningPathProgress, error)
}

// SubmissionRepository reads assignment submissions; grading them is another
// system's job.
type SubmissionRepository interface {
	ListUserSubmissions(ctx context.Context, userID string, assignmentIDs []string) ([]domain.Submission, error)
	ListSubmissions(ctx context.Context, assignmentIDs []string) ([]domain.Submission, error)
}

// InterventionRepository stores staff-managed cases opened against risk
// signals.
type InterventionRepository interface {
	Create(ctx context.Context, iv domain.Intervention) (domain.Intervention, error)
	Update(ctx context.Context, iv domain.Intervention) (domain.Intervention, error)
	Get(ctx context.Context, id string) (domain.Intervention, bool, error)
	ListOpen(ctx context.Context) ([]domain.Intervention, error)
}

// ProgressionService contains the engine's use cases.
type ProgressionService struct {
	quizzes       QuizRepository
	catalog       CatalogRepository
	progress      ProgressRepository
	paths         PathRepository
	submissions   SubmissionRepository
	interventions InterventionRepository
	issuer        *cert.Issuer
	passThreshold int
	now           func() time.Time
}

func NewProgressionService(
	quizzes QuizRepository,
	catalog CatalogRepository,
	progressRepo ProgressRepository,
	paths PathRepository,
	submissions SubmissionRepository,
	interventions InterventionRepository,
	issuer *cert.Issuer,
	passThreshold int,
) *ProgressionService {
	if passThreshold <= 0 || passThreshold > 100 {
		passThreshold = 70
	}
	return &ProgressionService{
		quizzes:       quizzes,
		catalog:       catalog,
		progress:      progressRepo,
		paths:         paths,
		submissions:   submissions,
		interventions: interventions,
		issuer:        issuer,
		passThreshold: passThreshold,
		now:           time.Now,
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *ProgressionService) WithClock(now func() time.Time) *ProgressionService {
	s.now = now
	return s
}
