package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"progression-service/internal/domain"
	"progression-service/internal/quiz"
)

// StartedAttempt is the client-facing view of a freshly built quiz session.
// The session JSON carries option IDs and labels only; correctness metadata
// never leaves the server.
type StartedAttempt struct {
	AttemptNumber int                `json:"attemptNumber"`
	Seed          string             `json:"seed"`
	StartedAt     time.Time          `json:"startedAt"`
	Session       domain.QuizSession `json:"session"`
}

// SubmittedAttempt pairs the graded result with the persisted attempt record.
type SubmittedAttempt struct {
	Result  domain.QuizResult  `json:"result"`
	Attempt domain.QuizAttempt `json:"attempt"`
}

// StartAttempt builds the randomized presentation for the user's next attempt
// on a module. Nothing is persisted here; the seed is all that is needed to
// rebuild the exact same session at submission time.
func (s *ProgressionService) StartAttempt(ctx context.Context, userID, moduleID string) (StartedAttempt, error) {
	payload, err := s.loadQuiz(ctx, moduleID)
	if err != nil {
		return StartedAttempt{}, err
	}

	attemptNumber, err := s.progress.NextAttemptNumber(ctx, userID, moduleID)
	if err != nil {
		return StartedAttempt{}, err
	}

	seed := AttemptSeed(userID, moduleID, attemptNumber)
	return StartedAttempt{
		AttemptNumber: attemptNumber,
		Seed:          seed,
		StartedAt:     s.now().UTC(),
		Session:       quiz.BuildSession(payload, seed),
	}, nil
}

// SubmitAttempt rebuilds the session from the submitted seed, validates the
// answers strictly, grades against the canonical key, and persists the
// attempt. A passing attempt marks the module completed.
func (s *ProgressionService) SubmitAttempt(ctx context.Context, userID, moduleID, seed string, answers map[string]string, startedAt time.Time) (SubmittedAttempt, error) {
	if seed == "" {
		return SubmittedAttempt{}, domain.NewValidationError("seed", "seed is required")
	}

	payload, err := s.loadQuiz(ctx, moduleID)
	if err != nil {
		return SubmittedAttempt{}, err
	}

	session := quiz.BuildSession(payload, seed)
	if err := quiz.ValidateAnswers(session, answers); err != nil {
		return SubmittedAttempt{}, err
	}

	result := quiz.GradeSession(session, answers, s.passThreshold)

	attemptNumber, err := s.progress.NextAttemptNumber(ctx, userID, moduleID)
	if err != nil {
		return SubmittedAttempt{}, err
	}

	submittedAt := s.now().UTC()
	if startedAt.IsZero() || startedAt.After(submittedAt) {
		startedAt = submittedAt
	}

	attempt := domain.QuizAttempt{
		ID:              uuid.NewString(),
		UserID:          userID,
		ModuleID:        moduleID,
		AttemptNumber:   attemptNumber,
		ScorePercent:    result.ScorePercent,
		CorrectAnswers:  result.CorrectAnswers,
		TotalQuestions:  result.TotalQuestions,
		Passed:          result.Passed,
		Answers:         answers,
		StartedAt:       startedAt.UTC(),
		SubmittedAt:     submittedAt,
		DurationSeconds: int(submittedAt.Sub(startedAt.UTC()).Seconds()),
	}
	if err := s.progress.InsertAttempt(ctx, attempt); err != nil {
		return SubmittedAttempt{}, err
	}

	if result.Passed {
		now := submittedAt
		if _, err := s.progress.UpsertModuleProgress(ctx, domain.ModuleProgress{
			UserID:      userID,
			ModuleID:    moduleID,
			Completed:   true,
			CompletedAt: &now,
		}); err != nil {
			return SubmittedAttempt{}, err
		}
	}

	return SubmittedAttempt{Result: result, Attempt: attempt}, nil
}

// RecordWatchProgress upserts watch-time for a module; the row is created on
// first interaction and merged thereafter.
func (s *ProgressionService) RecordWatchProgress(ctx context.Context, userID, moduleID string, seconds int) (domain.ModuleProgress, error) {
	if seconds < 0 {
		return domain.ModuleProgress{}, domain.NewValidationError("seconds", "must not be negative")
	}
	now := s.now().UTC()
	return s.progress.UpsertModuleProgress(ctx, domain.ModuleProgress{
		UserID:           userID,
		ModuleID:         moduleID,
		WatchTimeSeconds: seconds,
		LastWatchedAt:    &now,
	})
}

// ListAttempts returns the user's graded attempts for a module, oldest first.
func (s *ProgressionService) ListAttempts(ctx context.Context, userID, moduleID string) ([]domain.QuizAttempt, error) {
	return s.progress.ListAttempts(ctx, userID, moduleID)
}

// AttemptSeed is the conventional seed for a user's nth attempt on a module.
func AttemptSeed(userID, moduleID string, attemptNumber int) string {
	return fmt.Sprintf("%s:%s:%d", userID, moduleID, attemptNumber)
}

func (s *ProgressionService) loadQuiz(ctx context.Context, moduleID string) (domain.QuizPayload, error) {
	payload, err := s.quizzes.GetQuiz(ctx, moduleID)
	if err != nil {
		return domain.QuizPayload{}, err
	}
	// Persisted payloads are normalized permissively; authoring-time strictness
	// lives upstream of this engine.
	return quiz.Normalize(payload), nil
}
