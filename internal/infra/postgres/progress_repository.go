package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"progression-service/internal/domain"
)

// ProgressRepository stores module progress and quiz attempts. The
// (user, module) uniqueness lives in the table; concurrent writers converge
// through the ON CONFLICT merge instead of racing check-then-write.
type ProgressRepository struct {
	db *bun.DB
}

func NewProgressRepository(db *bun.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) UpsertModuleProgress(ctx context.Context, p domain.ModuleProgress) (domain.ModuleProgress, error) {
	row := moduleProgressRow{
		UserID:           p.UserID,
		ModuleID:         p.ModuleID,
		Completed:        p.Completed,
		CompletedAt:      p.CompletedAt,
		WatchTimeSeconds: p.WatchTimeSeconds,
		LastWatchedAt:    p.LastWatchedAt,
	}
	_, err := r.db.NewInsert().Model(&row).
		On("CONFLICT (user_id, module_id) DO UPDATE").
		Set("completed = module_progress.completed OR EXCLUDED.completed").
		Set("completed_at = COALESCE(module_progress.completed_at, EXCLUDED.completed_at)").
		Set("watch_time_seconds = module_progress.watch_time_seconds + EXCLUDED.watch_time_seconds").
		Set("last_watched_at = GREATEST(COALESCE(module_progress.last_watched_at, EXCLUDED.last_watched_at), COALESCE(EXCLUDED.last_watched_at, module_progress.last_watched_at))").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.ModuleProgress{}, fmt.Errorf("upsert module progress: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ProgressRepository) ListModuleProgress(ctx context.Context, userID string, moduleIDs []string) ([]domain.ModuleProgress, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}
	var rows []moduleProgressRow
	err := r.db.NewSelect().Model(&rows).
		Where("user_id = ?", userID).
		Where("module_id IN (?)", bun.In(moduleIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list module progress: %w", err)
	}
	return progressRowsToDomain(rows), nil
}

func (r *ProgressRepository) ListCourseProgress(ctx context.Context, moduleIDs []string) ([]domain.ModuleProgress, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}
	var rows []moduleProgressRow
	err := r.db.NewSelect().Model(&rows).
		Where("module_id IN (?)", bun.In(moduleIDs)).
		Order("user_id ASC", "module_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list course progress: %w", err)
	}
	return progressRowsToDomain(rows), nil
}

func (r *ProgressRepository) NextAttemptNumber(ctx context.Context, userID, moduleID string) (int, error) {
	var max int
	err := r.db.NewSelect().Model((*attemptRow)(nil)).
		ColumnExpr("COALESCE(MAX(attempt_number), 0)").
		Where("user_id = ?", userID).
		Where("module_id = ?", moduleID).
		Scan(ctx, &max)
	if err != nil {
		return 0, fmt.Errorf("next attempt number: %w", err)
	}
	return max + 1, nil
}

func (r *ProgressRepository) InsertAttempt(ctx context.Context, a domain.QuizAttempt) error {
	row := attemptRow{
		ID:              a.ID,
		UserID:          a.UserID,
		ModuleID:        a.ModuleID,
		AttemptNumber:   a.AttemptNumber,
		ScorePercent:    a.ScorePercent,
		CorrectAnswers:  a.CorrectAnswers,
		TotalQuestions:  a.TotalQuestions,
		Passed:          a.Passed,
		Answers:         a.Answers,
		StartedAt:       a.StartedAt,
		SubmittedAt:     a.SubmittedAt,
		DurationSeconds: a.DurationSeconds,
	}
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (r *ProgressRepository) ListAttempts(ctx context.Context, userID, moduleID string) ([]domain.QuizAttempt, error) {
	var rows []attemptRow
	err := r.db.NewSelect().Model(&rows).
		Where("user_id = ?", userID).
		Where("module_id = ?", moduleID).
		Order("attempt_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	attempts := make([]domain.QuizAttempt, 0, len(rows))
	for _, row := range rows {
		attempts = append(attempts, row.toDomain())
	}
	return attempts, nil
}

func progressRowsToDomain(rows []moduleProgressRow) []domain.ModuleProgress {
	out := make([]domain.ModuleProgress, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
