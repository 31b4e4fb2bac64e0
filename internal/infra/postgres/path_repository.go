package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"progression-service/internal/domain"
)

// PathRepository stores learning-path aggregates, one row per (path, user).
// The whole row is replaced on every recomputation; there is no incremental
// update path by design.
type PathRepository struct {
	db *bun.DB
}

func NewPathRepository(db *bun.DB) *PathRepository {
	return &PathRepository{db: db}
}

func (r *PathRepository) UpsertPathProgress(ctx context.Context, p domain.LearningPathProgress) (domain.LearningPathProgress, error) {
	row := pathProgressRow{
		LearningPathID:    p.LearningPathID,
		UserID:            p.UserID,
		CompletedCourses:  p.CompletedCourses,
		TotalCourses:      p.TotalCourses,
		CompletionPercent: p.CompletionPercent,
		Status:            p.Status,
		EnrolledAt:        p.EnrolledAt,
		CompletedAt:       p.CompletedAt,
	}
	_, err := r.db.NewInsert().Model(&row).
		On("CONFLICT (learning_path_id, user_id) DO UPDATE").
		Set("completed_courses = EXCLUDED.completed_courses").
		Set("total_courses = EXCLUDED.total_courses").
		Set("completion_percent = EXCLUDED.completion_percent").
		Set("status = EXCLUDED.status").
		Set("completed_at = EXCLUDED.completed_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.LearningPathProgress{}, fmt.Errorf("upsert path progress: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PathRepository) GetPathProgress(ctx context.Context, pathID, userID string) (domain.LearningPathProgress, bool, error) {
	var row pathProgressRow
	err := r.db.NewSelect().Model(&row).
		Where("learning_path_id = ?", pathID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LearningPathProgress{}, false, nil
	}
	if err != nil {
		return domain.LearningPathProgress{}, false, fmt.Errorf("get path progress: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PathRepository) ListUserPathProgress(ctx context.Context, userID string) ([]domain.LearningPathProgress, error) {
	var rows []pathProgressRow
	err := r.db.NewSelect().Model(&rows).
		Where("user_id = ?", userID).
		Order("learning_path_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list path progress: %w", err)
	}
	out := make([]domain.LearningPathProgress, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
