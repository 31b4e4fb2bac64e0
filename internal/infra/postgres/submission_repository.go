package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"progression-service/internal/domain"
)

// SubmissionRepository reads assignment submissions; grading happens in
// another system.
type SubmissionRepository struct {
	db *bun.DB
}

func NewSubmissionRepository(db *bun.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) ListUserSubmissions(ctx context.Context, userID string, assignmentIDs []string) ([]domain.Submission, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	var rows []submissionRow
	err := r.db.NewSelect().Model(&rows).
		Where("user_id = ?", userID).
		Where("assignment_id IN (?)", bun.In(assignmentIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user submissions: %w", err)
	}
	return submissionRowsToDomain(rows), nil
}

func (r *SubmissionRepository) ListSubmissions(ctx context.Context, assignmentIDs []string) ([]domain.Submission, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	var rows []submissionRow
	err := r.db.NewSelect().Model(&rows).
		Where("assignment_id IN (?)", bun.In(assignmentIDs)).
		Order("user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissionRowsToDomain(rows), nil
}

func submissionRowsToDomain(rows []submissionRow) []domain.Submission {
	out := make([]domain.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
