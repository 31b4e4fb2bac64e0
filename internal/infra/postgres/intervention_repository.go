package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"progression-service/internal/domain"
)

// InterventionRepository stores staff intervention cases.
type InterventionRepository struct {
	db *bun.DB
}

func NewInterventionRepository(db *bun.DB) *InterventionRepository {
	return &InterventionRepository{db: db}
}

func (r *InterventionRepository) Create(ctx context.Context, iv domain.Intervention) (domain.Intervention, error) {
	row := interventionToRow(iv)
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return domain.Intervention{}, fmt.Errorf("create intervention: %w", err)
	}
	return row.toDomain(), nil
}

func (r *InterventionRepository) Update(ctx context.Context, iv domain.Intervention) (domain.Intervention, error) {
	row := interventionToRow(iv)
	res, err := r.db.NewUpdate().Model(&row).WherePK().Exec(ctx)
	if err != nil {
		return domain.Intervention{}, fmt.Errorf("update intervention: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Intervention{}, domain.ErrInterventionNotFound
	}
	return row.toDomain(), nil
}

func (r *InterventionRepository) Get(ctx context.Context, id string) (domain.Intervention, bool, error) {
	var row interventionRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Intervention{}, false, nil
	}
	if err != nil {
		return domain.Intervention{}, false, fmt.Errorf("get intervention: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *InterventionRepository) ListOpen(ctx context.Context) ([]domain.Intervention, error) {
	var rows []interventionRow
	err := r.db.NewSelect().Model(&rows).
		Where("status IN (?)", bun.In([]string{domain.InterventionOpen, domain.InterventionInProgress})).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open interventions: %w", err)
	}
	out := make([]domain.Intervention, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func interventionToRow(iv domain.Intervention) interventionRow {
	return interventionRow{
		ID:             iv.ID,
		UserID:         iv.UserID,
		CourseID:       iv.CourseID,
		LearningPathID: iv.LearningPathID,
		RiskLevel:      iv.RiskLevel,
		RiskScore:      iv.RiskScore,
		Reason:         iv.Reason,
		AssignedTo:     iv.AssignedTo,
		Status:         iv.Status,
		ActionPlan:     iv.ActionPlan,
		DueAt:          iv.DueAt,
		CreatedAt:      iv.CreatedAt,
		ResolvedAt:     iv.ResolvedAt,
	}
}
