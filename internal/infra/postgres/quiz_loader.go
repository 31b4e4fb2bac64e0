package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"progression-service/internal/domain"
)

// QuizLoader loads quiz payload JSONB from Postgres, keyed by module.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, moduleID string) (domain.QuizPayload, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE module_id=$1`, moduleID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizPayload{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizPayload{}, fmt.Errorf("load quiz: %w", err)
	}
	var payload domain.QuizPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.QuizPayload{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	payload.ModuleID = moduleID
	return payload, nil
}
