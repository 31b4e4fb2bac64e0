package memory

import (
	"context"
	"sort"
	"sync"

	"progression-service/internal/domain"
)

// ProgressStore keeps module progress and quiz attempts in process memory
// with the same merge semantics the Postgres upsert uses: one row per
// (user, module), completed is sticky, watch time accumulates, last-watched
// takes the max.
type ProgressStore struct {
	mu       sync.RWMutex
	rows     map[string]domain.ModuleProgress
	attempts map[string][]domain.QuizAttempt
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		rows:     make(map[string]domain.ModuleProgress),
		attempts: make(map[string][]domain.QuizAttempt),
	}
}

func progressKey(userID, moduleID string) string {
	return userID + "|" + moduleID
}

func (s *ProgressStore) UpsertModuleProgress(_ context.Context, p domain.ModuleProgress) (domain.ModuleProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := progressKey(p.UserID, p.ModuleID)
	existing, ok := s.rows[key]
	if !ok {
		s.rows[key] = p
		return p, nil
	}

	merged := existing
	if p.Completed && !merged.Completed {
		merged.Completed = true
		merged.CompletedAt = p.CompletedAt
	}
	merged.WatchTimeSeconds += p.WatchTimeSeconds
	if p.LastWatchedAt != nil && (merged.LastWatchedAt == nil || p.LastWatchedAt.After(*merged.LastWatchedAt)) {
		merged.LastWatchedAt = p.LastWatchedAt
	}
	s.rows[key] = merged
	return merged, nil
}

func (s *ProgressStore) ListModuleProgress(_ context.Context, userID string, moduleIDs []string) ([]domain.ModuleProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ModuleProgress, 0, len(moduleIDs))
	for _, moduleID := range moduleIDs {
		if row, ok := s.rows[progressKey(userID, moduleID)]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *ProgressStore) ListCourseProgress(_ context.Context, moduleIDs []string) ([]domain.ModuleProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(moduleIDs))
	for _, id := range moduleIDs {
		wanted[id] = true
	}
	var out []domain.ModuleProgress
	for _, row := range s.rows {
		if wanted[row.ModuleID] {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ModuleID < out[j].ModuleID
	})
	return out, nil
}

func (s *ProgressStore) NextAttemptNumber(_ context.Context, userID, moduleID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attempts[progressKey(userID, moduleID)]) + 1, nil
}

func (s *ProgressStore) InsertAttempt(_ context.Context, a domain.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey(a.UserID, a.ModuleID)
	s.attempts[key] = append(s.attempts[key], a)
	return nil
}

func (s *ProgressStore) ListAttempts(_ context.Context, userID, moduleID string) ([]domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.QuizAttempt(nil), s.attempts[progressKey(userID, moduleID)]...), nil
}
