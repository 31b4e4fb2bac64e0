package memory

import (
	"context"
	"sort"
	"sync"

	"progression-service/internal/domain"
)

// PathStore keeps learning-path aggregates in memory, one row per
// (path, user).
type PathStore struct {
	mu   sync.RWMutex
	rows map[string]domain.LearningPathProgress
}

func NewPathStore() *PathStore {
	return &PathStore{rows: make(map[string]domain.LearningPathProgress)}
}

func pathKey(pathID, userID string) string {
	return pathID + "|" + userID
}

func (s *PathStore) UpsertPathProgress(_ context.Context, p domain.LearningPathProgress) (domain.LearningPathProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[pathKey(p.LearningPathID, p.UserID)] = p
	return p, nil
}

func (s *PathStore) GetPathProgress(_ context.Context, pathID, userID string) (domain.LearningPathProgress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[pathKey(pathID, userID)]
	return row, ok, nil
}

func (s *PathStore) ListUserPathProgress(_ context.Context, userID string) ([]domain.LearningPathProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.LearningPathProgress
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LearningPathID < out[j].LearningPathID })
	return out, nil
}
