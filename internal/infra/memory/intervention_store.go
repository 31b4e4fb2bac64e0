package memory

import (
	"context"
	"sort"
	"sync"

	"progression-service/internal/domain"
)

// InterventionStore keeps staff intervention cases in memory.
type InterventionStore struct {
	mu   sync.RWMutex
	rows map[string]domain.Intervention
}

func NewInterventionStore() *InterventionStore {
	return &InterventionStore{rows: make(map[string]domain.Intervention)}
}

func (s *InterventionStore) Create(_ context.Context, iv domain.Intervention) (domain.Intervention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[iv.ID] = iv
	return iv, nil
}

func (s *InterventionStore) Update(_ context.Context, iv domain.Intervention) (domain.Intervention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[iv.ID]; !ok {
		return domain.Intervention{}, domain.ErrInterventionNotFound
	}
	s.rows[iv.ID] = iv
	return iv, nil
}

func (s *InterventionStore) Get(_ context.Context, id string) (domain.Intervention, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	iv, ok := s.rows[id]
	return iv, ok, nil
}

func (s *InterventionStore) ListOpen(_ context.Context) ([]domain.Intervention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Intervention
	for _, iv := range s.rows {
		if iv.Status == domain.InterventionOpen || iv.Status == domain.InterventionInProgress {
			out = append(out, iv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
