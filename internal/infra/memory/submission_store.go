package memory

import (
	"context"
	"sync"

	"progression-service/internal/domain"
)

// SubmissionStore is a read model of assignment submissions for tests and dev
// mode; grading writes happen in another system.
type SubmissionStore struct {
	mu   sync.RWMutex
	rows []domain.Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{}
}

func (s *SubmissionStore) Add(sub domain.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, sub)
}

func (s *SubmissionStore) ListUserSubmissions(_ context.Context, userID string, assignmentIDs []string) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := toSet(assignmentIDs)
	var out []domain.Submission
	for _, row := range s.rows {
		if row.UserID == userID && wanted[row.AssignmentID] {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *SubmissionStore) ListSubmissions(_ context.Context, assignmentIDs []string) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := toSet(assignmentIDs)
	var out []domain.Submission
	for _, row := range s.rows {
		if wanted[row.AssignmentID] {
			out = append(out, row)
		}
	}
	return out, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
