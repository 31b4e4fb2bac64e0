package memory

import (
	"context"
	"sync"

	"progression-service/internal/domain"
)

// CertificateStore keeps certificates in memory with insert-if-absent
// semantics matching the Postgres unique constraint on (user, course):
// whichever request inserts first wins, later inserts get the stored row.
type CertificateStore struct {
	mu      sync.RWMutex
	byPair  map[string]domain.Certificate
	byToken map[string]string
}

func NewCertificateStore() *CertificateStore {
	return &CertificateStore{
		byPair:  make(map[string]domain.Certificate),
		byToken: make(map[string]string),
	}
}

func certKey(userID, courseID string) string {
	return userID + "|" + courseID
}

func (s *CertificateStore) GetByUserCourse(_ context.Context, userID, courseID string) (domain.Certificate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cert, ok := s.byPair[certKey(userID, courseID)]
	return cert, ok, nil
}

func (s *CertificateStore) GetByToken(_ context.Context, token string) (domain.Certificate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.byToken[token]
	if !ok {
		return domain.Certificate{}, false, nil
	}
	cert, ok := s.byPair[key]
	return cert, ok, nil
}

func (s *CertificateStore) InsertIfAbsent(_ context.Context, cert domain.Certificate) (domain.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := certKey(cert.UserID, cert.CourseID)
	if existing, ok := s.byPair[key]; ok {
		return existing, nil
	}
	s.byPair[key] = cert
	s.byToken[cert.VerificationToken] = key
	return cert, nil
}
