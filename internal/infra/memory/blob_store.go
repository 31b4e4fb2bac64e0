package memory

import (
	"context"
	"io"
	"sync"
)

// BlobStore keeps rendered documents in memory and returns mem:// URLs.
// Useful for tests and the no-storage dev mode.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

func (s *BlobStore) Put(_ context.Context, key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.blobs[key] = data
	s.mu.Unlock()
	return "mem://" + key, nil
}

// Get is test-only access to a stored blob.
func (s *BlobStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	return data, ok
}
