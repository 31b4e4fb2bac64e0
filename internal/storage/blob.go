package storage

import (
	"context"
	"io"
)

// BlobStore persists rendered artifacts (certificate documents) and returns a
// URL the artifact can be fetched from.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
}
