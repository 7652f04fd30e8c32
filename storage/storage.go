// Package storage bounds bucket operations of a backend by a timeout.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/it-projects-llc/gcs-settings/storage/backend"
)

// DefaultOperationTimeout is used when no timeout is given.
const DefaultOperationTimeout = 30 * time.Second

// Storage is a handle to a single remote bucket.
type Storage struct {
	b       backend.Backend
	timeout time.Duration
}

// New creates a new storage on top of the given backend.
func New(b backend.Backend, timeout time.Duration) *Storage {
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}

	return &Storage{b, timeout}
}

// Ping verifies that the bucket is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.b.Ping(ctx); err != nil {
		return fmt.Errorf("storage backend, Ping %w", err)
	}

	return nil
}

// Put writes contents of io.Reader to remote storage at given key location.
func (s *Storage) Put(ctx context.Context, p string, src io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.b.Put(ctx, p, src); err != nil {
		return fmt.Errorf("storage backend, Put %w", err)
	}

	return nil
}

// Close releases the backend.
func (s *Storage) Close() error {
	return s.b.Close()
}
