package backend

import (
	"context"
	"io"
)

const (
	GCS = "gcs"
)

// Backend implements operations against a single remote bucket.
type Backend interface {
	// Ping verifies that the bucket exists and is reachable with the configured credentials.
	Ping(ctx context.Context) error

	// Put uploads contents of the given reader to the object at key p.
	Put(ctx context.Context, p string, r io.Reader) error

	// Close releases the underlying client.
	Close() error
}
