package settings

import (
	"context"
	"time"

	"github.com/it-projects-llc/gcs-settings/storage/backend"
	"github.com/it-projects-llc/gcs-settings/storage/backend/gcs"

	"github.com/go-kit/kit/log"
)

// Config holds the environment-derived inputs of the resolver.
type Config struct {
	// CredentialsFile is the path to a service account JSON file, GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsFile string
	// Bucket is the bucket name, GCS_BUCKETNAME.
	Bucket string

	Endpoint   string
	ACL        string
	Encryption string

	StorageOperationTimeout time.Duration
}

// BackendFactory constructs a bucket backend. Construction stops when ctx is done.
type BackendFactory func(context.Context, log.Logger, gcs.Config) (backend.Backend, error)

// Option overrides behavior of Resolver.
type Option interface {
	apply(*options)
}

type options struct {
	newBackend BackendFactory
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

// WithBackendFactory sets the constructor used for bucket backends.
func WithBackendFactory(f BackendFactory) Option {
	return optionFunc(func(o *options) {
		o.newBackend = f
	})
}

func newGCSBackend(ctx context.Context, l log.Logger, c gcs.Config) (backend.Backend, error) {
	b, err := gcs.New(ctx, l, c)
	if err != nil {
		return nil, err
	}

	return b, nil
}
