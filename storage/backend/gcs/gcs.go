package gcs

import (
	"context"
	"fmt"
	"io"

	gcstorage "cloud.google.com/go/storage"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"google.golang.org/api/option"
)

// Backend is an Cloud Storage implementation of the Backend.
type Backend struct {
	logger log.Logger

	bucket     string
	acl        string
	encryption string
	client     *gcstorage.Client
}

// NewClient creates a Cloud Storage client authenticated with the given service account JSON.
func NewClient(ctx context.Context, credentials []byte, endpoint string) (*gcstorage.Client, error) {
	opts := []option.ClientOption{option.WithCredentialsJSON(credentials)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := gcstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client initialization %w", err)
	}

	return client, nil
}

// New creates a Google Cloud Storage backend.
func New(ctx context.Context, l log.Logger, c Config) (*Backend, error) {
	level.Debug(l).Log(
		"msg", "gc storage backend",
		"bucket", c.Bucket,
		"endpoint", c.Endpoint,
		"acl", c.ACL,
		"credentials", humanize.Bytes(uint64(len(c.Credentials))),
	)

	client, err := NewClient(ctx, c.Credentials, c.Endpoint)
	if err != nil {
		return nil, err
	}

	return &Backend{
		logger:     l,
		bucket:     c.Bucket,
		acl:        c.ACL,
		encryption: c.Encryption,
		client:     client,
	}, nil
}

// Ping looks the bucket up.
func (b *Backend) Ping(ctx context.Context) error {
	if _, err := b.client.Bucket(b.bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("get bucket <%s> %w", b.bucket, err)
	}

	return nil
}

// Put uploads contents of the given reader.
func (b *Backend) Put(ctx context.Context, p string, r io.Reader) error {
	obj := b.client.Bucket(b.bucket).Object(p)
	if b.encryption != "" {
		obj = obj.Key([]byte(b.encryption))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := obj.NewWriter(ctx)
	if b.acl != "" {
		w.PredefinedACL = b.acl
	}

	n, err := io.Copy(w, r)
	if err != nil {
		// Cancelling the context aborts the upload; Close only reports it.
		cancel()
		w.Close()

		return fmt.Errorf("copy the object %w", err)
	}

	// Upload errors surface on Close.
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload the object <%s> %w", p, err)
	}

	level.Debug(b.logger).Log("msg", "object uploaded", "bucket", b.bucket, "key", p, "size", humanize.Bytes(uint64(n)))

	return nil
}

// Close closes the underlying client.
func (b *Backend) Close() error {
	return b.client.Close()
}
