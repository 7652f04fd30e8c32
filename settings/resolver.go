// Package settings resolves Google Cloud Storage credentials and bucket name from
// environment overrides and the configuration parameter store, and verifies them.
package settings

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/it-projects-llc/gcs-settings/param"
	"github.com/it-projects-llc/gcs-settings/storage"
	"github.com/it-projects-llc/gcs-settings/storage/backend"
	"github.com/it-projects-llc/gcs-settings/storage/backend/gcs"

	gcstorage "cloud.google.com/go/storage"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Connectivity check object.
const (
	CheckKey     = "odoo/test"
	CheckPayload = "test"
)

// Resolver determines effective settings. It holds no state besides its inputs;
// every call reads the store afresh and builds a new client.
type Resolver struct {
	logger log.Logger

	store       param.Store
	cfg         Config
	credentials Setting
	bucket      Setting

	newBackend BackendFactory
}

// New creates a resolver reading parameters from store, with cfg carrying environment overrides.
func New(l log.Logger, store param.Store, cfg Config, opts ...Option) *Resolver {
	o := options{newBackend: newGCSBackend}
	for _, opt := range opts {
		opt.apply(&o)
	}

	return &Resolver{
		logger:      log.With(l, "component", "settings"),
		store:       store,
		cfg:         cfg,
		credentials: Setting{Env: CredentialsEnv, Key: CredentialsKey, Override: cfg.CredentialsFile},
		bucket:      Setting{Env: BucketEnv, Key: BucketKey, Override: cfg.Bucket},
		newBackend:  o.newBackend,
	}
}

// ResolveCredentials returns the service account JSON document.
// An environment credentials file is read as is; a stored parameter is base64 decoded.
func (r *Resolver) ResolveCredentials() (json.RawMessage, error) {
	v, err := r.credentials.Resolve(r.store)
	if err != nil {
		return nil, fmt.Errorf("resolve credentials %w", err)
	}

	var content []byte
	if r.credentials.InEnv() {
		content, err = ioutil.ReadFile(v)
		if err != nil {
			return nil, fmt.Errorf("read credentials file <%s> %w", v, err)
		}
	} else {
		content, err = base64.StdEncoding.DecodeString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("decode stored credentials %w", err)
		}
	}

	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, ErrMissingCredentials
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse credentials %w", err)
	}

	level.Debug(r.logger).Log("msg", "credentials resolved", "in_env", r.credentials.InEnv(), "size", humanize.Bytes(uint64(len(content))))

	return json.RawMessage(content), nil
}

// ResolveBucketName returns the bucket name.
func (r *Resolver) ResolveBucketName() (string, error) {
	name, err := r.bucket.Resolve(r.store)
	if err != nil {
		return "", fmt.Errorf("resolve bucket %w", err)
	}

	if name == "" {
		return "", ErrMissingBucket
	}

	return name, nil
}

// Client creates a new storage client from the effective credentials.
// The caller owns the client and must close it.
func (r *Resolver) Client(ctx context.Context) (*gcstorage.Client, error) {
	creds, err := r.ResolveCredentials()
	if err != nil {
		return nil, err
	}

	return gcs.NewClient(ctx, creds, r.cfg.Endpoint)
}

// Bucket returns a handle to the effective bucket after looking it up.
// The caller must close the handle.
func (r *Resolver) Bucket(ctx context.Context) (*storage.Storage, error) {
	creds, err := r.ResolveCredentials()
	if err != nil {
		return nil, err
	}

	name, err := r.ResolveBucketName()
	if err != nil {
		return nil, err
	}

	b, err := r.newBackend(ctx, log.With(r.logger, "backend", backend.GCS), gcs.Config{
		Bucket:      name,
		Credentials: creds,
		ACL:         r.cfg.ACL,
		Encryption:  r.cfg.Encryption,
		Endpoint:    r.cfg.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize backend %w", err)
	}

	s := storage.New(b, r.cfg.StorageOperationTimeout)
	if err := s.Ping(ctx); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Check uploads the test payload to the effective bucket.
// The object is overwritten on every call and never removed.
func (r *Resolver) Check(ctx context.Context) error {
	s, err := r.Bucket(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Put(ctx, CheckKey, strings.NewReader(CheckPayload))
}
