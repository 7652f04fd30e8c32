package settings

import (
	"encoding/base64"
	"fmt"

	"github.com/go-kit/kit/log/level"
)

// DefaultCredentials is stored when an empty credentials field is saved.
var DefaultCredentials = base64.StdEncoding.EncodeToString([]byte("{}"))

// View is the content of the settings screen.
type View struct {
	CredentialsInEnv bool
	BucketInEnv      bool

	// Credentials is the base64 encoded service account JSON.
	Credentials string
	Bucket      string
}

// LoadView fills the settings screen. Fields overridden by the environment are left empty.
func (r *Resolver) LoadView() (View, error) {
	v := View{
		CredentialsInEnv: r.credentials.InEnv(),
		BucketInEnv:      r.bucket.InEnv(),
	}

	var err error
	if !v.CredentialsInEnv {
		if v.Credentials, err = r.credentials.Resolve(r.store); err != nil {
			return View{}, fmt.Errorf("load credentials %w", err)
		}
	}

	if !v.BucketInEnv {
		if v.Bucket, err = r.bucket.Resolve(r.store); err != nil {
			return View{}, fmt.Errorf("load bucket %w", err)
		}
	}

	return v, nil
}

// SaveView persists the fields of v that are not overridden by the environment.
// A field is skipped when either v or the resolver marks it as environment-sourced.
func (r *Resolver) SaveView(v View) error {
	if !v.CredentialsInEnv && !r.credentials.InEnv() {
		creds := v.Credentials
		if creds == "" {
			creds = DefaultCredentials
		}

		if err := r.store.Set(CredentialsKey, creds); err != nil {
			return fmt.Errorf("save credentials %w", err)
		}
	} else {
		level.Debug(r.logger).Log("msg", "credentials come from environment, not saved", "env", r.credentials.Env)
	}

	if !v.BucketInEnv && !r.bucket.InEnv() {
		if err := r.store.Set(BucketKey, v.Bucket); err != nil {
			return fmt.Errorf("save bucket %w", err)
		}
	} else {
		level.Debug(r.logger).Log("msg", "bucket comes from environment, not saved", "env", r.bucket.Env)
	}

	return nil
}
