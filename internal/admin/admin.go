// Package admin implements the actions of the storage settings screen.
package admin

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/it-projects-llc/gcs-settings/param"
	"github.com/it-projects-llc/gcs-settings/param/backend/ini"
	"github.com/it-projects-llc/gcs-settings/param/backend/yaml"
	"github.com/it-projects-llc/gcs-settings/settings"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Admin stores the resolver behind the settings screen.
type Admin struct {
	logger log.Logger

	Config   Config
	Resolver *settings.Resolver
}

// New initializes the parameter store and the resolver from the given config.
func New(l log.Logger, cfg Config, opts ...settings.Option) (*Admin, error) {
	if cfg.Debug {
		level.Debug(l).Log("msg", "DEBUG MODE enabled!")
		level.Debug(l).Log(
			"msg", "admin initialized with config",
			"param_store", cfg.ParamStore,
			"param_file", cfg.ParamFile,
			"credentials_file", cfg.Settings.CredentialsFile,
			"bucket", cfg.Settings.Bucket,
		)
	}

	store, err := param.FromConfig(l, cfg.ParamStore,
		param.WithINI(ini.Config{Path: cfg.ParamFile}),
		param.WithYAML(yaml.Config{Path: cfg.ParamFile}),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize, <%s> as parameter store %w", cfg.ParamStore, err)
	}

	return &Admin{
		logger:   l,
		Config:   cfg,
		Resolver: settings.New(l, store, cfg.Settings, opts...),
	}, nil
}

// Show writes the settings screen to w. Credentials are shown as their size unless reveal is set.
func (a *Admin) Show(w io.Writer, reveal bool) error {
	v, err := a.Resolver.LoadView()
	if err != nil {
		return fmt.Errorf("load settings %w", err)
	}

	creds := describe(v.Credentials)
	if reveal && v.Credentials != "" {
		creds = v.Credentials
	}

	if v.CredentialsInEnv {
		creds = fmt.Sprintf("from environment (%s)", settings.CredentialsEnv)
	}

	bucket := v.Bucket
	if bucket == "" {
		bucket = "<not set>"
	}

	if v.BucketInEnv {
		bucket = fmt.Sprintf("from environment (%s)", settings.BucketEnv)
	}

	if _, err := fmt.Fprintf(w, "credentials: %s\nbucket: %s\n", creds, bucket); err != nil {
		return fmt.Errorf("write settings %w", err)
	}

	return nil
}

// Save overlays the submitted form on the current settings and persists them.
func (a *Admin) Save(f Form) error {
	v, err := a.Resolver.LoadView()
	if err != nil {
		return fmt.Errorf("load settings %w", err)
	}

	if f.Credentials != nil {
		if v.CredentialsInEnv {
			level.Warn(a.logger).Log("msg", "credentials are set in environment, ignoring submitted value", "env", settings.CredentialsEnv)
		}

		v.Credentials = *f.Credentials
	}

	if f.Bucket != nil {
		if v.BucketInEnv {
			level.Warn(a.logger).Log("msg", "bucket is set in environment, ignoring submitted value", "env", settings.BucketEnv)
		}

		v.Bucket = *f.Bucket
	}

	if err := a.Resolver.SaveView(v); err != nil {
		return fmt.Errorf("save settings %w", err)
	}

	level.Info(a.logger).Log("msg", "settings saved")

	return nil
}

// Check runs the connectivity self-test.
func (a *Admin) Check(ctx context.Context) error {
	now := time.Now()

	level.Info(a.logger).Log("msg", "checking google cloud storage", "key", settings.CheckKey)

	if err := a.Resolver.Check(ctx); err != nil {
		return fmt.Errorf("check google cloud storage %w", err)
	}

	level.Info(a.logger).Log("msg", "google cloud storage works", "took", time.Since(now))

	return nil
}

func describe(creds string) string {
	if creds == "" {
		return "<not set>"
	}

	return fmt.Sprintf("stored (%s, base64)", humanize.Bytes(uint64(len(creds))))
}
