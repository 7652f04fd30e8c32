package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"syscall"

	"github.com/it-projects-llc/gcs-settings/internal/admin"
	"github.com/it-projects-llc/gcs-settings/internal/logger"
	"github.com/it-projects-llc/gcs-settings/param"
	"github.com/it-projects-llc/gcs-settings/settings"
	"github.com/it-projects-llc/gcs-settings/storage"

	"github.com/go-kit/kit/log/level"
	"github.com/urfave/cli/v2"
)

var version = "0.0.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		l := logger.New(logger.LogLevelError, logger.LogFormatLogfmt)
		level.Error(l).Log("err", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "gcs-settings"
	app.Usage = "manage Google Cloud Storage settings of the attachment store"
	app.Version = version
	app.Flags = []cli.Flag{
		// Logging flags
		&cli.StringFlag{
			Name:    "log.level",
			Aliases: []string{"ll"},
			Usage:   "log filtering level. ('error', 'warn', 'info', 'debug')",
			Value:   logger.LogLevelInfo,
			EnvVars: []string{"LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log.format",
			Aliases: []string{"lf"},
			Usage:   "log format to use. ('logfmt', 'json')",
			Value:   logger.LogFormatLogfmt,
			EnvVars: []string{"LOG_FORMAT"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "debug",
			EnvVars: []string{"DEBUG"},
		},
		// Environment overrides
		&cli.StringFlag{
			Name:    "credentials-file",
			Usage:   "path to service account JSON, overrides stored credentials",
			EnvVars: []string{settings.CredentialsEnv},
		},
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "bucket name, overrides stored bucket",
			EnvVars: []string{settings.BucketEnv},
		},
		// Parameter store flags
		&cli.StringFlag{
			Name:    "param-store",
			Usage:   "parameter store to use ('ini', 'yaml', 'memory')",
			Value:   param.INI,
			EnvVars: []string{"GCS_SETTINGS_PARAM_STORE"},
		},
		&cli.StringFlag{
			Name:    "param-file",
			Usage:   "path of the parameter file",
			Value:   "gcs-settings.ini",
			EnvVars: []string{"GCS_SETTINGS_PARAM_FILE"},
		},
		// Storage flags
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "cloud storage endpoint, for emulators",
			EnvVars: []string{"GCS_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "acl",
			Usage:   "predefined acl of the uploaded test object",
			EnvVars: []string{"GCS_ACL"},
		},
		&cli.StringFlag{
			Name:    "encryption-key",
			Usage:   "customer-supplied AES-256 key of the uploaded test object",
			EnvVars: []string{"GCS_ENCRYPTION_KEY"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "timeout of a single storage operation",
			Value:   storage.DefaultOperationTimeout,
			EnvVars: []string{"GCS_TIMEOUT"},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "show",
			Usage: "show the effective settings",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "reveal",
					Usage: "print stored credentials instead of their size",
				},
			},
			Action: show,
		},
		{
			Name:  "save",
			Usage: "save settings that are not overridden by the environment",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "credentials",
					Usage: "base64 encoded service account JSON",
				},
				&cli.StringFlag{
					Name:  "credentials-json",
					Usage: "path to a service account JSON file to store base64 encoded",
				},
				&cli.StringFlag{
					Name:  "set-bucket",
					Usage: "bucket name to store",
				},
			},
			Action: save,
		},
		{
			Name:   "check",
			Usage:  "upload a test object to verify the settings",
			Action: check,
		},
	}

	return app
}

func newAdmin(c *cli.Context) (*admin.Admin, error) {
	l := logger.New(c.String("log.level"), c.String("log.format"))

	return admin.New(l, admin.Config{
		ParamStore: c.String("param-store"),
		ParamFile:  c.String("param-file"),
		Debug:      c.Bool("debug"),
		Settings: settings.Config{
			CredentialsFile:         c.String("credentials-file"),
			Bucket:                  c.String("bucket"),
			Endpoint:                c.String("endpoint"),
			ACL:                     c.String("acl"),
			Encryption:              c.String("encryption-key"),
			StorageOperationTimeout: c.Duration("timeout"),
		},
	})
}

func show(c *cli.Context) error {
	a, err := newAdmin(c)
	if err != nil {
		return err
	}

	return a.Show(c.App.Writer, c.Bool("reveal"))
}

func save(c *cli.Context) error {
	if c.IsSet("credentials") && c.IsSet("credentials-json") {
		return errors.New("credentials and credentials-json are mutually exclusive, please set only one of them")
	}

	a, err := newAdmin(c)
	if err != nil {
		return err
	}

	var f admin.Form

	if c.IsSet("credentials") {
		creds := c.String("credentials")
		f.Credentials = &creds
	}

	if c.IsSet("credentials-json") {
		p := c.String("credentials-json")

		content, err := ioutil.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read <%s> %w", p, err)
		}

		creds := base64.StdEncoding.EncodeToString(content)
		f.Credentials = &creds
	}

	if c.IsSet("set-bucket") {
		bucket := c.String("set-bucket")
		f.Bucket = &bucket
	}

	return a.Save(f)
}

func check(c *cli.Context) error {
	a, err := newAdmin(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	go func() {
		select {
		case <-sig:
			cancel()
		case <-ctx.Done():
		}
	}()

	return a.Check(ctx)
}
