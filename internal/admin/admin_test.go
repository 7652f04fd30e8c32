package admin

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/it-projects-llc/gcs-settings/param"
	"github.com/it-projects-llc/gcs-settings/settings"
	"github.com/it-projects-llc/gcs-settings/storage/backend"
	"github.com/it-projects-llc/gcs-settings/storage/backend/gcs"
	"github.com/it-projects-llc/gcs-settings/test"

	"github.com/go-kit/kit/log"
)

const serviceAccount = `{"type":"service_account","project_id":"odoo"}`

type recordingBackend struct {
	keys     []string
	payloads []string
}

func (b *recordingBackend) Ping(ctx context.Context) error { return nil }

func (b *recordingBackend) Put(ctx context.Context, p string, r io.Reader) error {
	content, err := ioutil.ReadAll(r)
	if err != nil {
		return err
	}

	b.keys = append(b.keys, p)
	b.payloads = append(b.payloads, string(content))

	return nil
}

func (b *recordingBackend) Close() error { return nil }

func newTestAdmin(t *testing.T, cfg Config, opts ...settings.Option) *Admin {
	t.Helper()

	var logger log.Logger
	if testing.Verbose() {
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	} else {
		logger = log.NewNopLogger()
	}

	a, err := New(logger, cfg, opts...)
	test.Ok(t, err)

	return a
}

func strPtr(s string) *string { return &s }

func TestShowEmpty(t *testing.T) {
	a := newTestAdmin(t, Config{ParamStore: param.Memory})

	var buf bytes.Buffer
	test.Ok(t, a.Show(&buf, false))
	test.Equals(t, "credentials: <not set>\nbucket: <not set>\n", buf.String())
}

func TestSaveAndShow(t *testing.T) {
	a := newTestAdmin(t, Config{ParamStore: param.Memory})

	test.Ok(t, a.Save(Form{Credentials: strPtr("e30="), Bucket: strPtr("attachments")}))

	var buf bytes.Buffer
	test.Ok(t, a.Show(&buf, false))
	test.Equals(t, "credentials: stored (4 B, base64)\nbucket: attachments\n", buf.String())

	buf.Reset()
	test.Ok(t, a.Show(&buf, true))
	test.Equals(t, "credentials: e30=\nbucket: attachments\n", buf.String())
}

func TestSaveKeepsUnsubmittedFields(t *testing.T) {
	a := newTestAdmin(t, Config{ParamStore: param.Memory})

	test.Ok(t, a.Save(Form{Credentials: strPtr("e30="), Bucket: strPtr("attachments")}))
	test.Ok(t, a.Save(Form{Bucket: strPtr("other")}))

	v, err := a.Resolver.LoadView()
	test.Ok(t, err)
	test.Equals(t, settings.View{Credentials: "e30=", Bucket: "other"}, v)
}

func TestShowEnvironment(t *testing.T) {
	a := newTestAdmin(t, Config{
		ParamStore: param.Memory,
		Settings:   settings.Config{CredentialsFile: "/etc/gcs/credentials.json", Bucket: "from-env"},
	})

	// Submitted values for environment fields are never persisted.
	test.Ok(t, a.Save(Form{Credentials: strPtr("e30="), Bucket: strPtr("attachments")}))

	var buf bytes.Buffer
	test.Ok(t, a.Show(&buf, true))
	test.Equals(t,
		"credentials: from environment (GOOGLE_APPLICATION_CREDENTIALS)\nbucket: from environment (GCS_BUCKETNAME)\n",
		buf.String(),
	)
}

func TestSavePersistsAcrossInstances(t *testing.T) {
	dir := test.CreateTempDir(t, "admin-persist")

	for _, kind := range []string{param.INI, param.YAML} {
		kind := kind
		t.Run(kind, func(t *testing.T) {
			cfg := Config{ParamStore: kind, ParamFile: filepath.Join(dir, "params."+kind)}

			test.Ok(t, newTestAdmin(t, cfg).Save(Form{Bucket: strPtr("attachments")}))

			v, err := newTestAdmin(t, cfg).Resolver.LoadView()
			test.Ok(t, err)
			test.Equals(t, settings.View{Credentials: settings.DefaultCredentials, Bucket: "attachments"}, v)
		})
	}
}

func TestCheck(t *testing.T) {
	creds := test.CreateTempFile(t, "admin-credentials", []byte(serviceAccount))
	rb := &recordingBackend{}

	a := newTestAdmin(t,
		Config{ParamStore: param.Memory, Settings: settings.Config{CredentialsFile: creds, Bucket: "attachments"}},
		settings.WithBackendFactory(func(context.Context, log.Logger, gcs.Config) (backend.Backend, error) { return rb, nil }),
	)

	test.Ok(t, a.Check(context.Background()))
	test.Equals(t, []string{"odoo/test"}, rb.keys)
	test.Equals(t, []string{"test"}, rb.payloads)
}

func TestCheckFails(t *testing.T) {
	a := newTestAdmin(t, Config{ParamStore: param.Memory})

	err := a.Check(context.Background())
	test.Expected(t, err, settings.ErrMissingCredentials)
	test.Assert(t, !errors.Is(err, settings.ErrMissingBucket), "unexpected bucket error: %v", err)
}

func TestNewUnknownStore(t *testing.T) {
	_, err := New(log.NewNopLogger(), Config{ParamStore: "etcd"})
	test.NotOk(t, err)
}
