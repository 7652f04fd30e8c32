package settings

import (
	"github.com/it-projects-llc/gcs-settings/param"
)

// Store keys and environment variables of the two settings.
const (
	CredentialsKey = "google_cloud_storage.credentials"
	BucketKey      = "google_cloud_storage.bucket"

	CredentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"
	BucketEnv      = "GCS_BUCKETNAME"
)

// Setting is a stored parameter that an environment value can override.
type Setting struct {
	// Env names the environment variable the override comes from.
	Env string
	// Key is the parameter store key.
	Key string
	// Override is the environment value captured at construction, empty if unset.
	Override string
}

// InEnv reports whether the environment overrides the stored parameter.
func (s Setting) InEnv() bool { return s.Override != "" }

// Resolve returns the override if present, otherwise the stored value.
// An absent parameter resolves to the empty string.
func (s Setting) Resolve(store param.Store) (string, error) {
	if s.InEnv() {
		return s.Override, nil
	}

	return param.GetDefault(store, s.Key, "")
}
