package gcs

// Config is a structure to store Cloud Storage backend configuration
type Config struct {
	Bucket string

	// Credentials is a service account JSON document.
	Credentials []byte

	ACL        string
	Encryption string
	Endpoint   string
}
