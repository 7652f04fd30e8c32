package settings

// Error is a recognized configuration error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrMissingCredentials is returned when neither the environment nor the store yields credentials.
	ErrMissingCredentials = Error("No Google Cloud Storage credentials given")

	// ErrMissingBucket is returned when neither the environment nor the store yields a bucket name.
	ErrMissingBucket = Error("No Google Cloud Storage bucket given")
)
