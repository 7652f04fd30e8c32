package yaml

// Config is a structure to store yaml file parameter store configuration.
type Config struct {
	Path string
}
