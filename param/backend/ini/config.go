package ini

// Config is a structure to store ini file parameter store configuration.
type Config struct {
	Path string
}
