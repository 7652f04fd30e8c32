package admin

import "github.com/it-projects-llc/gcs-settings/settings"

// Config administration-specific parameters and secrets.
type Config struct {
	// ParamStore selects the parameter store backend, see param.Memory, param.INI, param.YAML.
	ParamStore string
	ParamFile  string

	Debug bool

	Settings settings.Config
}

// Form carries the fields submitted on save. Nil fields keep their current value.
type Form struct {
	Credentials *string
	Bucket      *string
}
