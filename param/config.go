package param

import (
	"github.com/it-projects-llc/gcs-settings/param/backend/ini"
	"github.com/it-projects-llc/gcs-settings/param/backend/yaml"
)

type Configs struct {
	INI  ini.Config
	YAML yaml.Config
}

// Config configures behavior of Store.
type Config interface {
	Apply(*Configs)
}

type configFunc func(*Configs)

func (f configFunc) Apply(c *Configs) {
	f(c)
}

// WithINI sets the ini file store configuration.
func WithINI(cfg ini.Config) Config {
	return configFunc(func(c *Configs) {
		c.INI = cfg
	})
}

// WithYAML sets the yaml file store configuration.
func WithYAML(cfg yaml.Config) Config {
	return configFunc(func(c *Configs) {
		c.YAML = cfg
	})
}
