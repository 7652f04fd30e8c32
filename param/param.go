// Package param provides the persisted key/value configuration parameter store.
package param

import (
	"errors"
	"fmt"

	"github.com/it-projects-llc/gcs-settings/param/backend/ini"
	"github.com/it-projects-llc/gcs-settings/param/backend/memory"
	"github.com/it-projects-llc/gcs-settings/param/backend/yaml"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

const (
	Memory = "memory"
	INI    = "ini"
	YAML   = "yaml"
)

// Store is a persisted key to string mapping.
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, and whether the key is present.
	Get(key string) (string, bool, error)

	// Set stores value under key.
	Set(key, value string) error
}

// GetDefault returns the value stored under key, or def if the key is absent.
func GetDefault(s Store, key, def string) (string, error) {
	v, ok, err := s.Get(key)
	if err != nil {
		return "", fmt.Errorf("get parameter <%s> %w", key, err)
	}

	if !ok {
		return def, nil
	}

	return v, nil
}

// FromConfig creates new Store by initializing corresponding backend using given configuration.
func FromConfig(l log.Logger, backendType string, cfgs ...Config) (Store, error) {
	configs := Configs{}
	for _, c := range cfgs {
		c.Apply(&configs)
	}

	var (
		s   Store
		err error
	)

	switch backendType {
	case Memory:
		level.Warn(l).Log("msg", "using memory as parameter store, values are lost on exit")
		s = memory.New()
	case INI:
		level.Debug(l).Log("msg", "using ini file as parameter store", "path", configs.INI.Path)
		s, err = ini.New(log.With(l, "params", INI), configs.INI)
	case YAML:
		level.Debug(l).Log("msg", "using yaml file as parameter store", "path", configs.YAML.Path)
		s, err = yaml.New(log.With(l, "params", YAML), configs.YAML)
	default:
		return nil, errors.New("unknown parameter store")
	}

	if err != nil {
		return nil, fmt.Errorf("initialize parameter store %w", err)
	}

	return s, nil
}
