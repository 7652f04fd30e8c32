// Package yaml persists parameters as a flat yaml mapping.
package yaml

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	yamlv2 "gopkg.in/yaml.v2"
)

const (
	defaultDirMode  = 0755
	defaultFileMode = 0600
)

// Store is a yaml file implementation of the parameter store.
type Store struct {
	logger log.Logger

	mu   sync.Mutex
	path string
}

// New creates a yaml file store. The file does not need to exist yet.
func New(l log.Logger, c Config) (*Store, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("empty path given as parameter file")
	}

	absPath, err := filepath.Abs(filepath.Clean(c.Path))
	if err != nil {
		return nil, fmt.Errorf("build path %w", err)
	}

	if absPath == string(filepath.Separator) {
		return nil, fmt.Errorf("root path given, <%s> as parameter file", c.Path)
	}

	level.Debug(l).Log("msg", "yaml parameter store", "path", absPath)

	return &Store{logger: l, path: absPath}, nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}

	v, ok := values[key]

	return v, ok, nil
}

// Set stores value under key and rewrites the file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}

	values[key] = value

	out, err := yamlv2.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal parameters %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, os.FileMode(defaultDirMode)); err != nil {
		return fmt.Errorf("create directory <%s> %w", dir, err)
	}

	if err := ioutil.WriteFile(s.path, out, os.FileMode(defaultFileMode)); err != nil {
		return fmt.Errorf("write parameter file <%s> %w", s.path, err)
	}

	if err := os.Chmod(s.path, os.FileMode(defaultFileMode)); err != nil {
		return fmt.Errorf("restrict parameter file <%s> %w", s.path, err)
	}

	level.Debug(s.logger).Log("msg", "parameter stored", "key", key)

	return nil
}

func (s *Store) load() (map[string]string, error) {
	values := map[string]string{}

	content, err := ioutil.ReadFile(s.path)
	if os.IsNotExist(err) {
		return values, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read parameter file <%s> %w", s.path, err)
	}

	if err := yamlv2.Unmarshal(content, &values); err != nil {
		return nil, fmt.Errorf("parse parameter file <%s> %w", s.path, err)
	}

	// An empty document unmarshals to a nil map.
	if values == nil {
		values = map[string]string{}
	}

	return values, nil
}
