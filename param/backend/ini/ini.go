// Package ini persists parameters in an ini file.
//
// A dotted key such as "google_cloud_storage.bucket" is stored as key "bucket"
// in section [google_cloud_storage]; keys without a dot live in the default section.
package ini

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	goini "gopkg.in/ini.v1"
)

const (
	defaultDirMode  = 0755
	defaultFileMode = 0600
)

// Store is an ini file implementation of the parameter store.
type Store struct {
	logger log.Logger

	mu   sync.Mutex
	path string
}

// New creates an ini file store. The file does not need to exist yet.
func New(l log.Logger, c Config) (*Store, error) {
	if strings.TrimRight(path.Clean(c.Path), "/") == "" || c.Path == "" {
		return nil, fmt.Errorf("empty or root path given, <%s> as parameter file", c.Path)
	}

	absPath, err := filepath.Abs(filepath.Clean(c.Path))
	if err != nil {
		return nil, fmt.Errorf("build path %w", err)
	}

	level.Debug(l).Log("msg", "ini parameter store", "path", absPath)

	return &Store{logger: l, path: absPath}, nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return "", false, err
	}

	section, name := split(key)

	sec, err := f.GetSection(section)
	if err != nil || !sec.HasKey(name) {
		return "", false, nil
	}

	return sec.Key(name).String(), true, nil
}

// Set stores value under key and writes the file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}

	section, name := split(key)
	f.Section(section).Key(name).SetValue(value)

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, os.FileMode(defaultDirMode)); err != nil {
		return fmt.Errorf("create directory <%s> %w", dir, err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode parameters %w", err)
	}

	// Credentials are stored here, keep the file private.
	if err := ioutil.WriteFile(s.path, buf.Bytes(), os.FileMode(defaultFileMode)); err != nil {
		return fmt.Errorf("write parameter file <%s> %w", s.path, err)
	}

	if err := os.Chmod(s.path, os.FileMode(defaultFileMode)); err != nil {
		return fmt.Errorf("restrict parameter file <%s> %w", s.path, err)
	}

	level.Debug(s.logger).Log("msg", "parameter stored", "key", key)

	return nil
}

func (s *Store) load() (*goini.File, error) {
	f, err := goini.LoadSources(goini.LoadOptions{Loose: true, IgnoreInlineComment: true}, s.path)
	if err != nil {
		return nil, fmt.Errorf("read parameter file <%s> %w", s.path, err)
	}

	return f, nil
}

func split(key string) (section, name string) {
	i := strings.LastIndex(key, ".")
	if i < 0 {
		return goini.DefaultSection, key
	}

	return key[:i], key[i+1:]
}
