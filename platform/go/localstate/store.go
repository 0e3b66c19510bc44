// Package localstate persists small key/value records for a single client
// process under a state directory, surviving restarts. It backs the CLI's
// session cache; it is not a shared or concurrent database.
package localstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoValue is returned by Get when no record exists for the key.
var ErrNoValue = errors.New("no value stored")

// Store is the persistence port used by the session store. Implementations
// must make Put atomic: a reader never observes a partially written value.
type Store interface {
	Put(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// FileStore keeps one file per key under Dir.
type FileStore struct {
	Dir string
}

// NewFileStore creates the state directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("state dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

// DefaultDir resolves the per-user state directory for the given app name.
func DefaultDir(app string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, app), nil
}

// Put writes the value via a temp file and rename, so the visible file is
// always a complete record.
func (s *FileStore) Put(key string, value []byte) error {
	path := s.path(key)

	tmp, err := os.CreateTemp(s.Dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

// Get returns the stored value, or ErrNoValue when the key has no record.
func (s *FileStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoValue
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the record; missing keys are not an error.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

var _ Store = (*FileStore)(nil)
