// Package settings persists toggle state that the user changes at runtime,
// kept apart from the hand-edited config file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings is the persisted state.
type Settings struct {
	DualSnapEnabled bool `yaml:"dual_snap_enabled"`
}

// Store reads and writes a settings file.
type Store struct {
	path string

	mu      sync.Mutex
	current Settings
}

// Open loads path. A missing file yields zero settings.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.current); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the current settings.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SaveDualSnap records the dual-snap toggle and writes the file.
func (s *Store) SaveDualSnap(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current
	next.DualSnapEnabled = enabled
	if err := s.writeLocked(next); err != nil {
		return err
	}
	s.current = next
	return nil
}

// writeLocked replaces the file atomically through a temp file in the same
// directory.
func (s *Store) writeLocked(v Settings) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
