// Package presets persists the default preset selection and a
// uuid → name cache in a small JSON config file. The file is read once
// per run, mutated in memory and written back whole.
package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoDefault is returned when neither an explicit preset nor a saved
// default is available.
var ErrNoDefault = errors.New("no preset given and no default preset saved")

// Store holds the persisted preset configuration.
type Store struct {
	DefaultPreset string            `json:"default_preset"`
	Presets       map[string]string `json:"presets"`
}

// Load reads the config file at path. A missing file yields an empty
// store, not an error.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Store{Presets: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if s.Presets == nil {
		s.Presets = map[string]string{}
	}
	return &s, nil
}

// Save writes the store back to path atomically.
func (s *Store) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// Resolve picks the preset for a run: an explicit value wins, then the
// saved default, otherwise ErrNoDefault.
func (s *Store) Resolve(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if s.DefaultPreset != "" {
		return s.DefaultPreset, nil
	}
	return "", ErrNoDefault
}

// Name looks up the cached display name of a preset.
func (s *Store) Name(uuid string) (string, bool) {
	name, ok := s.Presets[uuid]
	return name, ok
}

// CacheName records a preset's display name.
func (s *Store) CacheName(uuid, name string) {
	s.Presets[uuid] = name
}

// SetDefault sets uuid as the default preset and caches its name.
func (s *Store) SetDefault(uuid, name string) {
	s.DefaultPreset = uuid
	s.Presets[uuid] = name
}
