package presets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileGivesEmptyStore(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.DefaultPreset != "" || len(s.Presets) != 0 {
		t.Errorf("expected empty store, got %+v", s)
	}
}

func TestLoad_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for corrupt config")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aup", "config.json")

	s := &Store{Presets: map[string]string{}}
	s.SetDefault("uuid-1", "Podcast Stereo")
	s.CacheName("uuid-2", "Voice Only")

	if err := s.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	// No stray temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.DefaultPreset != "uuid-1" {
		t.Errorf("default = %q, want uuid-1", loaded.DefaultPreset)
	}
	if name, ok := loaded.Name("uuid-2"); !ok || name != "Voice Only" {
		t.Errorf("Name(uuid-2) = (%q, %v), want cached name", name, ok)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		explicit     string
		storeDefault string
		expected     string
		wantErr      bool
	}{
		{"explicit wins over default", "uuid-flag", "uuid-saved", "uuid-flag", false},
		{"default used when no explicit", "", "uuid-saved", "uuid-saved", false},
		{"explicit with no default", "uuid-flag", "", "uuid-flag", false},
		{"neither is an error", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Store{DefaultPreset: tt.storeDefault, Presets: map[string]string{}}
			got, err := s.Resolve(tt.explicit)
			if tt.wantErr {
				if !errors.Is(err, ErrNoDefault) {
					t.Fatalf("expected ErrNoDefault, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.explicit, got, tt.expected)
			}
		})
	}
}
