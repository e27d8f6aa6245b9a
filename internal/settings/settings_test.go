package settings

import (
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileIsEmpty(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("LoadFrom(missing): %v", err)
	}
	if s.DefaultTags != "" || s.SourcePath != "" {
		t.Fatalf("expected empty settings, got %+v", s)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s := &Settings{DefaultTags: "xinput,sdl", SourcePath: "/tmp/custom.txt"}
	if err := s.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.DefaultTags != s.DefaultTags || loaded.SourcePath != s.SourcePath {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", loaded, s)
	}
}
