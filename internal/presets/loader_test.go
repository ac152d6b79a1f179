package presets

import (
	"os"
	"path/filepath"
	"testing"
)

func writePresets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writePresets(t, `---
- name: modern-classics
  description: Well rated films since 2000
  query: ratingFrom=7.5&ratingTo=10&yearFrom=2000&yearTo=2026
- name: dramas
  query: genres=драма
`)

	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(config) != 2 {
		t.Fatalf("Load() returned %d entries, want 2", len(config))
	}
	if config[0].Name != "modern-classics" || config[1].Query != "genres=драма" {
		t.Errorf("Load() = %+v", config)
	}
}

func TestLoaderLoadExpandsVariables(t *testing.T) {
	t.Setenv("MARQUEE_TEST_FLOOR", "1995")
	path := writePresets(t, `- name: nineties
  query: yearFrom=${MARQUEE_TEST_FLOOR}&yearTo=1999${MARQUEE_TEST_UNSET}
`)

	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := config[0].Query; got != "yearFrom=1995&yearTo=1999" {
		t.Errorf("Query = %q, want yearFrom=1995&yearTo=1999", got)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	_, err := NewLoader("/nonexistent/path/presets.yaml").Load()
	if err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	path := writePresets(t, "name: [unterminated")
	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Load() with invalid yaml should return error")
	}
}
