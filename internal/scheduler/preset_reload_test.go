package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/presets"
)

func testBounds() domain.Bounds {
	return domain.NewBounds(1900, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestPresetReloader_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	writeFile(t, path, `- name: top
  query: ratingFrom=8&ratingTo=10
- name: broken
  query: ratingFrom=9&ratingTo=1
`)

	registry := presets.NewRegistry()
	pr := NewPresetReloader(path, registry, testBounds(), logger.NewNop(), 0, make(chan struct{}, 1))

	if err := pr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if registry.Count() != 1 {
		t.Fatalf("registry has %d presets, want 1", registry.Count())
	}

	writeFile(t, path, `- name: broken
  query: ratingFrom=x
`)
	if err := pr.Reload(context.Background()); err == nil {
		t.Error("Reload() of a file without usable presets should fail")
	}
	if _, ok := registry.Get("top"); !ok {
		t.Error("failed reload should keep the previous presets")
	}
}

func TestPresetReloader_ManualTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	writeFile(t, path, `- name: first
  query: genres=drama
`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := presets.NewRegistry()
	trigger := make(chan struct{}, 1)
	pr := NewPresetReloader(path, registry, testBounds(), logger.NewNop(), 0, trigger)
	if err := pr.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer pr.Stop()

	writeFile(t, path, `- name: first
  query: genres=drama
- name: second
  query: genres=comedy
`)
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for registry.Count() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("registry has %d presets after manual trigger, want 2", registry.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPresetReloader_StartFailsWithoutFile(t *testing.T) {
	pr := NewPresetReloader("/nonexistent/presets.yaml", presets.NewRegistry(), testBounds(), logger.NewNop(), time.Minute, make(chan struct{}, 1))
	if err := pr.Start(context.Background()); err == nil {
		t.Error("Start() without a presets file should fail")
	}
}
