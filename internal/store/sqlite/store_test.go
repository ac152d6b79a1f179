package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/favorites"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", Options{BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReadEmpty(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Read(context.Background(), favorites.Key); !errors.Is(err, favorites.ErrSlotEmpty) {
		t.Fatalf("Read() error = %v, want ErrSlotEmpty", err)
	}
	ts, err := s.UpdatedAt(context.Background(), favorites.Key)
	if err != nil || !ts.IsZero() {
		t.Errorf("UpdatedAt() = (%v, %v), want zero", ts, err)
	}
}

func TestWriteOverwrites(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	if err := favorites.Save(ctx, s, []domain.Movie{{ID: 1, Name: "Heat"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := favorites.Save(ctx, s, []domain.Movie{{ID: 2, Name: "Ran"}, {ID: 3, Name: "Ikiru"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := favorites.Load(ctx, s)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 {
		t.Errorf("Load() = %+v, want the second write only", got)
	}

	ts, err := s.UpdatedAt(ctx, favorites.Key)
	if err != nil {
		t.Fatalf("UpdatedAt() error = %v", err)
	}
	if !ts.Equal(fixed) {
		t.Errorf("UpdatedAt() = %v, want %v", ts, fixed)
	}
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "marquee.db")
	s, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	ctx := context.Background()
	if err := s.Write(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Read(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Read() after reopen = (%q, %v), want v", got, err)
	}
}
