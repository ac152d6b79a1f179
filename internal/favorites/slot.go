// Package favorites persists the bookmark list to a key-value slot.
package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/marquee/internal/domain"
)

// Key is the slot key holding the bookmark list.
const Key = "favorites"

// ErrSlotEmpty is returned by Slot.Read when nothing is stored under a key.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a durable key-value cell. Each call completes synchronously.
type Slot interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Load reads the bookmark list.
//
// An absent slot yields an empty list and no error. Content that cannot be
// decoded also yields an empty list, together with the decode error so the
// caller can log it.
func Load(ctx context.Context, s Slot) ([]domain.Movie, error) {
	data, err := s.Read(ctx, Key)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return []domain.Movie{}, nil
		}
		return []domain.Movie{}, fmt.Errorf("read %s: %w", Key, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []domain.Movie{}, nil
	}

	var movies []domain.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return []domain.Movie{}, fmt.Errorf("decode %s: %w", Key, err)
	}
	if movies == nil {
		movies = []domain.Movie{}
	}
	return movies, nil
}

// Save overwrites the bookmark list with movies.
func Save(ctx context.Context, s Slot, movies []domain.Movie) error {
	if movies == nil {
		movies = []domain.Movie{}
	}
	data, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("encode %s: %w", Key, err)
	}
	if err := s.Write(ctx, Key, data); err != nil {
		return fmt.Errorf("write %s: %w", Key, err)
	}
	return nil
}
