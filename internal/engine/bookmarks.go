package engine

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/favorites"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

// ConfirmFunc is the yes/no gate consulted before a bookmark is added.
type ConfirmFunc func(ctx context.Context, m domain.Movie) (bool, error)

// Confirmed is a ConfirmFunc that always agrees.
func Confirmed(context.Context, domain.Movie) (bool, error) { return true, nil }

// AddOutcome tells what Add did.
type AddOutcome int

const (
	Added AddOutcome = iota
	AlreadyPresent
	Declined
)

func (o AddOutcome) String() string {
	switch o {
	case Added:
		return "added"
	case AlreadyPresent:
		return "already_present"
	case Declined:
		return "declined"
	default:
		return "unknown"
	}
}

// Bookmarks is the user's saved movies, unique by id and kept in insertion
// order. Every mutation rewrites the persisted copy.
type Bookmarks struct {
	mu    sync.Mutex
	slot  favorites.Slot
	items []domain.Movie
	log   logger.Logger
}

// LoadBookmarks reads the persisted list once. A read or decode failure is
// returned alongside an empty, usable manager.
func LoadBookmarks(ctx context.Context, slot favorites.Slot, log logger.Logger) (*Bookmarks, error) {
	if log == nil {
		log = logger.NewNop()
	}
	items, err := favorites.Load(ctx, slot)
	return &Bookmarks{slot: slot, items: dedupe(items), log: log}, err
}

// Add saves a copy of m after confirm agrees. Nothing is asked when m is
// already bookmarked.
func (b *Bookmarks) Add(ctx context.Context, m domain.Movie, confirm ConfirmFunc) (AddOutcome, error) {
	if b.Has(m.ID) {
		return AlreadyPresent, nil
	}
	if confirm == nil {
		return Declined, ErrConfirmationRequired
	}

	ok, err := confirm(ctx, m)
	if err != nil {
		return Declined, err
	}
	if !ok {
		return Declined, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// The gate runs unlocked, so check again.
	if b.indexLocked(m.ID) >= 0 {
		return AlreadyPresent, nil
	}
	b.items = append(b.items, m.Clone())

	if err := b.persistLocked(ctx); err != nil {
		return Added, &PersistenceError{Op: "add", Err: err}
	}
	return Added, nil
}

// Remove deletes the bookmark with id. An absent id is a no-op: no write, no error.
func (b *Bookmarks) Remove(ctx context.Context, id int64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	b.items = append(b.items[:i:i], b.items[i+1:]...)

	if err := b.persistLocked(ctx); err != nil {
		return true, &PersistenceError{Op: "remove", Err: err}
	}
	return true, nil
}

// List returns copies in insertion order.
func (b *Bookmarks) List() []domain.Movie {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := domain.CloneMovies(b.items)
	if out == nil {
		out = []domain.Movie{}
	}
	return out
}

func (b *Bookmarks) Has(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.indexLocked(id) >= 0
}

func (b *Bookmarks) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Bookmarks) indexLocked(id int64) int {
	for i, m := range b.items {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (b *Bookmarks) persistLocked(ctx context.Context) error {
	if err := favorites.Save(ctx, b.slot, b.items); err != nil {
		b.log.Error("failed to persist bookmarks",
			logger.Int("count", len(b.items)),
			logger.Error(err))
		return err
	}
	return nil
}

// dedupe keeps the first occurrence of each id.
func dedupe(items []domain.Movie) []domain.Movie {
	seen := make(map[int64]struct{}, len(items))
	out := make([]domain.Movie, 0, len(items))
	for _, m := range items {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
