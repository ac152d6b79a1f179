package engine

import (
	"sort"
	"sync"

	"github.com/MrSnakeDoc/marquee/internal/domain"
)

// Snapshot is a read-only copy of everything a renderer needs.
// Version grows with every published change, so late deliveries can be dropped.
type Snapshot struct {
	Version    uint64         `json:"version"`
	Generation uint64         `json:"generation"`
	Items      []domain.Movie `json:"items"`
	Cursor     int            `json:"cursor"`
	Exhausted  bool           `json:"exhausted"`
	Total      int            `json:"total"`
	Vocabulary []string       `json:"vocabulary"`
	Filter     domain.Filter  `json:"filter"`
	Bookmarks  []domain.Movie `json:"bookmarks"`
	Loading    bool           `json:"loading"`
	Selected   *domain.Movie  `json:"selected,omitempty"`
	LastError  string         `json:"lastError,omitempty"`
}

// Listener receives snapshots. It must not block for long and must not call
// back into mutating Engine operations synchronously.
type Listener func(Snapshot)

type subscribers struct {
	mu   sync.Mutex
	next uint64
	fns  map[uint64]Listener
}

func (s *subscribers) add(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[uint64]Listener)
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

// notify calls every listener in subscription order.
func (s *subscribers) notify(snap Snapshot) {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.fns[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
