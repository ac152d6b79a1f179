package engine

import (
	"net/url"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/marquee/internal/domain"
)

// Location is the externally visible, shareable query of the current view.
type Location interface {
	Query() url.Values
	Replace(v url.Values)
}

// MemoryLocation is a Location held in memory.
type MemoryLocation struct {
	mu       sync.Mutex
	values   url.Values
	replaces int
}

// NewMemoryLocation parses raw ("a=1&b=2", with or without a leading "?").
func NewMemoryLocation(raw string) (*MemoryLocation, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return &MemoryLocation{values: url.Values{}}, err
	}
	return &MemoryLocation{values: v}, nil
}

func (l *MemoryLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneValues(l.values)
}

func (l *MemoryLocation) Replace(v url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = cloneValues(v)
	l.replaces++
}

// Replaces counts how many times the location was rewritten.
func (l *MemoryLocation) Replaces() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replaces
}

func (l *MemoryLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.values.Encode()
}

// filterKeys are the query parameters owned by the synchronizer.
var filterKeys = []string{
	domain.QueryGenres,
	domain.QueryRatingFrom,
	domain.QueryRatingTo,
	domain.QueryYearFrom,
	domain.QueryYearTo,
}

// Synchronizer maps the filter to and from a Location.
// Parameters it does not own are left untouched.
type Synchronizer struct {
	loc    Location
	bounds domain.Bounds
}

func NewSynchronizer(loc Location, b domain.Bounds) *Synchronizer {
	return &Synchronizer{loc: loc, bounds: b}
}

// Decode reads the filter currently described by the location.
// Axes that fail to parse fall back to their default and are reported in err.
func (s *Synchronizer) Decode() (domain.Filter, error) {
	return domain.DecodeQuery(s.loc.Query(), s.bounds)
}

// Publish writes f to the location, omitting default axes. The location is
// rewritten only if its encoded form would change; Publish reports whether it was.
func (s *Synchronizer) Publish(f domain.Filter) bool {
	current := s.loc.Query()

	next := cloneValues(current)
	for _, k := range filterKeys {
		next.Del(k)
	}
	for k, vs := range domain.EncodeQuery(f, s.bounds) {
		next[k] = vs
	}

	if next.Encode() == current.Encode() {
		return false
	}
	s.loc.Replace(next)
	return true
}

// Encoded returns the location's current query string.
func (s *Synchronizer) Encoded() string {
	return s.loc.Query().Encode()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
