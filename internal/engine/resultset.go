package engine

import (
	"github.com/MrSnakeDoc/marquee/internal/domain"
)

// DefaultPageSize is the number of movies requested per page.
const DefaultPageSize = 50

// Request describes one page fetch handed out by ResultSet.Begin.
type Request struct {
	Generation uint64
	Filter     domain.Filter
	Page       int
	Limit      int
}

// MergeResult reports what a merge did to the result set.
type MergeResult struct {
	Stale      bool // response belonged to a superseded generation and was dropped
	Raw        int  // documents in the upstream page
	Rejected   int  // failed the display-quality gate
	Duplicates int  // already present in the result set
	Appended   int
	Exhausted  bool
}

// ResultSet is the paginated list for one filter generation.
//
// It performs no I/O and is not safe for concurrent use; the Engine guards it.
// Every Reset starts a new generation. Responses carry the generation they were
// requested for, and anything tagged with an older generation is discarded.
type ResultSet struct {
	pageSize   int
	generation uint64
	filter     domain.Filter

	items []domain.Movie
	ids   map[int64]struct{}

	cursor    int
	exhausted bool
	inFlight  bool
	total     int
	lastErr   error

	vocabulary  []string
	vocabFrozen bool
}

func NewResultSet(pageSize int, f domain.Filter) *ResultSet {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ResultSet{
		pageSize: pageSize,
		filter:   f.Clone(),
		items:    []domain.Movie{},
		ids:      make(map[int64]struct{}),
		cursor:   1,
	}
}

// Reset empties the list for filter f and starts a new generation.
// The genre vocabulary survives resets.
func (r *ResultSet) Reset(f domain.Filter) uint64 {
	r.generation++
	r.filter = f.Clone()
	r.items = []domain.Movie{}
	r.ids = make(map[int64]struct{})
	r.cursor = 1
	r.exhausted = false
	r.inFlight = false
	r.total = 0
	r.lastErr = nil
	return r.generation
}

// Begin hands out the next page request. It returns false when the set is
// exhausted or a request is already outstanding.
func (r *ResultSet) Begin() (Request, bool) {
	if r.exhausted || r.inFlight {
		return Request{}, false
	}
	r.inFlight = true
	return Request{
		Generation: r.generation,
		Filter:     r.filter.Clone(),
		Page:       r.cursor,
		Limit:      r.pageSize,
	}, true
}

// Merge folds a page into the set.
//
// Documents without a display name or poster are dropped, as are ids already
// present. Survivors are appended in upstream order. The set is exhausted when
// the upstream page came back short or the reported total has been reached.
func (r *ResultSet) Merge(gen uint64, p domain.Page) MergeResult {
	res := MergeResult{Raw: len(p.Docs)}
	if gen != r.generation {
		res.Stale = true
		return res
	}
	r.inFlight = false

	// The vocabulary is taken from the first page that names any genre.
	if !r.vocabFrozen {
		if v := collectGenres(p.Docs); len(v) > 0 {
			r.vocabulary = v
			r.vocabFrozen = true
		}
	}

	for _, m := range p.Docs {
		if !m.Displayable() {
			res.Rejected++
			continue
		}
		if _, dup := r.ids[m.ID]; dup {
			res.Duplicates++
			continue
		}
		r.ids[m.ID] = struct{}{}
		r.items = append(r.items, m.Clone())
		res.Appended++
	}

	r.cursor++
	r.total = p.Total
	r.exhausted = len(p.Docs) < r.pageSize || (p.Total > 0 && len(r.items) >= p.Total)
	res.Exhausted = r.exhausted
	return res
}

// Fail records a failed fetch. The set becomes exhausted until the next Reset.
// It returns false, and changes nothing, for a superseded generation.
func (r *ResultSet) Fail(gen uint64, err error) bool {
	if gen != r.generation {
		return false
	}
	r.inFlight = false
	r.exhausted = true
	r.lastErr = err
	return true
}

func (r *ResultSet) Generation() uint64 { return r.generation }
func (r *ResultSet) Len() int           { return len(r.items) }
func (r *ResultSet) InFlight() bool     { return r.inFlight }
func (r *ResultSet) Exhausted() bool    { return r.exhausted }
func (r *ResultSet) Cursor() int        { return r.cursor }
func (r *ResultSet) Err() error         { return r.lastErr }

// Find returns a copy of the movie with id, if present.
func (r *ResultSet) Find(id int64) (domain.Movie, bool) {
	if _, ok := r.ids[id]; !ok {
		return domain.Movie{}, false
	}
	for _, m := range r.items {
		if m.ID == id {
			return m.Clone(), true
		}
	}
	return domain.Movie{}, false
}

// View is a read-only copy of a ResultSet.
type View struct {
	Generation uint64
	Items      []domain.Movie
	Cursor     int
	Exhausted  bool
	InFlight   bool
	Total      int
	Vocabulary []string
	Err        error
}

func (r *ResultSet) View() View {
	return View{
		Generation: r.generation,
		Items:      domain.CloneMovies(r.items),
		Cursor:     r.cursor,
		Exhausted:  r.exhausted,
		InFlight:   r.inFlight,
		Total:      r.total,
		Vocabulary: append([]string{}, r.vocabulary...),
		Err:        r.lastErr,
	}
}

// collectGenres returns distinct genre names in first-seen order.
func collectGenres(docs []domain.Movie) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range docs {
		for _, name := range m.GenreNames() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
