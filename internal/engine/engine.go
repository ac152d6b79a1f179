// Package engine owns the browsing state: the paginated result set, the
// active filter, the bookmark list and the shareable location. It is the only
// writer of that state; renderers observe it through snapshots.
package engine

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/favorites"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

// Catalog is the remote movie catalog.
type Catalog interface {
	FetchPage(ctx context.Context, f domain.Filter, b domain.Bounds, page, limit int) (domain.Page, error)
	FetchByID(ctx context.Context, id int64) (domain.Movie, error)
}

type Options struct {
	Catalog  Catalog
	Slot     favorites.Slot
	Location Location
	Bounds   domain.Bounds
	PageSize int
	Logger   logger.Logger
}

// Engine is constructed once per process and shared by reference.
//
// One mutex guards the state. It is never held across a catalog call, and
// listeners are notified after it is released.
type Engine struct {
	catalog  Catalog
	bounds   domain.Bounds
	pageSize int
	log      logger.Logger
	urls     *Synchronizer
	marks    *Bookmarks
	subs     subscribers

	mu            sync.Mutex
	filter        domain.Filter
	results       *ResultSet
	loaded        bool
	selected      *domain.Movie
	detailSeq     uint64
	detailLoading bool
	version       uint64
}

// New builds the engine and loads the persisted bookmarks. A bookmark list
// that cannot be read is logged and replaced by an empty one.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Catalog == nil {
		return nil, errors.New("engine: catalog is required")
	}
	if opts.Slot == nil {
		return nil, errors.New("engine: persistence slot is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	loc := opts.Location
	if loc == nil {
		loc = &MemoryLocation{}
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	marks, err := LoadBookmarks(ctx, opts.Slot, log)
	if err != nil {
		log.Warn("bookmarks could not be loaded, starting empty", logger.Error(err))
	} else {
		log.Info("bookmarks loaded", logger.Int("count", marks.Len()))
	}

	f := opts.Bounds.DefaultFilter()
	return &Engine{
		catalog:  opts.Catalog,
		bounds:   opts.Bounds,
		pageSize: pageSize,
		log:      log,
		urls:     NewSynchronizer(loc, opts.Bounds),
		marks:    marks,
		filter:   f,
		results:  NewResultSet(pageSize, f),
	}, nil
}

// Start seeds the filter from the location and makes exactly one initial fetch.
func (e *Engine) Start(ctx context.Context) error {
	fetched, err := e.Load(ctx)
	if err != nil || fetched {
		return err
	}
	return e.ResetAndFetchFirstPage(ctx)
}

// Load seeds the filter from the location. It runs once; later calls do
// nothing. A fetch is made only when the location describes a non-default
// filter, and Load reports whether it made one.
func (e *Engine) Load(ctx context.Context) (bool, error) {
	e.mu.Lock()
	if e.loaded {
		e.mu.Unlock()
		return false, nil
	}
	e.loaded = true
	e.mu.Unlock()

	f, err := e.urls.Decode()
	if err != nil {
		e.log.Warn("ignoring invalid location parameters", logger.Error(err))
	}
	if e.bounds.IsDefault(f) {
		e.log.Debug("location carries the default filter")
		return false, nil
	}

	e.log.Info("filter seeded from location", logger.String("query", domain.EncodeQuery(f, e.bounds).Encode()))
	return true, e.apply(ctx, replaceWith(f))
}

// ResetAndFetchFirstPage empties the list and fetches page 1 for the current
// filter. It is also the explicit retry after a failure.
func (e *Engine) ResetAndFetchFirstPage(ctx context.Context) error {
	e.mu.Lock()
	e.results.Reset(e.filter)
	req, _ := e.results.Begin()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.subs.notify(snap)
	return e.run(ctx, req)
}

// FetchNextPage fetches the page at the cursor. It does nothing when the list
// is exhausted or a page is already being fetched.
func (e *Engine) FetchNextPage(ctx context.Context) error {
	e.mu.Lock()
	req, ok := e.results.Begin()
	if !ok {
		e.mu.Unlock()
		return nil
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.subs.notify(snap)
	return e.run(ctx, req)
}

// SetRatingRange replaces the rating range and refetches from page 1.
func (e *Engine) SetRatingRange(ctx context.Context, r domain.RatingRange) error {
	if err := e.bounds.ValidateRating(r); err != nil {
		return err
	}
	return e.apply(ctx, func(f domain.Filter) domain.Filter {
		f.Rating = r
		return f
	})
}

// SetYearRange replaces the year range and refetches from page 1.
func (e *Engine) SetYearRange(ctx context.Context, r domain.YearRange) error {
	if err := e.bounds.ValidateYear(r); err != nil {
		return err
	}
	return e.apply(ctx, func(f domain.Filter) domain.Filter {
		f.Year = r
		return f
	})
}

// ToggleGenre selects name if unselected, unselects it otherwise, and
// refetches from page 1.
func (e *Engine) ToggleGenre(ctx context.Context, name string) error {
	if err := domain.ValidateGenre(name); err != nil {
		return err
	}
	return e.apply(ctx, func(f domain.Filter) domain.Filter {
		return f.WithGenreToggled(name)
	})
}

// ApplyFilter replaces the whole filter and refetches from page 1.
func (e *Engine) ApplyFilter(ctx context.Context, f domain.Filter) error {
	if err := e.bounds.Validate(f); err != nil {
		return err
	}
	f = f.Clone()
	genres := make([]string, 0, len(f.Genres))
	for _, g := range f.Genres {
		g = domain.NormalizeGenre(g)
		if !slices.Contains(genres, g) {
			genres = append(genres, g)
		}
	}
	f.Genres = genres
	return e.apply(ctx, replaceWith(f))
}

// replaceWith is the change that discards the current filter.
func replaceWith(f domain.Filter) func(domain.Filter) domain.Filter {
	return func(domain.Filter) domain.Filter { return f }
}

// apply derives the new filter from the current one under the lock.
func (e *Engine) apply(ctx context.Context, change func(domain.Filter) domain.Filter) error {
	e.mu.Lock()
	f := change(e.filter.Clone()).Clone()
	e.filter = f
	gen := e.results.Reset(e.filter)
	req, _ := e.results.Begin()
	if e.loaded && e.urls.Publish(e.filter) {
		e.log.Debug("location updated", logger.String("query", e.urls.Encoded()))
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.log.Info("filter changed",
		logger.Uint64("generation", gen),
		logger.Float64("rating_from", f.Rating.From),
		logger.Float64("rating_to", f.Rating.To),
		logger.Int("year_from", f.Year.From),
		logger.Int("year_to", f.Year.To),
		logger.Strings("genres", f.Genres))

	e.subs.notify(snap)
	return e.run(ctx, req)
}

// run performs one page fetch and folds its outcome into the result set.
// A response for a superseded generation is dropped without error.
func (e *Engine) run(ctx context.Context, req Request) error {
	// The fetch outlives the caller's context; only the catalog timeout ends it.
	fetchCtx := context.WithoutCancel(ctx)

	e.log.Debug("fetching page",
		logger.Uint64("generation", req.Generation),
		logger.Int("page", req.Page))

	page, err := e.catalog.FetchPage(fetchCtx, req.Filter, e.bounds, req.Page, req.Limit)

	e.mu.Lock()
	if err != nil {
		if !e.results.Fail(req.Generation, err) {
			e.mu.Unlock()
			e.log.Debug("discarding stale failure",
				logger.Uint64("generation", req.Generation),
				logger.Error(err))
			return nil
		}
		snap := e.snapshotLocked()
		e.mu.Unlock()

		e.log.Warn("page fetch failed, no more results for this filter",
			logger.Uint64("generation", req.Generation),
			logger.Int("page", req.Page),
			logger.Error(err))
		e.subs.notify(snap)
		return err
	}

	res := e.results.Merge(req.Generation, page)
	if res.Stale {
		e.mu.Unlock()
		e.log.Debug("discarding stale page",
			logger.Uint64("generation", req.Generation),
			logger.Int("page", req.Page))
		return nil
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.log.Info("page merged",
		logger.Uint64("generation", req.Generation),
		logger.Int("page", req.Page),
		logger.Int("raw", res.Raw),
		logger.Int("appended", res.Appended),
		logger.Int("rejected", res.Rejected),
		logger.Int("duplicates", res.Duplicates),
		logger.Bool("exhausted", res.Exhausted))
	e.subs.notify(snap)
	return nil
}

// FetchDetail loads the full record of one movie and makes it the selection.
// Only the latest detail request updates the selection.
func (e *Engine) FetchDetail(ctx context.Context, id int64) (domain.Movie, error) {
	e.mu.Lock()
	e.detailSeq++
	seq := e.detailSeq
	e.detailLoading = true
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.subs.notify(snap)

	m, err := e.catalog.FetchByID(ctx, id)

	e.mu.Lock()
	if seq != e.detailSeq {
		e.mu.Unlock()
		return m, err
	}
	e.detailLoading = false
	if err == nil {
		sel := m.Clone()
		e.selected = &sel
	}
	snap = e.snapshotLocked()
	e.mu.Unlock()

	if err != nil {
		e.log.Warn("detail fetch failed", logger.Int64("id", id), logger.Error(err))
	}
	e.subs.notify(snap)
	return m, err
}

// ClearSelection drops the selected movie.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	e.selected = nil
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.subs.notify(snap)
}

// Lookup finds a movie by id in the current list or the selection, falling
// back to the catalog.
func (e *Engine) Lookup(ctx context.Context, id int64) (domain.Movie, error) {
	e.mu.Lock()
	if m, ok := e.results.Find(id); ok {
		e.mu.Unlock()
		return m, nil
	}
	if e.selected != nil && e.selected.ID == id {
		m := e.selected.Clone()
		e.mu.Unlock()
		return m, nil
	}
	e.mu.Unlock()
	return e.catalog.FetchByID(ctx, id)
}

// AddBookmark bookmarks m once confirm agrees.
func (e *Engine) AddBookmark(ctx context.Context, m domain.Movie, confirm ConfirmFunc) (AddOutcome, error) {
	outcome, err := e.marks.Add(ctx, m, confirm)
	if outcome == Added {
		e.log.Info("bookmark added", logger.Int64("id", m.ID), logger.String("name", m.DisplayName()))
		e.publish()
	}
	return outcome, err
}

// RemoveBookmark removes the bookmark with id, if any.
func (e *Engine) RemoveBookmark(ctx context.Context, id int64) (bool, error) {
	removed, err := e.marks.Remove(ctx, id)
	if removed {
		e.log.Info("bookmark removed", logger.Int64("id", id))
		e.publish()
	}
	return removed, err
}

// Bookmarks lists bookmarked movies in insertion order.
func (e *Engine) Bookmarks() []domain.Movie {
	return e.marks.List()
}

// Filter returns a copy of the active filter.
func (e *Engine) Filter() domain.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.Clone()
}

func (e *Engine) Bounds() domain.Bounds { return e.bounds }

// Query returns the shareable query string of the current view.
func (e *Engine) Query() string {
	return e.urls.Encoded()
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildLocked()
}

// Subscribe registers fn for every subsequent change and returns the function
// that unregisters it.
func (e *Engine) Subscribe(fn Listener) func() {
	return e.subs.add(fn)
}

// Listeners returns the number of registered listeners.
func (e *Engine) Listeners() int {
	return e.subs.count()
}

func (e *Engine) publish() {
	e.mu.Lock()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.subs.notify(snap)
}

// snapshotLocked records a change and captures the state.
func (e *Engine) snapshotLocked() Snapshot {
	e.version++
	return e.buildLocked()
}

func (e *Engine) buildLocked() Snapshot {
	v := e.results.View()
	snap := Snapshot{
		Version:    e.version,
		Generation: v.Generation,
		Items:      v.Items,
		Cursor:     v.Cursor,
		Exhausted:  v.Exhausted,
		Total:      v.Total,
		Vocabulary: v.Vocabulary,
		Filter:     e.filter.Clone(),
		Bookmarks:  e.marks.List(),
		Loading:    v.InFlight || e.detailLoading,
	}
	if snap.Items == nil {
		snap.Items = []domain.Movie{}
	}
	if snap.Filter.Genres == nil {
		snap.Filter.Genres = []string{}
	}
	if e.selected != nil {
		sel := e.selected.Clone()
		snap.Selected = &sel
	}
	if v.Err != nil {
		snap.LastError = v.Err.Error()
	}
	return snap
}
