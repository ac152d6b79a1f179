package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var (
	registry []entry
	streams  []Registrar
)

// Register a registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterStream registers a long-lived route that must not be subject to the
// request timeout.
func RegisterStream(reg Registrar) {
	streams = append(streams, reg)
}

// Called once from server.NewRouter()
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		sub := r.With(e.mws...) // apply per-route middlewares
		e.reg(sub, d)
	}
}

// Called once from server.NewRouter()
func RegisterStreams(r chi.Router, d deps.Deps) {
	for _, reg := range streams {
		reg(r, d)
	}
}

// catalogLimit returns the rate limit for routes that reach the catalog.
func catalogLimit(d deps.Deps) Middleware {
	if d.CatalogLimit == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return d.CatalogLimit
}
