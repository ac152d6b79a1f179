package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/handlers"
)

func init() { Register(registerFilter) }

func registerFilter(r chi.Router, d deps.Deps) {
	limited := r.With(catalogLimit(d))
	limited.Put("/api/filter", handlers.ApplyFilter(d))
	limited.Put("/api/filter/rating", handlers.SetRating(d))
	limited.Put("/api/filter/year", handlers.SetYear(d))
	limited.Post("/api/filter/genres/{name}/toggle", handlers.ToggleGenre(d))
}
