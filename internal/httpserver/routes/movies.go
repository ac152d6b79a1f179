package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/handlers"
)

func init() { Register(registerMovies) }

func registerMovies(r chi.Router, d deps.Deps) {
	limited := r.With(catalogLimit(d))
	limited.Post("/api/movies/next", handlers.NextPage(d))
	limited.Post("/api/movies/reset", handlers.Reset(d))
	limited.Get("/api/movies/{id}", handlers.Detail(d))
	r.Delete("/api/movies/selection", handlers.ClearSelection(d))
}
