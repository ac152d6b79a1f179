package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/handlers"
)

func init() { Register(registerPresets) }

func registerPresets(r chi.Router, d deps.Deps) {
	r.Get("/api/presets", handlers.ListPresets(d))
	r.With(catalogLimit(d)).Post("/api/presets/{name}/apply", handlers.ApplyPreset(d))
}
