package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/presets"
)

type presetsResponse struct {
	Presets []presets.Preset `json:"presets"`
}

// ListPresets returns the loaded presets; empty when presets are disabled.
func ListPresets(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := []presets.Preset{}
		if d.Presets != nil {
			list = d.Presets.List()
		}
		writeJSON(w, http.StatusOK, presetsResponse{Presets: list})
	}
}

// ApplyPreset replaces the filter with the {name} preset.
func ApplyPreset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := url.PathUnescape(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid preset name")
			return
		}
		if d.Presets == nil {
			writeError(w, http.StatusNotFound, "presets are disabled")
			return
		}
		p, ok := d.Presets.Get(name)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown preset "+name)
			return
		}

		d.Logger.Info("applying preset",
			logger.String("preset", p.Name),
			logger.String("query", p.Query))
		respondAfter(w, d, d.Engine.ApplyFilter(r.Context(), p.Filter))
	}
}
