package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
)

type locationResponse struct {
	Query string `json:"query"`
}

// State returns the full snapshot.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Engine.Snapshot())
	}
}

// Location returns the shareable query string of the current view.
func Location(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, locationResponse{Query: d.Engine.Query()})
	}
}
