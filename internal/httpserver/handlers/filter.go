package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
)

// SetRating replaces the rating range: {"from": 7, "to": 10}.
func SetRating(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body domain.RatingRange
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondAfter(w, d, d.Engine.SetRatingRange(r.Context(), body))
	}
}

// SetYear replaces the year range: {"from": 2010, "to": 2020}.
func SetYear(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body domain.YearRange
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondAfter(w, d, d.Engine.SetYearRange(r.Context(), body))
	}
}

// ToggleGenre selects or unselects the {name} genre.
func ToggleGenre(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := url.PathUnescape(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid genre name")
			return
		}
		respondAfter(w, d, d.Engine.ToggleGenre(r.Context(), name))
	}
}

type filterRequest struct {
	Rating *domain.RatingRange `json:"rating"`
	Year   *domain.YearRange   `json:"year"`
	Genres []string            `json:"genres"`
}

// ApplyFilter replaces the whole filter in one step. Omitted axes are reset
// to their default.
func ApplyFilter(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body filterRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f := d.Engine.Bounds().DefaultFilter()
		if body.Rating != nil {
			f.Rating = *body.Rating
		}
		if body.Year != nil {
			f.Year = *body.Year
		}
		f.Genres = body.Genres
		respondAfter(w, d, d.Engine.ApplyFilter(r.Context(), f))
	}
}

// respondAfter writes the snapshot after a filter mutation. A rejected
// mutation is a 400; a failed fetch after an accepted one is a 502.
func respondAfter(w http.ResponseWriter, d deps.Deps, err error) {
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Engine.Snapshot())
}
