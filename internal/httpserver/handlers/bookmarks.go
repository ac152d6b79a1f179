package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/engine"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

type addBookmarkRequest struct {
	ID      int64 `json:"id"`
	Confirm *bool `json:"confirm"`
}

type bookmarkResponse struct {
	Outcome   string         `json:"outcome,omitempty"`
	Removed   *bool          `json:"removed,omitempty"`
	Bookmarks []domain.Movie `json:"bookmarks"`
	Error     string         `json:"error,omitempty"`
}

// ListBookmarks returns bookmarked movies in insertion order. With ?q= only
// the titles matching the query are returned, best match first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		marks := d.Engine.Bookmarks()

		q := domain.ParseTitleQuery(r.URL.Query().Get("q"))
		if !q.Empty() {
			matches := domain.RankTitles(q, marks)
			marks = make([]domain.Movie, 0, len(matches))
			for _, m := range matches {
				marks = append(marks, m.Movie)
			}
		}

		writeJSON(w, http.StatusOK, bookmarkResponse{Bookmarks: marks})
	}
}

// AddBookmark bookmarks a movie by id. The "confirm" field is the user's
// answer to the confirmation prompt; without it the request is refused.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addBookmarkRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if body.ID <= 0 {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}

		m, err := d.Engine.Lookup(r.Context(), body.ID)
		if err != nil {
			writeFailure(w, err)
			return
		}

		var confirm engine.ConfirmFunc
		if body.Confirm != nil {
			answer := *body.Confirm
			confirm = func(context.Context, domain.Movie) (bool, error) { return answer, nil }
		}

		outcome, err := d.Engine.AddBookmark(r.Context(), m, confirm)
		resp := bookmarkResponse{Outcome: outcome.String(), Bookmarks: d.Engine.Bookmarks()}

		var pe *engine.PersistenceError
		switch {
		case errors.As(err, &pe):
			d.Logger.Error("bookmark added but not persisted",
				logger.Int64("id", m.ID), logger.Error(err))
			resp.Error = err.Error()
			writeJSON(w, http.StatusInternalServerError, resp)
		case errors.Is(err, engine.ErrConfirmationRequired):
			resp.Error = err.Error()
			writeJSON(w, http.StatusConflict, resp)
		case err != nil:
			writeFailure(w, err)
		case outcome == engine.Declined:
			resp.Error = "bookmark declined"
			writeJSON(w, http.StatusConflict, resp)
		case outcome == engine.Added:
			writeJSON(w, http.StatusCreated, resp)
		default:
			writeJSON(w, http.StatusOK, resp)
		}
	}
}

// RemoveBookmark removes the {id} bookmark. Removing an absent id succeeds
// with "removed": false.
func RemoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		removed, err := d.Engine.RemoveBookmark(r.Context(), id)
		resp := bookmarkResponse{Removed: &removed, Bookmarks: d.Engine.Bookmarks()}
		if err != nil {
			d.Logger.Error("bookmark removed but not persisted",
				logger.Int64("id", id), logger.Error(err))
			resp.Error = err.Error()
			writeJSON(w, statusFor(err), resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
