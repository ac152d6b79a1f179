package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

// NextPage loads the page at the cursor. It is a no-op when the list is
// exhausted or a page is already loading; either way the snapshot is returned.
func NextPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Engine.FetchNextPage(r.Context()); err != nil {
			d.Logger.Debug("next page failed", logger.Error(err))
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Engine.Snapshot())
	}
}

// Reset empties the list and loads page 1 again; it is the retry after a
// failed fetch.
func Reset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Engine.ResetAndFetchFirstPage(r.Context()); err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Engine.Snapshot())
	}
}

// Detail loads one movie and makes it the selection.
func Detail(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		m, err := d.Engine.FetchDetail(r.Context(), id)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// ClearSelection closes the detail view.
func ClearSelection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Engine.ClearSelection()
		w.WriteHeader(http.StatusNoContent)
	}
}
