package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	Loaded     *int   `json:"loaded,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of each component of the instance.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := d.Engine.Snapshot()

		items := len(snap.Items)
		catalog := componentStatus{OK: snap.LastError == "", Loaded: &items}
		if !catalog.OK {
			catalog.Impact = "no-more-results-until-retry"
			catalog.Error = snap.LastError
		}

		marks := len(snap.Bookmarks)
		storage := componentStatus{OK: true, Mode: d.Storage, Loaded: &marks}
		if p, ok := d.Checks["storage"]; ok {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := p.Ping(ctx)
			cancel()
			if err != nil {
				storage.OK = false
				storage.Impact = "bookmarks-not-persisted"
				storage.Error = err.Error()
			}
		}

		presets := componentStatus{OK: true, Mode: "disabled"}
		if d.Presets != nil {
			n := d.Presets.Count()
			presets = componentStatus{OK: n > 0, Mode: "file", Loaded: &n, LastReload: "never"}
			if t := d.Presets.LastReload(); !t.IsZero() {
				presets.LastReload = t.Format("2006-01-02 15:04:05")
			}
		}

		listeners := d.Engine.Listeners()
		components := map[string]componentStatus{
			"catalog": catalog,
			"storage": storage,
			"presets": presets,
			"stream":  {OK: true, Loaded: &listeners},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if c, ok := components["catalog"]; ok && !c.OK {
		return "critical"
	}
	if s, ok := components["storage"]; ok && !s.OK {
		return "degraded"
	}
	return "ok"
}
