package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type healthzResponse struct {
	Status        string    `json:"status"`
	Instance      string    `json:"instance,omitempty"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Storage       string    `json:"storage,omitempty"`
	StateVersion  uint64    `json:"state_version"`
	Build         buildInfo `json:"build"`
}

// Healthz is the liveness probe. It never touches a backend.
func Healthz(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	build := buildInfo{
		Version:   d.Version,
		Commit:    d.Commit,
		BuildDate: d.BuildDate,
		GoVersion: d.GoVersion,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthzResponse{
			Status:        "ok",
			Instance:      d.InstanceID,
			UptimeSeconds: now().Sub(d.StartTime).Seconds(),
			Storage:       d.Storage,
			Build:         build,
		}
		if d.Engine != nil {
			resp.StateVersion = d.Engine.Snapshot().Version
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
