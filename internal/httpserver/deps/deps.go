package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/engine"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/presets"
)

// Pinger is a backend that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheFlusher drops cached catalog records.
type CacheFlusher interface {
	FlushCache(ctx context.Context) (int, error)
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	InstanceID    string // random per process, reported by healthz and the event stream
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time                // for testing, defaults to time.Now
	AllowedCIDRS  []string                        // IPs allowed to access ops endpoints
	TrustProxy    bool                            // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CatalogLimit  func(http.Handler) http.Handler // rate limit for routes that reach the catalog (nil = none)
	Engine        *engine.Engine                  // browsing state
	Storage       string                          // favorites backend name
	Checks        map[string]Pinger               // readiness checks by component name
	Cache         CacheFlusher                    // detail cache (nil without redis)
	Presets       *presets.Registry               // nil if presets disabled
	ReloadTrigger chan struct{}                   // Channel to trigger manual preset reload (nil if presets disabled)
}
