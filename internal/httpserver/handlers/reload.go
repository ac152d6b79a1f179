package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

// Reload triggers a manual reload of the presets file and drops cached
// catalog records.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Cache != nil {
			n, err := d.Cache.FlushCache(r.Context())
			if err != nil {
				d.Logger.Warn("failed to flush detail cache", logger.Error(err))
			} else {
				d.Logger.Info("detail cache flushed", logger.Int("keys", n))
			}
		}

		if d.ReloadTrigger == nil {
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Cache flushed, presets disabled\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual presets reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Reload triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("presets reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Reload already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
