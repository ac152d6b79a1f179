package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/marquee/internal/httpserver/mw"
)

func init() { Register(registerOps) }

// registerOps mounts the operational endpoints. Only /healthz is open;
// the rest honour AllowedCIDRS.
func registerOps(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Get("/readyz", handlers.Readyz(d))
		r.Get("/infra", handlers.Infra(d))
		r.Post("/reload", handlers.Reload(d))
	})
}
