package main

import (
	"net/http"

	"github.com/JaimeStill/dispatch-lab/internal/config"
	"github.com/JaimeStill/dispatch-lab/internal/lifecycle"
	"github.com/JaimeStill/dispatch-lab/internal/metrics"
	"github.com/JaimeStill/dispatch-lab/internal/site"
	"github.com/JaimeStill/dispatch-lab/internal/static"
	"github.com/JaimeStill/dispatch-lab/pkg/dispatch"
	"github.com/JaimeStill/dispatch-lab/pkg/routes"
)

// registerRoutes configures all routes for the service. Operational routes
// come first so the static catch-all never shadows them.
func registerRoutes(r routes.System, ready lifecycle.ReadinessChecker, recorder *metrics.Recorder, cfg *config.Config, files *static.Files) {
	r.RegisterGroup(routes.Group{
		Description: "Infrastructure",
		Routes: []routes.Route{
			{
				Method:  http.MethodGet,
				Pattern: "/healthz",
				Handler: handleHealthCheck,
			},
			{
				Method:  http.MethodGet,
				Pattern: "/readyz",
				Handler: handleReadinessCheck(ready),
			},
		},
	})

	if recorder != nil {
		r.RegisterRoute(routes.Route{
			Method:  http.MethodGet,
			Pattern: cfg.Metrics.Path,
			Handler: dispatch.Native(recorder.Handler()),
		})
	}

	site.Register(r, files.Handler())
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w *dispatch.Response, r *http.Request) error {
	return w.Text(http.StatusOK, "OK")
}

func handleReadinessCheck(ready lifecycle.ReadinessChecker) dispatch.Handler {
	return func(w *dispatch.Response, r *http.Request) error {
		if !ready.Ready() {
			return w.Text(http.StatusServiceUnavailable, "NOT READY")
		}
		return w.Text(http.StatusOK, "READY")
	}
}
