package routes

import (
	"net/http"

	"github.com/dukerupert/forever/internal/router"
)

// RegisterSystemRoutes registers health, metrics, locally stored images and
// the fallback for unknown routes.
func RegisterSystemRoutes(r *router.Router, deps SystemDeps) {
	health := deps.Health
	if health == nil {
		health = func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		}
	}
	r.Get("/health", health)

	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.ServeHTTP)
	}

	if deps.UploadsDir != "" {
		prefix := deps.UploadsPrefix
		if prefix == "" {
			prefix = "/uploads/"
		}
		r.Static(prefix, deps.UploadsDir)
	}

	if deps.NotFound != nil {
		r.NotFound(deps.NotFound)
	}
}
