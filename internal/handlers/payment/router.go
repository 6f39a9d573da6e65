package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevin07696/sagepay-gateway/pkg/middleware"
	"github.com/kevin07696/sagepay-gateway/pkg/observability"
)

// NewRouter builds the public API: rate limited, instrumented payment routes
// plus an unthrottled health check. headers may be nil.
func NewRouter(h *Handler, health *observability.HealthChecker, limiter *middleware.RateLimiter, headers *middleware.SecurityHeaders) http.Handler {
	router := chi.NewRouter()
	if headers != nil {
		router.Use(headers.Middleware)
	}

	if health != nil {
		router.Get("/health", health.HealthHandler())
	}

	router.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		h.AppendRoutes(r)
	})

	return router
}

