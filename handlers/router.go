// handlers/router.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/database"
)

const defaultHTTPMiddlewareTimeout = 60 * time.Second

// Handler serves the read API over a Store plus the admin refresh.
type Handler struct {
	store    *database.Store
	refresh  *refresher
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// NewHandler builds a Handler. refresh runs one full import and may be nil, in which
// case the admin endpoint is disabled. gatherer may be nil to disable /metrics.
func NewHandler(store *database.Store, refresh func(ctx context.Context) error, gatherer prometheus.Gatherer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		store:    store,
		gatherer: gatherer,
		logger:   logger.Named("http"),
	}
	if refresh != nil {
		h.refresh = &refresher{run: refresh}
	}
	return h
}

// Routes returns the chi router of every endpoint.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultHTTPMiddlewareTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)
		r.Get("/zones", h.GetZonesHandler)
		r.Get("/zones/details", h.GetZoneDetailsHandler)
		r.Get("/errors", h.GetErrorLogHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/refresh", h.RefreshHandler)
			r.Get("/refresh", h.RefreshStatusHandler)
		})
	})

	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Wait blocks until a running refresh has finished.
func (h *Handler) Wait() {
	if h.refresh != nil {
		h.refresh.wait()
	}
}
