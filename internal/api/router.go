package api

import (
	"net/http"
	"trip-planner/internal/api/handlers"
	"trip-planner/internal/metrics"
	"trip-planner/internal/ports"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Repo    ports.RoutePointRepository
	Metrics *metrics.Metrics
	Limiter *RateLimiter
	// DB is pinged by /health when set.
	DB handlers.Pinger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	pointHandler := &handlers.PointHandler{Repo: cfg.Repo, Metrics: cfg.Metrics}
	healthHandler := &handlers.HealthHandler{DB: cfg.DB}

	mux.HandleFunc("/health", healthHandler.Check)
	mux.HandleFunc("/points", pointHandler.Collection)
	mux.HandleFunc("/points/{id}", pointHandler.Item)

	var h http.Handler = mux
	if cfg.Metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{}))
		h = metricsMiddleware(cfg.Metrics)(h)
	}
	if cfg.Limiter != nil {
		h = cfg.Limiter.Middleware(h)
	}

	return requestIDMiddleware(loggingMiddleware(h))
}
