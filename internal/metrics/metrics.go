// Package metrics holds the Prometheus collectors of the trip API service.
package metrics

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Metrics owns a private registry so tests and multiple servers never collide
// on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// RoutePointMutations counts create/update/delete by outcome.
	RoutePointMutations *prometheus.CounterVec

	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge

	collectorStarted atomic.Bool
	cancel           context.CancelFunc
	wg               sync.WaitGroup
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trip_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	mutations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_route_point_mutations_total",
			Help: "Route point writes by operation and result",
		},
		[]string{"op", "result"},
	)

	dbConnectionsOpen := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trip_db_connections_open",
		Help: "Number of open database connections",
	})

	dbConnectionsInUse := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trip_db_connections_in_use",
		Help: "Number of database connections currently in use",
	})

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		mutations,
		dbConnectionsOpen,
		dbConnectionsInUse,
	)

	return &Metrics{
		Registry:            registry,
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		RoutePointMutations: mutations,
		DBConnectionsOpen:   dbConnectionsOpen,
		DBConnectionsInUse:  dbConnectionsInUse,
	}
}

// ObserveMutation records the outcome of a route point write.
func (m *Metrics) ObserveMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RoutePointMutations.WithLabelValues(op, result).Inc()
}

// StartDBStatsCollector samples pool statistics every interval until Shutdown.
// Only the first call starts a collector.
func (m *Metrics) StartDBStatsCollector(db *sql.DB, interval time.Duration) {
	if db == nil {
		return
	}

	if !m.collectorStarted.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	m.wg.Add(1)
	m.cancel = cancel

	go func() {
		defer m.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("DB stats collector stopped")
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats := db.Stats()
				m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
				m.DBConnectionsInUse.Set(float64(stats.InUse))
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Shutdown stops the DB stats collector and waits for it. Safe to call twice.
func (m *Metrics) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}
