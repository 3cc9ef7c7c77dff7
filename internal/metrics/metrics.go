package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	veteransLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "upv",
			Subsystem: "view",
			Name:      "veterans_loaded",
			Help:      "Veterans in the active snapshot.",
		},
	)
	snapshotReloads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "upv",
			Subsystem: "view",
			Name:      "snapshot_reloads_total",
			Help:      "Completed snapshot reloads, including the initial load.",
		},
	)
	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upv",
			Subsystem: "view",
			Name:      "api_requests_total",
			Help:      "API requests served, per endpoint.",
		}, []string{"endpoint"},
	)
	toolRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upv",
			Subsystem: "pipeline",
			Name:      "tool_runs_total",
			Help:      "Pipeline tool invocations by outcome.",
		}, []string{"tool", "status"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{veteransLoaded, snapshotReloads, apiRequests, toolRuns}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
// The caller is responsible for starting an HTTP server and wiring the route.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func SetVeteransLoaded(n int) {
	if regOK.Load() {
		veteransLoaded.Set(float64(n))
	}
}

func IncSnapshotReload() {
	if regOK.Load() {
		snapshotReloads.Inc()
	}
}

func IncAPIRequest(endpoint string) {
	if regOK.Load() {
		apiRequests.WithLabelValues(endpoint).Inc()
	}
}

func IncToolRun(tool, status string) {
	if regOK.Load() {
		toolRuns.WithLabelValues(tool, status).Inc()
	}
}
