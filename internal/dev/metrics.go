package dev

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics exposed by the development server on /metrics.
//
// Metrics collected:
//   - omm_builds_total: Counter of builds by status
//   - omm_build_duration_seconds: Histogram of build duration
//   - omm_pages_compiled_total: Counter of successfully compiled pages
//   - omm_diagnostics_total: Counter of compile diagnostics by severity
//   - omm_reload_clients: Gauge of connected hot-reload clients
var (
	buildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "omm",
		Name:      "builds_total",
		Help:      "Total number of builds by status",
	}, []string{"status"})

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "omm",
		Name:      "build_duration_seconds",
		Help:      "Build duration in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	pagesCompiled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "omm",
		Name:      "pages_compiled_total",
		Help:      "Total number of successfully compiled pages",
	})

	diagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "omm",
		Name:      "diagnostics_total",
		Help:      "Total number of compile diagnostics by severity",
	}, []string{"severity"})

	reloadClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "omm",
		Name:      "reload_clients",
		Help:      "Number of connected hot-reload clients",
	})
)
