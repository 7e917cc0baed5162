package preview

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the rebuild metrics exposed at /metrics. Each Server has
// its own registry so several servers can coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	rebuilds        *prometheus.CounterVec
	rebuildDuration prometheus.Histogram
	lastSuccess     prometheus.Gauge
	issues          prometheus.Gauge
	endpoints       prometheus.Gauge
	requests        *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &metrics{
		registry: reg,
		rebuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apish",
				Name:      "rebuilds_total",
				Help:      "Total number of rebuilds by result",
			},
			[]string{"result"},
		),
		rebuildDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "apish",
				Name:      "rebuild_duration_seconds",
				Help:      "Rebuild duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		lastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "apish",
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful rebuild",
			},
		),
		issues: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "apish",
				Name:      "issues",
				Help:      "Number of diagnostics in the current build",
			},
		),
		endpoints: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "apish",
				Name:      "endpoints",
				Help:      "Number of endpoint paths in the current build",
			},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apish",
				Name:      "preview_requests_total",
				Help:      "Total number of preview requests by route and status",
			},
			[]string{"route", "status"},
		),
	}
}
