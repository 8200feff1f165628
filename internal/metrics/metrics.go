// Package metrics provides Prometheus metrics for the publishing engine.
// Sweep-level failures are only observable here and in logs; no caller
// blocks on a sweep's complete success.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skycms_publisher"

var (
	SweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "sweeps_total",
			Help:      "Total number of tenant sweeps by result",
		},
		[]string{"result"},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "sweep_duration_seconds",
			Help:      "Tenant sweep duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	GroupsConverged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "groups_total",
			Help:      "Total number of article groups processed by result",
		},
		[]string{"result"},
	)

	PagesMaterialized = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "pages_materialized_total",
			Help:      "Total number of page snapshots replaced by the scheduler",
		},
	)

	TitleChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "slug",
			Name:      "title_changes_total",
			Help:      "Total number of completed title change cascades",
		},
	)

	TenantResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenant",
			Name:      "resolutions_total",
			Help:      "Total number of tenant resolutions by cache layer",
		},
		[]string{"source"},
	)
)

// ObserveSweep records one finished tenant sweep
func ObserveSweep(result string, duration time.Duration) {
	SweepsTotal.WithLabelValues(result).Inc()
	SweepDuration.Observe(duration.Seconds())
}

// ObserveGroup records one converged or failed article group
func ObserveGroup(result string) {
	GroupsConverged.WithLabelValues(result).Inc()
}
