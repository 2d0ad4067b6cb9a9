package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the analysis pipeline's instrumentation. Registered once
// per process on the default registry.
type Metrics struct {
	DetectorRuns     *prometheus.CounterVec
	DetectorFailures *prometheus.CounterVec
	FindingsEmitted  *prometheus.CounterVec
	LinksEmitted     prometheus.Counter
	IdentitiesScored prometheus.Counter
	AnalysisDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		DetectorRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argus",
			Name:      "detector_runs_total",
			Help:      "Detector invocations by detector name.",
		}, []string{"detector"}),
		DetectorFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argus",
			Name:      "detector_failures_total",
			Help:      "Detector invocations that returned an error.",
		}, []string{"detector"}),
		FindingsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "argus",
			Name:      "findings_emitted_total",
			Help:      "Findings emitted by pattern.",
		}, []string{"pattern"}),
		LinksEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Name:      "correlation_links_total",
			Help:      "Cross-source correlation links emitted.",
		}),
		IdentitiesScored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Name:      "identities_scored_total",
			Help:      "Identities that completed scoring.",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "argus",
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of a full analysis run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
}
