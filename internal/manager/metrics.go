package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	stageCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Subsystem: "pipeline",
			Name:      "stage_calls_total",
			Help:      "External model calls per pipeline stage",
		},
		[]string{"stage", "backend", "outcome"},
	)

	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "intentd",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of external model calls per pipeline stage",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	entitiesMalformed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Subsystem: "pipeline",
			Name:      "entities_malformed_total",
			Help:      "Entity extraction replies that were not a JSON object",
		},
	)
)

func init() {
	prometheus.MustRegister(stageCalls, stageDuration, entitiesMalformed)
}
