package metrics

import "github.com/prometheus/client_golang/prometheus"

// Fetch outcomes.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Resolution Prometheus metrics.
var (
	SourceFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "patchwork",
			Name:      "source_fetch_total",
			Help:      "Item fetches per source and outcome",
		},
		[]string{"source", "result"},
	)

	SourceFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "patchwork",
			Name:      "source_fetch_duration_seconds",
			Help:      "Item fetch duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	ResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "patchwork",
			Name:      "resolve_total",
			Help:      "Resolved requests per kind and status",
		},
		[]string{"kind", "status"},
	)
)

var resolveMetricsRegistered bool

// RegisterResolveMetrics registers the resolution metrics. Must be called once from main.
func RegisterResolveMetrics() {
	if resolveMetricsRegistered {
		return
	}
	prometheus.MustRegister(SourceFetchTotal)
	prometheus.MustRegister(SourceFetchDuration)
	prometheus.MustRegister(ResolveTotal)
	resolveMetricsRegistered = true
}
