package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SearchesTotal counts search executions by outcome ("ok"/"error").
	SearchesTotal *prometheus.CounterVec

	// AnalyticsCacheTotal counts analytics cache lookups by result
	// ("hit"/"miss").
	AnalyticsCacheTotal *prometheus.CounterVec
)

// RegisterSearchMetrics registers search service metrics. Called explicitly
// from main (no init()) so tests can run without global registration.
func RegisterSearchMetrics() {
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobsearch",
			Name:      "searches_total",
			Help:      "Total number of executed search queries",
		},
		[]string{"outcome"},
	)

	AnalyticsCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobsearch",
			Name:      "analytics_cache_total",
			Help:      "Analytics cache lookups by result",
		},
		[]string{"result"},
	)

	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(AnalyticsCacheTotal)
}
