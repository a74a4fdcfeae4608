package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommender engine Prometheus metrics.
var (
	RecommenderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coasterec",
			Name:      "recommender_requests_total",
			Help:      "Total number of recommender engine requests",
		},
		[]string{"status"},
	)

	RecommenderRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coasterec",
			Name:      "recommender_request_duration_seconds",
			Help:      "Recommender engine request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RecommenderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coasterec",
			Name:      "recommender_errors_total",
			Help:      "Total recommender engine errors",
		},
		[]string{"error_type"}, // "unavailable" / "bad_status" / "malformed"
	)

	RecommenderResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coasterec",
			Name:      "recommender_results_returned",
			Help:      "Number of recommendations returned per engine call",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)
)

var recMetricsRegistered bool

// RegisterRecommenderMetrics registers Prometheus recommender metrics. Must be called once from main.
func RegisterRecommenderMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommenderRequestsTotal)
	prometheus.MustRegister(RecommenderRequestDuration)
	prometheus.MustRegister(RecommenderErrorsTotal)
	prometheus.MustRegister(RecommenderResultsReturned)
	recMetricsRegistered = true
}
