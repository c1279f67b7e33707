package metrics

import "github.com/prometheus/client_golang/prometheus"

// Match Prometheus metrics.
var (
	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_requests_total",
			Help:      "Total number of match requests",
		},
		[]string{"source", "status"}, // source: "http" / "cli"
	)

	MatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Match duration in seconds, embedding included",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	MatchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_candidates",
			Help:      "Number of target fields per match request",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	MatchTopScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_top_score",
			Help:      "Similarity score of the best candidate",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
)

var matchMetricsRegistered bool

// RegisterMatchMetrics registers Prometheus match metrics. Must be called once from main.
func RegisterMatchMetrics() {
	if matchMetricsRegistered {
		return
	}
	prometheus.MustRegister(MatchRequestsTotal)
	prometheus.MustRegister(MatchDuration)
	prometheus.MustRegister(MatchCandidates)
	prometheus.MustRegister(MatchTopScore)
	matchMetricsRegistered = true
}

// ObserveMatch records the outcome of one match request.
// topScore is ignored when the request failed.
func ObserveMatch(source string, candidates int, seconds float64, topScore float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	MatchRequestsTotal.WithLabelValues(source, status).Inc()
	MatchDuration.WithLabelValues(source).Observe(seconds)
	MatchCandidates.Observe(float64(candidates))
	if err == nil {
		MatchTopScore.Observe(topScore)
	}
}
