package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Recommendation pipeline runs by language and outcome code",
		},
		[]string{"language", "outcome"},
	)

	UpstreamAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_upstream_attempts_total",
			Help: "Calls made to the text generation endpoint",
		},
		[]string{"result"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Wall time of one pipeline run including retries",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"outcome"},
	)

	PreferenceSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_submissions_total",
			Help: "Preference form submissions by result",
		},
		[]string{"result"},
	)

	RecommendationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommendations_in_flight",
			Help: "Pipeline runs currently waiting on the upstream model",
		},
	)
)

// Outcome labels
const (
	OutcomeOK     = "OK"
	ResultSuccess = "success"
	ResultFailure = "failure"
)
