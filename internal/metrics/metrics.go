// Package metrics registers the service's Prometheus collectors on the default
// registry and exposes small helpers for recording them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recap generation outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeRefused     = "refused"
	OutcomeFailed      = "failed"
	OutcomeUnavailable = "unavailable"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodjournal_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodjournal_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	EntriesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodjournal_entries_classified_total",
			Help: "Entries classified on create or update, by resulting mood",
		},
		[]string{"mood"},
	)

	RecapGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodjournal_recap_generations_total",
			Help: "Recap generation attempts by outcome",
		},
		[]string{"outcome"},
	)

	RecapGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodjournal_recap_generation_duration_seconds",
			Help:    "Time spent waiting on the recap provider",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
	)

	// 0 closed, 1 half-open, 2 open.
	RecapBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodjournal_recap_breaker_state",
			Help: "State of the recap provider circuit breaker (0 closed, 1 half-open, 2 open)",
		},
	)
)

func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordEntryClassified(mood string) {
	EntriesClassified.WithLabelValues(mood).Inc()
}

func RecordRecapGeneration(outcome string, duration time.Duration) {
	RecapGenerations.WithLabelValues(outcome).Inc()
	if duration > 0 {
		RecapGenerationDuration.Observe(duration.Seconds())
	}
}

func SetRecapBreakerState(state int) {
	RecapBreakerState.Set(float64(state))
}
