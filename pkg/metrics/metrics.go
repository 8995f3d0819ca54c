package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_call_duration_seconds",
			Help:    "Workspace API call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "status"},
	)

	MutationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_mutation_count",
			Help: "Total number of board mutations dispatched",
		},
		[]string{"mutation", "result"}, // result: applied, rejected, rolled_back, discarded
	)

	RollbackCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_rollback_count",
			Help: "Total number of optimistic mutations rolled back",
		},
		[]string{"mutation"},
	)

	EventPublishCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_event_publish_count",
			Help: "Total number of board events published",
		},
		[]string{"routing_key", "status"}, // status: success, failed
	)
)

// RecordHTTPRequestDuration records server-side request latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordRemoteCall records a client-side workspace API call.
func RecordRemoteCall(operation, status string, duration time.Duration) {
	RemoteCallDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// IncrementMutation counts a controller mutation outcome.
func IncrementMutation(mutation, result string) {
	MutationCount.WithLabelValues(mutation, result).Inc()
}

// IncrementRollback counts a rollback after a failed remote call.
func IncrementRollback(mutation string) {
	RollbackCount.WithLabelValues(mutation).Inc()
}

// IncrementEventPublish counts a board event publish attempt.
func IncrementEventPublish(routingKey, status string) {
	EventPublishCount.WithLabelValues(routingKey, status).Inc()
}
