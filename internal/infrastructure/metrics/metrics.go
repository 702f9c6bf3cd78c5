package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Intake-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "briefhq",
			Subsystem: "intake_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "briefhq",
			Subsystem: "intake_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Conversation event counter
	ConversationEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "briefhq",
			Subsystem: "intake_api",
			Name:      "conversation_events_total",
			Help:      "Conversation log writes by operation",
		},
		[]string{"operation", "status"},
	)

	// Progress rebuild duration
	ProgressRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "briefhq",
			Subsystem: "intake_api",
			Name:      "progress_rebuild_duration_seconds",
			Help:      "Progress reconstruction duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// Analysis snapshot counter
	AnalysisUpsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "briefhq",
			Subsystem: "intake_api",
			Name:      "analysis_upserts_total",
			Help:      "Phase analysis snapshot upserts",
		},
		[]string{"phase", "analysis_type"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordConversationEvent records a conversation log write
func RecordConversationEvent(operation, status string) {
	ConversationEventsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveProgressRebuild records one progress reconstruction
func ObserveProgressRebuild(durationSec float64) {
	ProgressRebuildDuration.Observe(durationSec)
}

// RecordAnalysisUpsert records a snapshot upsert
func RecordAnalysisUpsert(phase, analysisType string) {
	AnalysisUpsertsTotal.WithLabelValues(phase, analysisType).Inc()
}
