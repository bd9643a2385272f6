// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of failed DuckDB queries",
		},
		[]string{"operation", "table"},
	)

	// Risk engine
	RiskEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_evaluations_total",
			Help: "Total number of risk evaluations by resulting level",
		},
		[]string{"level"},
	)

	RiskEvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risk_evaluation_duration_seconds",
			Help:    "Duration of a single subject evaluation including store reads",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	RiskAnomalies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_anomalies_total",
			Help: "Total number of anomalies detected by type",
		},
		[]string{"anomaly"},
	)

	RiskBatchRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "risk_batch_runs_total",
			Help: "Total number of batch evaluation runs",
		},
	)

	RiskBatchEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "risk_batch_subjects_evaluated_total",
			Help: "Total number of subjects evaluated successfully by batch runs",
		},
	)

	RiskBatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "risk_batch_subject_failures_total",
			Help: "Total number of subjects that failed during batch evaluation",
		},
	)

	RiskBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risk_batch_duration_seconds",
			Help:    "Duration of batch evaluation runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	RiskBatchLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "risk_batch_last_success_timestamp",
			Help: "Unix time of the last batch run without subject failures",
		},
	)

	// Domain activity
	LocationsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "locations_recorded_total",
			Help: "Total number of location updates stored",
		},
	)

	SOSAlertsRaised = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sos_alerts_raised_total",
			Help: "Total number of SOS alerts raised",
		},
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of connected dashboard clients",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages delivered by type",
		},
		[]string{"type"},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of broadcasts dropped because the hub queue was full",
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"},
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event bus
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published by topic",
		},
		[]string{"topic"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_handled_total",
			Help: "Total number of events handled by topic and outcome",
		},
		[]string{"topic", "result"},
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records a database query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordRiskEvaluation records one completed subject evaluation.
func RecordRiskEvaluation(level string, duration time.Duration) {
	RiskEvaluations.WithLabelValues(level).Inc()
	RiskEvaluationDuration.Observe(duration.Seconds())
}

// RecordAnomaly counts one detected anomaly.
func RecordAnomaly(anomaly string) {
	RiskAnomalies.WithLabelValues(anomaly).Inc()
}

// RecordRiskBatch records a finished batch run.
func RecordRiskBatch(evaluated, failures int, duration time.Duration) {
	RiskBatchRuns.Inc()
	RiskBatchEvaluated.Add(float64(evaluated))
	RiskBatchFailures.Add(float64(failures))
	RiskBatchDuration.Observe(duration.Seconds())
	if failures == 0 {
		RiskBatchLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordLocation counts one stored location update.
func RecordLocation() {
	LocationsRecorded.Inc()
}

// RecordSOSAlert counts one raised SOS alert.
func RecordSOSAlert() {
	SOSAlertsRaised.Inc()
}

// RecordWSMessage counts one message delivered to one client.
func RecordWSMessage(messageType string) {
	WSMessagesSent.WithLabelValues(messageType).Inc()
}

// RecordEventPublished counts one event published on topic.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordEventHandled counts one handled event. result is "success" or "failure".
func RecordEventHandled(topic string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsHandled.WithLabelValues(topic, result).Inc()
}
