// Package metrics exposes the service's Prometheus collectors, served on
// GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExtractionAttempts counts individual completion attempts across all
	// orchestration runs.
	ExtractionAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vlmbridge_extraction_attempts_total",
		Help: "Completion attempts made by the retry orchestrator.",
	})

	// ExtractionOutcomes counts terminal run outcomes by state:
	// success, exhausted, fatal, unresolved.
	ExtractionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vlmbridge_extraction_outcomes_total",
		Help: "Terminal outcomes of extraction runs.",
	}, []string{"outcome"})

	// RecoverableFailures counts parse and validation failures that drove a
	// corrective retry turn.
	RecoverableFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vlmbridge_recoverable_failures_total",
		Help: "Parse and validation failures converted into corrective turns.",
	}, []string{"stage"})

	// CompletionDuration observes wall-clock latency of completion calls,
	// including queueing time in the worker pool.
	CompletionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vlmbridge_completion_duration_seconds",
		Help:    "Latency of completion calls through the worker pool.",
		Buckets: prometheus.DefBuckets,
	})
)
