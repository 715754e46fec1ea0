// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the PDI backend.
var (
	// Counters.
	RecommendationsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation lists served",
		},
		[]string{"source"}, // "oracle" or "cache"
	)

	EnrollmentsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrollments_created_total",
			Help: "Total number of content enrollments created",
		},
	)

	EnrollmentConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrollment_conflicts_total",
			Help: "Total number of duplicate enrollment attempts rejected",
		},
	)

	EvaluationsFinalizedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluations_finalized_total",
			Help: "Total number of evaluations finalized",
		},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Total number of object storage uploads",
		},
		[]string{"status"}, // "ok", "rejected", "error"
	)

	// Histograms.
	RankingDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_duration_seconds",
			Help:    "Time spent computing a content ranking for one user",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
