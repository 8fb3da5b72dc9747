package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ObservationsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "observations_recorded_total",
		Help: "Total number of price observations recorded",
	})

	ObservationsDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "observations_duplicate_total",
		Help: "Total number of observations skipped as duplicates",
	})

	ObservationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "observations_failed_total",
		Help: "Total number of observations that failed normalization or storage",
	}, []string{"reason"})

	ObservationsArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "observations_archived_total",
		Help: "Total number of observations soft deleted",
	})

	NormalizeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "observation_normalize_latency_seconds",
		Help:    "Latency of observation normalization",
		Buckets: prometheus.DefBuckets,
	})

	CostUpsertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cost_upserts_total",
		Help: "Total number of cost record upserts",
	})

	ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Total number of CSV import rows by outcome",
	}, []string{"outcome"})

	ImportBatchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "import_batch_latency_seconds",
		Help:    "Latency of whole CSV import batches",
		Buckets: prometheus.DefBuckets,
	})

	DuplicateCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "duplicate_cache_hits_total",
		Help: "Duplicate pre-check cache lookups by result",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
