package tasks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for task extraction.
var (
	// ExtractionsTotal tracks extraction calls by result.
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetingd",
			Subsystem: "tasks",
			Name:      "extractions_total",
			Help:      "Total number of task extraction calls",
		},
		[]string{"result"},
	)

	// ExtractionDuration tracks end-to-end extraction latency including
	// the completion backend call.
	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "meetingd",
			Subsystem: "tasks",
			Name:      "extraction_duration_seconds",
			Help:      "Duration of task extraction calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// RecordsExtracted counts records returned to callers after dedup.
	RecordsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meetingd",
			Subsystem: "tasks",
			Name:      "records_extracted_total",
			Help:      "Total number of task records returned after deduplication",
		},
	)

	// RawFallbacks counts extractions where the model output could not be
	// parsed as JSON and was downgraded to a single raw record.
	RawFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meetingd",
			Subsystem: "tasks",
			Name:      "raw_fallbacks_total",
			Help:      "Total number of extractions downgraded to a raw record",
		},
	)
)
