package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for drop-directory ingestion.
var (
	// FilesProcessed counts drop files ingested.
	FilesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meetingd",
			Subsystem: "ingest",
			Name:      "files_processed_total",
			Help:      "Total number of drop files ingested",
		},
	)

	// EventsIngested counts events parsed from drop files and handed to
	// the pipeline.
	EventsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meetingd",
			Subsystem: "ingest",
			Name:      "events_ingested_total",
			Help:      "Total number of transcript events ingested from drop files",
		},
	)

	// ParseErrors counts lines that could not be parsed as events.
	ParseErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meetingd",
			Subsystem: "ingest",
			Name:      "parse_errors_total",
			Help:      "Total number of unparseable lines in drop files",
		},
	)
)
