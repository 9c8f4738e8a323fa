package bus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EventsPublished counts meeting events published to NATS by kind.
var EventsPublished = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "meetingd",
		Subsystem: "bus",
		Name:      "events_published_total",
		Help:      "Total number of meeting events published to NATS",
	},
	[]string{"kind"},
)
