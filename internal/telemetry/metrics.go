package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ObservationsIngested counts observations accepted per source.
	ObservationsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netwarden",
			Name:      "observations_ingested_total",
			Help:      "Total number of device observations accepted for processing",
		},
		[]string{"source"},
	)

	// ObservationsRejected counts observations refused at the boundary.
	ObservationsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netwarden",
			Name:      "observations_rejected_total",
			Help:      "Total number of device observations rejected before reaching the inventory",
		},
		[]string{"source", "reason"},
	)

	// EventsPublished counts change notifications handed to the event hub.
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netwarden",
			Name:      "events_published_total",
			Help:      "Total number of change notifications published to subscribers",
		},
		[]string{"type"},
	)

	// EventsDropped counts notifications discarded on a full broadcast queue.
	EventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netwarden",
			Name:      "events_dropped_total",
			Help:      "Total number of change notifications dropped before broadcast",
		},
		[]string{"type", "reason"},
	)

	// SubscribersConnected tracks live websocket subscribers.
	SubscribersConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "netwarden",
			Name:      "subscribers_connected",
			Help:      "Number of websocket subscribers currently connected",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry
// This function is idempotent and can be called multiple times safely
func InitMetrics() {
	once.Do(func() {
		// Register metrics, ignoring errors if already registered
		// This prevents panics when metrics are already in the registry
		prometheus.DefaultRegisterer.Register(ObservationsIngested)
		prometheus.DefaultRegisterer.Register(ObservationsRejected)
		prometheus.DefaultRegisterer.Register(EventsPublished)
		prometheus.DefaultRegisterer.Register(EventsDropped)
		prometheus.DefaultRegisterer.Register(SubscribersConnected)
	})
}

// RegisterActiveAlerts exports the unacknowledged-alert count as a gauge.
// The alert log has no retention bound, so this is the signal operators
// watch to decide when a clear-all is due.
func RegisterActiveAlerts(count func() int) {
	prometheus.DefaultRegisterer.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "netwarden",
			Name:      "alerts_active",
			Help:      "Number of unacknowledged alerts in the alert log",
		},
		func() float64 { return float64(count()) },
	))
}
