package ports

import "github.com/jcastellr/netwarden/internal/core/domain"

// EventSink receives change notifications for broadcast to subscribers.
// Publish must not block the caller: sinks buffer or drop, they never
// stall the scan pipeline.
type EventSink interface {
	Publish(event domain.Event)
}

// StatsSink receives periodic inventory snapshots for long-term storage.
type StatsSink interface {
	// WriteStats records one snapshot. Implementations write asynchronously.
	WriteStats(stats domain.InventoryStats, activeAlerts int)

	// Close flushes buffered points and releases the connection.
	Close()
}
