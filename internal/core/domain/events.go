package domain

// EventType identifies the outbound change notifications published to
// subscribers.
type EventType string

const (
	// EventDevicesUpdated carries the full device snapshot after any
	// successful inventory change.
	EventDevicesUpdated EventType = "devices-updated"

	// EventNewDevice carries a single record the first time an IP appears.
	EventNewDevice EventType = "new-device"

	// EventSecurityAlert carries a newly recorded alert.
	EventSecurityAlert EventType = "security-alert"

	// EventStatsUpdated carries a fresh inventory stats snapshot.
	EventStatsUpdated EventType = "stats-updated"
)

// Event is the wire shape pushed to websocket subscribers.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}
