package ports

import (
	"time"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

// DeviceStore manages the in-memory canonical inventory of devices keyed by IP.
type DeviceStore interface {
	// Upsert reconciles an incoming record into the inventory.
	// Returns the merged record and whether the IP was newly discovered.
	Upsert(record domain.DeviceRecord) (domain.DeviceRecord, bool)

	// Get returns a device snapshot by IP.
	Get(ip string) (domain.DeviceRecord, bool)

	// All returns a snapshot of every known device.
	All() []domain.DeviceRecord

	// Count returns the number of devices currently tracked.
	Count() int

	// Stats computes aggregate statistics from live inventory state.
	Stats() domain.InventoryStats

	// Clear wipes all in-memory state.
	Clear()

	// Close stops the notification dispatcher after draining queued events.
	Close()
}

// ScanTracker counts scan events per device over a sliding window.
type ScanTracker interface {
	// RecordScan registers one scan event for the IP at the current time.
	RecordScan(ip string)

	// Frequency returns the number of scan events inside the window.
	Frequency(ip string) int

	// Window returns the sliding window length.
	Window() time.Duration

	// Forget drops all recorded activity for the IP.
	Forget(ip string)

	// Clear wipes all tracked activity.
	Clear()
}
