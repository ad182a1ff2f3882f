package domain

import (
	"time"
)

// InventoryStats represents an aggregated snapshot of the device inventory.
// Stats are computed from live inventory state on every request, never
// cached.
type InventoryStats struct {
	// Summary Metrics
	TotalDevices     int `json:"total_devices"`
	ActiveDevices    int `json:"active_devices"`
	DevicesWithPorts int `json:"devices_with_ports"`
	DistinctVendors  int `json:"distinct_vendors"`

	// Distributions
	VendorCounts map[string]int `json:"vendor_counts"`

	// Metadata
	GeneratedAt time.Time `json:"generated_at"`
}

// NewInventoryStats initializes a stats object with empty maps to prevent
// nil access.
func NewInventoryStats() InventoryStats {
	return InventoryStats{
		VendorCounts: make(map[string]int),
		GeneratedAt:  time.Now().UTC(),
	}
}
