package inventory

import (
	"github.com/jcastellr/netwarden/internal/core/domain"
)

// RecordMerger handles the logic of reconciling a new observation into an
// existing device record.
type RecordMerger struct{}

// NewRecordMerger creates a new RecordMerger.
func NewRecordMerger() *RecordMerger {
	return &RecordMerger{}
}

// Merge updates 'existing' with fields from 'incoming'.
//
// Identity fields (MAC, vendor, hostname) and the port list only move
// forward: an empty incoming value never erases known data. Status,
// LastSeen and DiscoveryMethod always reflect the latest observation, a
// down status included. FirstSeen sticks to the earliest timestamp.
func (m *RecordMerger) Merge(existing *domain.DeviceRecord, incoming domain.DeviceRecord) {
	existing.Status = incoming.Status
	existing.LastSeen = incoming.LastSeen
	existing.DiscoveryMethod = incoming.DiscoveryMethod

	if incoming.MAC != "" {
		existing.MAC = incoming.MAC
	}
	if incoming.Vendor != "" {
		existing.Vendor = incoming.Vendor
	}
	if incoming.Hostname != "" {
		existing.Hostname = incoming.Hostname
	}
	if len(incoming.Ports) > 0 {
		existing.Ports = incoming.Ports
	}
	if !incoming.FirstSeen.IsZero() &&
		(existing.FirstSeen.IsZero() || incoming.FirstSeen.Before(existing.FirstSeen)) {
		existing.FirstSeen = incoming.FirstSeen
	}
}
