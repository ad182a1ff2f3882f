package ports

import (
	"context"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

// Engine is the orchestration facade exposed to transport adapters. It owns
// the full observation pipeline and the operator-facing operations.
type Engine interface {
	// Observe runs one observation through validation, access gating,
	// reconciliation and detection. Returns the merged record.
	Observe(ctx context.Context, obs domain.Observation) (domain.DeviceRecord, error)

	// Devices returns a snapshot of the inventory.
	Devices() []domain.DeviceRecord

	// Device returns a single record by IP.
	Device(ip string) (domain.DeviceRecord, bool)

	// Stats computes fresh aggregate statistics.
	Stats() domain.InventoryStats

	// ScanFrequency returns the tracked scan count for the IP inside the
	// sliding window.
	ScanFrequency(ip string) int

	// Alerts lists alerts through the manager. A non-empty severity
	// narrows the result.
	Alerts(filter domain.AlertFilter, severity domain.Severity) []domain.Alert

	// DeviceAlerts lists alerts recorded against one IP.
	DeviceAlerts(ip string) []domain.Alert

	// Acknowledge marks an alert as seen. Unknown ids are a silent no-op.
	Acknowledge(ctx context.Context, id string) bool

	// ClearAlerts removes all alerts and returns how many were dropped.
	ClearAlerts(ctx context.Context) int

	// Allow whitelists a device IP.
	Allow(ctx context.Context, ip string) error

	// Deny blacklists a device IP.
	Deny(ctx context.Context, ip string) error

	// AccessLists returns both access sets.
	AccessLists() (allowed, denied []string)

	// StartSweep launches a batch scan over the targets. Only one sweep
	// runs at a time.
	StartSweep(ctx context.Context, targets []string) (domain.SweepStatus, error)

	// SweepStatus reports the progress of the current or last sweep.
	SweepStatus() domain.SweepStatus

	// ReloadSignatures re-reads the signature store and swaps the
	// classifier configuration.
	ReloadSignatures(ctx context.Context) error
}
