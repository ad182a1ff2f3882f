package ports

import "github.com/jcastellr/netwarden/internal/core/domain"

// AlertManager owns the alert lifecycle: recording, listing, acknowledging
// and clearing.
type AlertManager interface {
	// Record creates a severity-ranked alert for the device and announces
	// it to subscribers before returning.
	Record(deviceIP string, findings []domain.AttackFinding, services []domain.ServiceFinding) domain.Alert

	// List returns alerts matching the filter, newest first. A non-empty
	// severity narrows the result further.
	List(filter domain.AlertFilter, severity domain.Severity) []domain.Alert

	// ForDevice returns all alerts recorded against the IP, newest first.
	ForDevice(ip string) []domain.Alert

	// Acknowledge marks the alert as seen. Acknowledging twice keeps the
	// original acknowledgement time; an unknown id is a silent no-op.
	// Reports whether the id matched an alert.
	Acknowledge(id string) bool

	// ClearAll removes every alert regardless of acknowledgement state and
	// returns how many were dropped.
	ClearAll() int

	// ActiveCount returns the number of unacknowledged alerts.
	ActiveCount() int
}
