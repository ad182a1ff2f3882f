package domain

import (
	"errors"
	"time"
)

// AuditAction represents a type-safe action identifier for the audit log.
type AuditAction string

// System Audit Actions
const (
	ActionSweepStarted     AuditAction = "SWEEP_STARTED"
	ActionDeviceAllowed    AuditAction = "DEVICE_ALLOWED"
	ActionDeviceDenied     AuditAction = "DEVICE_DENIED"
	ActionAlertAcked       AuditAction = "ALERT_ACKNOWLEDGED"
	ActionAlertsCleared    AuditAction = "ALERTS_CLEARED"
	ActionSignaturesReload AuditAction = "SIGNATURES_RELOADED"
	ActionInfo             AuditAction = "INFO"
)

// Domain Errors
var (
	ErrInvalidAction = errors.New("invalid audit action")
	ErrMissingActor  = errors.New("actor identification is required for auditing")
)

// AuditLog represents a record of an operator-triggered mutation.
// This is a pure domain entity, decoupled from persistence (GORM) or transport
// (JSON) constraints where possible, although JSON tags are kept for API
// compatibility.
type AuditLog struct {
	ID        uint        `json:"id"`
	Actor     string      `json:"actor"`
	Action    AuditAction `json:"action"`
	Target    string      `json:"target"` // The resource affected (e.g., IP, alert UUID)
	Details   string      `json:"details"`
	IPAddress string      `json:"ip_address"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewAuditLog is the designated factory for creating valid AuditLog entities.
// It ensures that all required invariant rules are satisfied.
func NewAuditLog(actor string, action AuditAction, target, details, ip string) (*AuditLog, error) {
	if actor == "" {
		return nil, ErrMissingActor
	}

	if !isValidAction(action) {
		return nil, ErrInvalidAction
	}

	return &AuditLog{
		Actor:     actor,
		Action:    action,
		Target:    target,
		Details:   details,
		IPAddress: ip,
		Timestamp: time.Now().UTC(),
	}, nil
}

// isValidAction encapsulates the validation logic for audit actions.
func isValidAction(action AuditAction) bool {
	switch action {
	case ActionSweepStarted, ActionDeviceAllowed, ActionDeviceDenied,
		ActionAlertAcked, ActionAlertsCleared, ActionSignaturesReload, ActionInfo:
		return true
	}
	return false
}
