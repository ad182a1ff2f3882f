package storage

import (
	"github.com/jcastellr/netwarden/internal/core/domain"
)

// toAuditDomain converts a database model to a domain entity.
func toAuditDomain(m AuditLogModel) domain.AuditLog {
	return domain.AuditLog{
		ID:        m.ID,
		Actor:     m.Actor,
		Action:    domain.AuditAction(m.Action),
		Target:    m.Target,
		Details:   m.Details,
		IPAddress: m.IPAddress,
		Timestamp: m.Timestamp,
	}
}

// toAuditModel converts a domain entity to a database model.
func toAuditModel(entry domain.AuditLog) AuditLogModel {
	return AuditLogModel{
		ID:        entry.ID,
		Actor:     entry.Actor,
		Action:    string(entry.Action),
		Target:    entry.Target,
		Details:   entry.Details,
		IPAddress: entry.IPAddress,
		Timestamp: entry.Timestamp,
	}
}
