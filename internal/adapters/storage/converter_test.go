package storage

import (
	"testing"
	"time"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

func TestAuditConverterRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entry := domain.AuditLog{
		ID:        7,
		Actor:     "alice",
		Action:    domain.ActionAlertAcked,
		Target:    "3f1c9a",
		Details:   "Alert acknowledged",
		IPAddress: "192.168.1.10",
		Timestamp: ts,
	}

	// 1. Domain -> Model
	model := toAuditModel(entry)
	if model.Action != string(domain.ActionAlertAcked) {
		t.Errorf("Expected action %s, got %s", domain.ActionAlertAcked, model.Action)
	}
	if model.Actor != "alice" {
		t.Errorf("Expected actor alice, got %s", model.Actor)
	}

	// 2. Model -> Domain
	restored := toAuditDomain(model)
	if restored != entry {
		t.Errorf("Round trip mismatch: got %+v, want %+v", restored, entry)
	}
}
