package alerting

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// Manager implements ports.AlertManager. The alert log is append-only:
// entries mutate exactly once (acknowledgement) and disappear only through
// an explicit clear-all. There is no retention cap; operators clear the log
// deliberately.
type Manager struct {
	mu     sync.RWMutex
	alerts []domain.Alert
	index  map[string]int // alert id -> position in alerts

	sink ports.EventSink
	now  func() time.Time
}

// NewManager creates an alert manager. A nil sink disables broadcasting.
func NewManager(sink ports.EventSink) *Manager {
	return &Manager{
		index: make(map[string]int),
		sink:  sink,
		now:   time.Now,
	}
}

// Record creates a severity-ranked alert for the device. Only the
// suspicious subset of the service findings is retained on the alert. The
// security-alert broadcast is emitted before Record returns.
func (m *Manager) Record(deviceIP string, findings []domain.AttackFinding, services []domain.ServiceFinding) domain.Alert {
	alert := domain.Alert{
		ID:        uuid.New().String(),
		DeviceIP:  deviceIP,
		Timestamp: m.now().UTC(),
		Severity:  domain.OverallSeverity(findings),
		Findings:  findings,
		Services:  domain.SuspiciousOnly(services),
	}

	m.mu.Lock()
	m.index[alert.ID] = len(m.alerts)
	m.alerts = append(m.alerts, alert)
	m.mu.Unlock()

	if m.sink != nil {
		m.sink.Publish(domain.Event{Type: domain.EventSecurityAlert, Payload: alert})
	}
	return alert
}

// List returns alerts matching the filter, newest first. A non-empty
// severity narrows the result further.
func (m *Manager) List(filter domain.AlertFilter, severity domain.Severity) []domain.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Alert, 0, len(m.alerts))
	for i := len(m.alerts) - 1; i >= 0; i-- {
		a := m.alerts[i]
		switch filter {
		case domain.FilterAcknowledged:
			if !a.Acknowledged {
				continue
			}
		case domain.FilterUnacknowledged:
			if a.Acknowledged {
				continue
			}
		}
		if severity != "" && a.Severity != severity {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ForDevice returns all alerts recorded against the IP, newest first.
func (m *Manager) ForDevice(ip string) []domain.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Alert
	for i := len(m.alerts) - 1; i >= 0; i-- {
		if m.alerts[i].DeviceIP == ip {
			out = append(out, m.alerts[i])
		}
	}
	return out
}

// Acknowledge marks the alert as seen. The operation is idempotent: a
// second call keeps the original acknowledgement time, and an unknown id
// is a silent no-op. Reports whether the id matched an alert.
func (m *Manager) Acknowledge(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[id]
	if !ok {
		return false
	}
	if !m.alerts[pos].Acknowledged {
		ackedAt := m.now().UTC()
		m.alerts[pos].Acknowledged = true
		m.alerts[pos].AcknowledgedAt = &ackedAt
	}
	return true
}

// ClearAll removes every alert regardless of acknowledgement state and
// returns how many were dropped.
func (m *Manager) ClearAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := len(m.alerts)
	m.alerts = nil
	m.index = make(map[string]int)
	return dropped
}

// ActiveCount returns the number of unacknowledged alerts.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, a := range m.alerts {
		if !a.Acknowledged {
			count++
		}
	}
	return count
}
