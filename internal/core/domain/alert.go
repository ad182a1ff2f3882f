package domain

import "time"

// Alert represents a security event recorded against a device. Alerts stay
// until an operator clears them; acknowledging only marks them as seen.
type Alert struct {
	ID             string           `json:"id"`
	DeviceIP       string           `json:"device_ip"`
	Timestamp      time.Time        `json:"timestamp"`
	Severity       Severity         `json:"severity"`
	Findings       []AttackFinding  `json:"findings,omitempty"`
	Services       []ServiceFinding `json:"services,omitempty"`
	Acknowledged   bool             `json:"acknowledged"`
	AcknowledgedAt *time.Time       `json:"acknowledged_at,omitempty"`
}

// OverallSeverity derives an alert severity from its attack findings:
// any high finding raises the alert to high, two or more medium findings
// also raise it to high, a single medium finding yields medium, anything
// else (including no findings at all) yields low.
func OverallSeverity(findings []AttackFinding) Severity {
	var mediums int
	for _, f := range findings {
		switch f.Severity {
		case SeverityHigh:
			return SeverityHigh
		case SeverityMedium:
			mediums++
		}
	}
	if mediums >= 2 {
		return SeverityHigh
	}
	if mediums == 1 {
		return SeverityMedium
	}
	return SeverityLow
}

// AlertFilter selects which alerts a listing returns.
type AlertFilter string

const (
	FilterAll            AlertFilter = "all"
	FilterAcknowledged   AlertFilter = "acknowledged"
	FilterUnacknowledged AlertFilter = "unacknowledged"
)

// Valid reports whether the filter is one of the closed set.
func (f AlertFilter) Valid() bool {
	return f == FilterAll || f == FilterAcknowledged || f == FilterUnacknowledged
}
