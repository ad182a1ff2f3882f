package domain

import "time"

// AttackType defines the category of a detected attack pattern.
type AttackType string

const (
	AttackPortScan          AttackType = "PORT_SCAN"
	AttackSuspiciousPorts   AttackType = "SUSPICIOUS_PORTS_OPEN"
	AttackVulnerableService AttackType = "VULNERABLE_SERVICE"
	AttackUnusualActivity   AttackType = "UNUSUAL_PORT_ACTIVITY"
)

// Severity represents the criticality of a finding or alert.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank maps severities onto an ordinal scale for sorting, highest first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Valid reports whether the severity is one of the closed set.
func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// Classification reasons attached to suspicious service findings. The
// version match is checked first and wins over the port match.
const (
	ReasonVulnerableVersion = "Known vulnerable version"
	ReasonExploitedPort     = "Commonly exploited port"
)

// ServiceFinding describes one service observed on a device, annotated by
// the classifier. At most one finding exists per port.
type ServiceFinding struct {
	Port       uint16   `json:"port"`
	Protocol   Protocol `json:"protocol"`
	Service    string   `json:"service,omitempty"`
	Version    string   `json:"version,omitempty"`
	Suspicious bool     `json:"suspicious"`
	Reason     string   `json:"reason,omitempty"`
}

// AttackFinding describes one detected attack pattern on a device. The
// description is operator-facing and cites the concrete evidence (counts,
// ports, service names). Findings are immutable once created.
type AttackFinding struct {
	Type            AttackType `json:"type"`
	Severity        Severity   `json:"severity"`
	Description     string     `json:"description"`
	RelatedPorts    []uint16   `json:"related_ports,omitempty"`
	RelatedServices []string   `json:"related_services,omitempty"`
	DetectedAt      time.Time  `json:"detected_at"`
}

// SuspiciousOnly filters service findings down to the flagged ones.
func SuspiciousOnly(findings []ServiceFinding) []ServiceFinding {
	var out []ServiceFinding
	for _, f := range findings {
		if f.Suspicious {
			out = append(out, f)
		}
	}
	return out
}
