package detection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// Thresholds tunes the heuristic attack rules.
type Thresholds struct {
	// PortScanCount flags reconnaissance when the per-IP scan count inside
	// the tracker window strictly exceeds this value.
	PortScanCount int

	// OpenPortFlood flags a host exposing strictly more open ports than
	// this value.
	OpenPortFlood int
}

// DefaultThresholds returns the stock tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{PortScanCount: 10, OpenPortFlood: 50}
}

// Detector combines scan activity and service classification into typed
// attack findings. The four rules are evaluated independently; several
// findings may co-occur on one device, and no finding at all is the common
// case.
type Detector struct {
	thresholds Thresholds
	classifier ports.ServiceClassifier
	window     time.Duration
}

// NewDetector creates a detector. The classifier supplies the
// suspicious-port table; window is the tracker window cited in
// reconnaissance descriptions.
func NewDetector(thresholds Thresholds, classifier ports.ServiceClassifier, window time.Duration) *Detector {
	defaults := DefaultThresholds()
	if thresholds.PortScanCount <= 0 {
		thresholds.PortScanCount = defaults.PortScanCount
	}
	if thresholds.OpenPortFlood <= 0 {
		thresholds.OpenPortFlood = defaults.OpenPortFlood
	}
	return &Detector{
		thresholds: thresholds,
		classifier: classifier,
		window:     window,
	}
}

// Detect evaluates the device snapshot against all rules. scanCount is the
// tracker frequency for the device's IP at call time.
func (d *Detector) Detect(record domain.DeviceRecord, services []domain.ServiceFinding, scanCount int) []domain.AttackFinding {
	var findings []domain.AttackFinding
	now := time.Now().UTC()

	if scanCount > d.thresholds.PortScanCount {
		findings = append(findings, domain.AttackFinding{
			Type:     domain.AttackPortScan,
			Severity: domain.SeverityHigh,
			Description: fmt.Sprintf("Device %s was scanned %d times within %s (threshold %d)",
				record.IP, scanCount, d.window, d.thresholds.PortScanCount),
			DetectedAt: now,
		})
	}

	open := record.OpenPorts()

	if risky := d.riskyOpenPorts(open); len(risky) > 0 {
		findings = append(findings, domain.AttackFinding{
			Type:     domain.AttackSuspiciousPorts,
			Severity: domain.SeverityMedium,
			Description: fmt.Sprintf("Commonly exploited ports open on %s: %s",
				record.IP, joinPorts(risky)),
			RelatedPorts: risky,
			DetectedAt:   now,
		})
	}

	if hasVersionMatch(services) {
		suspicious := labelSuspicious(services)
		findings = append(findings, domain.AttackFinding{
			Type:     domain.AttackVulnerableService,
			Severity: domain.SeverityHigh,
			Description: fmt.Sprintf("Known vulnerable software on %s: %s",
				record.IP, strings.Join(suspicious, ", ")),
			RelatedServices: suspicious,
			DetectedAt:      now,
		})
	}

	if len(open) > d.thresholds.OpenPortFlood {
		findings = append(findings, domain.AttackFinding{
			Type:     domain.AttackUnusualActivity,
			Severity: domain.SeverityMedium,
			Description: fmt.Sprintf("Device %s exposes %d open ports (threshold %d), possible honeypot or compromised host",
				record.IP, len(open), d.thresholds.OpenPortFlood),
			DetectedAt: now,
		})
	}

	return findings
}

// riskyOpenPorts returns the sorted, deduplicated open ports that sit in
// the suspicious-port table.
func (d *Detector) riskyOpenPorts(open []domain.PortObservation) []uint16 {
	seen := make(map[uint16]bool)
	var risky []uint16
	for _, p := range open {
		if seen[p.Port] || !d.classifier.RiskyPort(p.Port) {
			continue
		}
		seen[p.Port] = true
		risky = append(risky, p.Port)
	}
	sort.Slice(risky, func(i, j int) bool { return risky[i] < risky[j] })
	return risky
}

// hasVersionMatch reports whether at least one suspicious finding was
// flagged by the version signature check.
func hasVersionMatch(services []domain.ServiceFinding) bool {
	for _, s := range services {
		if s.Suspicious && s.Reason == domain.ReasonVulnerableVersion {
			return true
		}
	}
	return false
}

// labelSuspicious renders every suspicious service for the finding
// description, version matches and port matches alike.
func labelSuspicious(services []domain.ServiceFinding) []string {
	var labels []string
	for _, s := range services {
		if s.Suspicious {
			labels = append(labels, serviceLabel(s))
		}
	}
	return labels
}

func serviceLabel(f domain.ServiceFinding) string {
	name := f.Service
	if name == "" {
		name = "unknown"
	}
	if f.Version != "" {
		return fmt.Sprintf("%s (%s) on %d/%s", name, f.Version, f.Port, f.Protocol)
	}
	return fmt.Sprintf("%s on %d/%s", name, f.Port, f.Protocol)
}

func joinPorts(ports []uint16) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ", ")
}
