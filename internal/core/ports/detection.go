package ports

import "github.com/jcastellr/netwarden/internal/core/domain"

// ServiceClassifier annotates scanned ports with suspicion flags based on
// the active signature set.
type ServiceClassifier interface {
	// Classify produces at most one finding per port entry.
	Classify(ports []domain.PortObservation) []domain.ServiceFinding

	// RiskyPort reports membership in the suspicious-port table.
	RiskyPort(port uint16) bool

	// Reload atomically swaps the active signature set.
	Reload(set domain.SignatureSet)

	// Signatures returns a copy of the active signature set.
	Signatures() domain.SignatureSet
}

// AttackDetector evaluates a device against the heuristic attack rules.
type AttackDetector interface {
	// Detect returns the independent findings for the device. scanCount is
	// the number of scan events observed inside the tracker window.
	Detect(record domain.DeviceRecord, services []domain.ServiceFinding, scanCount int) []domain.AttackFinding
}
