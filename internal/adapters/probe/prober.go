// Package probe turns scanner backends into inventory observations.
// Backends either shell out to the classic tools (nmap, arp-scan) and
// parse their output, craft raw ARP traffic themselves, or fabricate a
// LAN for demos.
package probe

import (
	"fmt"

	"github.com/jcastellr/netwarden/internal/core/ports"
)

// Config selects and parameterizes the probe backend.
type Config struct {
	Backend   string
	Interface string
	MockSeed  int64
}

// New constructs the configured backend. Unknown names fail fast so a
// typo in configuration cannot silently disable sweeping.
func New(cfg Config) (ports.Prober, error) {
	switch cfg.Backend {
	case "nmap":
		return NewNmapProber(ExecRunner{}), nil
	case "nmap-discovery":
		return NewNmapDiscoveryProber(ExecRunner{}), nil
	case "arp-scan":
		return NewArpScanProber(ExecRunner{}, cfg.Interface), nil
	case "arping":
		return NewArpingProber(cfg.Interface)
	case "mock":
		return NewMockProber(cfg.MockSeed), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown probe backend %q", cfg.Backend)
	}
}
