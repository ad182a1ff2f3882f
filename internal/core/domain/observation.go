package domain

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// Observation is a single probe result for one host, before reconciliation
// into the inventory. Scan sources are heterogeneous: any field besides IP
// may be absent.
type Observation struct {
	IP       string            `json:"ip"`
	MAC      string            `json:"mac,omitempty"`
	Vendor   string            `json:"vendor,omitempty"`
	Hostname string            `json:"hostname,omitempty"`
	Status   DeviceStatus      `json:"status,omitempty"`
	Ports    []PortObservation `json:"ports,omitempty"`
	SeenAt   time.Time         `json:"seen_at,omitempty"`
	Method   DiscoveryMethod   `json:"method"`
}

// Validate checks the observation identity. An observation without a
// parseable IP cannot be keyed and is rejected outright.
func (o *Observation) Validate() error {
	ip := strings.TrimSpace(o.IP)
	if ip == "" {
		return fmt.Errorf("%w: empty ip", ErrInvalidObservation)
	}
	if net.ParseIP(ip) == nil {
		return fmt.Errorf("%w: %q", ErrInvalidObservation, o.IP)
	}
	return nil
}

// Sanitize normalizes the observation in place and returns the number of
// port entries dropped. Port damage is partial: a malformed entry is
// discarded, the rest of the observation survives.
//
// Normalization rules:
//   - the IP is rewritten to its canonical textual form
//   - entries with port 0 or an unrecognized protocol are dropped
//   - a missing protocol defaults to tcp, a missing state to open
func (o *Observation) Sanitize() (dropped int) {
	if ip := net.ParseIP(strings.TrimSpace(o.IP)); ip != nil {
		o.IP = ip.String()
	}

	if len(o.Ports) == 0 {
		return 0
	}

	kept := o.Ports[:0]
	for _, p := range o.Ports {
		if p.Port == 0 {
			dropped++
			continue
		}
		if p.Protocol == "" {
			p.Protocol = ProtoTCP
		}
		if !p.Protocol.Valid() {
			dropped++
			continue
		}
		if p.State == "" {
			p.State = PortOpen
		}
		kept = append(kept, p)
	}
	o.Ports = kept
	return dropped
}

// Record converts the observation into a canonical device record. A zero
// SeenAt is stamped with the current time, an empty status becomes unknown.
func (o Observation) Record() DeviceRecord {
	seen := o.SeenAt
	if seen.IsZero() {
		seen = time.Now().UTC()
	}
	status := o.Status
	if status == "" {
		status = StatusUnknown
	}
	return DeviceRecord{
		IP:              o.IP,
		MAC:             strings.ToUpper(o.MAC),
		Vendor:          o.Vendor,
		Hostname:        o.Hostname,
		Status:          status,
		Ports:           o.Ports,
		FirstSeen:       seen,
		LastSeen:        seen,
		DiscoveryMethod: o.Method,
	}
}
