package domain

import "time"

// DeviceStatus represents host reachability as reported by the last scan.
type DeviceStatus string

const (
	StatusUp      DeviceStatus = "up"
	StatusDown    DeviceStatus = "down"
	StatusUnknown DeviceStatus = "unknown"
)

// DiscoveryMethod identifies which kind of probe produced an observation.
type DiscoveryMethod string

const (
	MethodArpScan       DiscoveryMethod = "ArpScan"
	MethodHostDiscovery DiscoveryMethod = "HostDiscovery"
	MethodPortScan      DiscoveryMethod = "PortScan"
	MethodNetdiscover   DiscoveryMethod = "Netdiscover"
)

// Protocol is the transport protocol of a scanned port.
type Protocol string

const (
	ProtoTCP Protocol = "tcp"
	ProtoUDP Protocol = "udp"
)

// PortState mirrors the scanner vocabulary for port reachability.
type PortState string

const (
	PortOpen     PortState = "open"
	PortClosed   PortState = "closed"
	PortFiltered PortState = "filtered"
)

// Valid reports whether the protocol is one of the closed set.
func (p Protocol) Valid() bool {
	return p == ProtoTCP || p == ProtoUDP
}

// Valid reports whether the state is one of the closed set.
func (s PortState) Valid() bool {
	return s == PortOpen || s == PortClosed || s == PortFiltered
}

// PortObservation is a single scanned port on a device.
type PortObservation struct {
	Port     uint16    `json:"port"`
	Protocol Protocol  `json:"protocol"`
	State    PortState `json:"state"`
	Service  string    `json:"service,omitempty"`
	Version  string    `json:"version,omitempty"`
}

// DeviceRecord is the canonical inventory entry for a host, keyed by IP.
// All fields besides IP may be filled in incrementally as scans from
// different sources are reconciled.
type DeviceRecord struct {
	IP              string            `json:"ip"`
	MAC             string            `json:"mac,omitempty"`
	Vendor          string            `json:"vendor,omitempty"`
	Hostname        string            `json:"hostname,omitempty"`
	Status          DeviceStatus      `json:"status"`
	Ports           []PortObservation `json:"ports,omitempty"`
	FirstSeen       time.Time         `json:"first_seen"`
	LastSeen        time.Time         `json:"last_seen"`
	DiscoveryMethod DiscoveryMethod   `json:"discovery_method"`
}

// OpenPorts returns the subset of port observations in the open state.
func (d *DeviceRecord) OpenPorts() []PortObservation {
	var open []PortObservation
	for _, p := range d.Ports {
		if p.State == PortOpen {
			open = append(open, p)
		}
	}
	return open
}

// HasPort reports whether the record carries an observation for the given
// port and protocol pair.
func (d *DeviceRecord) HasPort(port uint16, proto Protocol) bool {
	for _, p := range d.Ports {
		if p.Port == port && p.Protocol == proto {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record. Snapshots handed to callers must
// never alias inventory-owned slices.
func (d DeviceRecord) Clone() DeviceRecord {
	out := d
	if d.Ports != nil {
		out.Ports = make([]PortObservation, len(d.Ports))
		copy(out.Ports, d.Ports)
	}
	return out
}
