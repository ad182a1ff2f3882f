package probe

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// NmapProber shells out to nmap and parses the XML it emits on stdout.
// With version detection enabled it produces full port-scan observations;
// the discovery variant runs a ping sweep and reports reachability only.
type NmapProber struct {
	runner    CommandRunner
	pingSweep bool
}

var _ ports.Prober = (*NmapProber)(nil)

// NewNmapProber returns a prober that runs a service scan against the
// top ports of the target.
func NewNmapProber(runner CommandRunner) *NmapProber {
	return &NmapProber{runner: runner}
}

// NewNmapDiscoveryProber returns a prober that only checks whether the
// target answers, without touching any ports.
func NewNmapDiscoveryProber(runner CommandRunner) *NmapProber {
	return &NmapProber{runner: runner, pingSweep: true}
}

func (p *NmapProber) Name() string {
	if p.pingSweep {
		return "nmap-discovery"
	}
	return "nmap"
}

func (p *NmapProber) Probe(ctx context.Context, target string) ([]domain.Observation, error) {
	args := []string{"-sV", "--top-ports", "100", "-oX", "-", target}
	method := domain.MethodPortScan
	if p.pingSweep {
		args = []string{"-sn", "-oX", "-", target}
		method = domain.MethodHostDiscovery
	}

	out, err := p.runner.Run(ctx, "nmap", args...)
	if err != nil {
		return nil, err
	}
	return parseNmapXML(out, method)
}

// XML document layout emitted by nmap -oX. Only the attributes the
// inventory consumes are mapped.
type nmapRun struct {
	XMLName xml.Name   `xml:"nmaprun"`
	Hosts   []nmapHost `xml:"host"`
}

type nmapHost struct {
	Status    *nmapStatus    `xml:"status"`
	Addresses []nmapAddress  `xml:"address"`
	Hostnames *nmapHostnames `xml:"hostnames"`
	Ports     *nmapPorts     `xml:"ports"`
}

type nmapStatus struct {
	State string `xml:"state,attr"`
}

type nmapAddress struct {
	Addr     string `xml:"addr,attr"`
	AddrType string `xml:"addrtype,attr"`
	Vendor   string `xml:"vendor,attr"`
}

type nmapHostnames struct {
	List []nmapHostname `xml:"hostname"`
}

type nmapHostname struct {
	Name string `xml:"name,attr"`
}

type nmapPorts struct {
	List []nmapPort `xml:"port"`
}

type nmapPort struct {
	Protocol string       `xml:"protocol,attr"`
	PortID   int          `xml:"portid,attr"`
	State    *nmapState   `xml:"state"`
	Service  *nmapService `xml:"service"`
}

type nmapState struct {
	State string `xml:"state,attr"`
}

type nmapService struct {
	Name    string `xml:"name,attr"`
	Product string `xml:"product,attr"`
	Version string `xml:"version,attr"`
}

func parseNmapXML(data []byte, method domain.DiscoveryMethod) ([]domain.Observation, error) {
	var run nmapRun
	if err := xml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse nmap output: %w", err)
	}

	now := time.Now().UTC()
	var observations []domain.Observation
	for _, host := range run.Hosts {
		obs := domain.Observation{
			Status: domain.StatusUnknown,
			SeenAt: now,
			Method: method,
		}
		if host.Status != nil {
			switch host.Status.State {
			case "up":
				obs.Status = domain.StatusUp
			case "down":
				obs.Status = domain.StatusDown
			}
		}
		for _, addr := range host.Addresses {
			switch addr.AddrType {
			case "ipv4", "ipv6":
				obs.IP = addr.Addr
			case "mac":
				obs.MAC = addr.Addr
				if addr.Vendor != "" {
					obs.Vendor = addr.Vendor
				}
			}
		}
		if obs.IP == "" {
			continue
		}
		if host.Hostnames != nil && len(host.Hostnames.List) > 0 {
			obs.Hostname = host.Hostnames.List[0].Name
		}
		if host.Ports != nil {
			for _, port := range host.Ports.List {
				if port.PortID <= 0 || port.PortID > 65535 {
					continue
				}
				entry := domain.PortObservation{
					Port:     uint16(port.PortID),
					Protocol: domain.Protocol(port.Protocol),
				}
				if port.State != nil {
					entry.State = portStateFromNmap(port.State.State)
				}
				if port.Service != nil {
					entry.Service = port.Service.Name
					entry.Version = joinNonEmpty(port.Service.Product, port.Service.Version)
				}
				obs.Ports = append(obs.Ports, entry)
			}
		}
		if obs.Vendor == "" && obs.MAC != "" {
			obs.Vendor = VendorForMAC(obs.MAC)
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

// portStateFromNmap collapses nmap's extended state vocabulary onto the
// closed set the inventory keeps. Ambiguous states ("open|filtered",
// "unfiltered") land on filtered rather than inflating open-port counts.
func portStateFromNmap(state string) domain.PortState {
	mapped := domain.PortState(state)
	if mapped.Valid() {
		return mapped
	}
	return domain.PortFiltered
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}
