package detection

import (
	"strings"
	"sync/atomic"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

// Classifier labels scanned services as suspicious based on the active
// signature set. The set is compiled into an immutable lookup table that is
// swapped atomically on reload, so classification never takes a lock and
// never observes a torn configuration.
type Classifier struct {
	table atomic.Pointer[signatureTable]
}

type signatureTable struct {
	set     domain.SignatureSet
	ports   map[uint16]struct{}
	banners []string // lowercased patterns
}

// NewClassifier creates a classifier seeded with the given signature set.
func NewClassifier(set domain.SignatureSet) *Classifier {
	c := &Classifier{}
	c.Reload(set)
	return c
}

// Reload atomically swaps the active signature set.
func (c *Classifier) Reload(set domain.SignatureSet) {
	set.Normalize()
	t := &signatureTable{
		set:     set,
		ports:   make(map[uint16]struct{}, len(set.Ports)),
		banners: make([]string, 0, len(set.Banners)),
	}
	for _, p := range set.Ports {
		t.ports[p.Port] = struct{}{}
	}
	for _, b := range set.Banners {
		t.banners = append(t.banners, strings.ToLower(b.Pattern))
	}
	c.table.Store(t)
}

// Signatures returns a copy of the active signature set.
func (c *Classifier) Signatures() domain.SignatureSet {
	t := c.table.Load()
	out := domain.SignatureSet{
		Ports:   make([]domain.PortSignature, len(t.set.Ports)),
		Banners: make([]domain.BannerSignature, len(t.set.Banners)),
	}
	copy(out.Ports, t.set.Ports)
	copy(out.Banners, t.set.Banners)
	return out
}

// RiskyPort reports membership in the suspicious-port table.
func (c *Classifier) RiskyPort(port uint16) bool {
	_, ok := c.table.Load().ports[port]
	return ok
}

// Classify produces one finding per port entry. Two independent signature
// checks run against each entry; the version match is more specific and
// wins when both hit, so at most one reason is attached per port. An empty
// port list yields an empty result, not an error.
func (c *Classifier) Classify(ports []domain.PortObservation) []domain.ServiceFinding {
	if len(ports) == 0 {
		return nil
	}

	t := c.table.Load()
	findings := make([]domain.ServiceFinding, 0, len(ports))
	for _, p := range ports {
		finding := domain.ServiceFinding{
			Port:     p.Port,
			Protocol: p.Protocol,
			Service:  p.Service,
			Version:  p.Version,
		}
		switch {
		case t.matchesBanner(p.Version):
			finding.Suspicious = true
			finding.Reason = domain.ReasonVulnerableVersion
		case t.matchesPort(p.Port):
			finding.Suspicious = true
			finding.Reason = domain.ReasonExploitedPort
		}
		findings = append(findings, finding)
	}
	return findings
}

func (t *signatureTable) matchesPort(port uint16) bool {
	_, ok := t.ports[port]
	return ok
}

func (t *signatureTable) matchesBanner(version string) bool {
	if version == "" {
		return false
	}
	lowered := strings.ToLower(version)
	for _, pattern := range t.banners {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}
