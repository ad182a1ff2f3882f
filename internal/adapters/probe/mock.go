package probe

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// Hostnames seen on a typical flat LAN.
var mockHostnames = []string{
	"router", "printer-lobby", "nas-attic", "cam-garage", "thermostat",
	"tv-livingroom", "pi-hole", "desktop-office", "laptop-kitchen",
	"doorbell", "speaker-bedroom", "console", "ap-upstairs", "fridge",
}

// Service menu the generator draws from. The tail entries carry the kind
// of exposure a demo network needs if the detectors are to have anything
// to say.
var mockServices = []domain.PortObservation{
	{Port: 22, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "ssh", Version: "OpenSSH 9.6"},
	{Port: 53, Protocol: domain.ProtoUDP, State: domain.PortOpen, Service: "domain", Version: "dnsmasq 2.90"},
	{Port: 80, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "http", Version: "nginx 1.24.0"},
	{Port: 443, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "https"},
	{Port: 631, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "ipp", Version: "CUPS 2.4"},
	{Port: 8080, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "http-proxy"},
	{Port: 9100, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "jetdirect"},
	{Port: 23, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "telnet"},
	{Port: 445, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "microsoft-ds", Version: "Samba 3.0.20"},
	{Port: 3389, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "ms-wbt-server"},
	{Port: 5900, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "vnc"},
}

// mockPersona is the stable identity a target keeps across sweeps, so
// repeated scans reconcile into one record instead of churning.
type mockPersona struct {
	mac      string
	vendor   string
	hostname string
	ports    []domain.PortObservation
	answers  bool
}

// MockProber fabricates a small LAN without touching the network. Useful
// for demos and for driving the full pipeline in environments where raw
// sockets and scanner binaries are unavailable.
type MockProber struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	personas map[string]*mockPersona
}

var _ ports.Prober = (*MockProber)(nil)

// NewMockProber seeds the generator; a zero seed falls back to the clock.
func NewMockProber(seed int64) *MockProber {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockProber{
		rnd:      rand.New(rand.NewSource(seed)),
		personas: make(map[string]*mockPersona),
	}
}

func (p *MockProber) Name() string { return "mock" }

func (p *MockProber) Probe(ctx context.Context, target string) ([]domain.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !domain.IsValidIP(target) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidObservation, target)
	}

	p.mu.Lock()
	persona, ok := p.personas[target]
	if !ok {
		persona = p.newPersona()
		p.personas[target] = persona
	}
	obs := persona.observation(target)
	p.mu.Unlock()

	if obs == nil {
		return nil, nil
	}
	return []domain.Observation{*obs}, nil
}

func (p *MockProber) newPersona() *mockPersona {
	persona := &mockPersona{answers: p.rnd.Float32() < 0.85}
	if !persona.answers {
		return persona
	}

	persona.mac, persona.vendor = p.generateMAC()
	persona.hostname = mockHostnames[p.rnd.Intn(len(mockHostnames))]

	// 15% answer the ping but expose nothing scannable.
	if p.rnd.Float32() < 0.15 {
		return persona
	}
	count := 1 + p.rnd.Intn(4)
	for _, idx := range p.rnd.Perm(len(mockServices))[:count] {
		persona.ports = append(persona.ports, mockServices[idx])
	}
	return persona
}

// generateMAC picks a known OUI prefix and random tail bytes so the
// vendor table resolves the fabricated address.
func (p *MockProber) generateMAC() (mac, vendor string) {
	prefixes := make([]string, 0, len(commonOUIs))
	for prefix := range commonOUIs {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	prefix := prefixes[p.rnd.Intn(len(prefixes))]
	mac = fmt.Sprintf("%s:%02X:%02X:%02X", prefix,
		p.rnd.Intn(256), p.rnd.Intn(256), p.rnd.Intn(256))
	return mac, commonOUIs[prefix]
}

func (m *mockPersona) observation(target string) *domain.Observation {
	if !m.answers {
		return nil
	}
	obs := &domain.Observation{
		IP:       target,
		MAC:      m.mac,
		Vendor:   m.vendor,
		Hostname: m.hostname,
		Status:   domain.StatusUp,
		SeenAt:   time.Now().UTC(),
		Method:   domain.MethodHostDiscovery,
	}
	if len(m.ports) > 0 {
		obs.Ports = append([]domain.PortObservation(nil), m.ports...)
		obs.Method = domain.MethodPortScan
	}
	return obs
}
