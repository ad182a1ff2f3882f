package probe

import (
	"context"
	"strings"
	"testing"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

const arpScanOutput = `Interface: eth0, type: EN10MB, MAC: 3c:7c:3f:1d:00:42, IPv4: 192.168.1.10
Starting arp-scan 1.10.0 with 256 hosts (https://github.com/royhills/arp-scan)
192.168.1.1	a4:2b:b0:c8:11:07	TP-Link Technologies Co., Ltd.
192.168.1.7	00:17:f2:9a:61:04	(Unknown)
192.168.1.9	50:c7:bf:00:aa:3e
garbage line without tabs
999.1.1.1	00:11:22:33:44:55	Bogus IP

3 packets received by filter, 0 packets dropped by kernel
Ending arp-scan 1.10.0: 256 hosts scanned in 1.92 seconds`

func TestParseArpScanOutput(t *testing.T) {
	observations := parseArpScanOutput([]byte(arpScanOutput))
	if len(observations) != 3 {
		t.Fatalf("got %d observations, want 3", len(observations))
	}

	gateway := observations[0]
	if gateway.IP != "192.168.1.1" || gateway.MAC != "a4:2b:b0:c8:11:07" {
		t.Errorf("gateway = %s/%s, want 192.168.1.1/a4:2b:b0:c8:11:07", gateway.IP, gateway.MAC)
	}
	if gateway.Vendor != "TP-Link Technologies Co., Ltd." {
		t.Errorf("gateway vendor = %q, want the tool's column verbatim", gateway.Vendor)
	}
	for _, obs := range observations {
		if obs.Status != domain.StatusUp {
			t.Errorf("%s status = %q, want up", obs.IP, obs.Status)
		}
		if obs.Method != domain.MethodArpScan {
			t.Errorf("%s method = %q, want ArpScan", obs.IP, obs.Method)
		}
		if obs.SeenAt.IsZero() {
			t.Errorf("%s SeenAt is zero", obs.IP)
		}
	}

	// "(Unknown)" and empty vendor columns fall back to the OUI table.
	if observations[1].Vendor != "Apple" {
		t.Errorf("vendor fallback = %q, want Apple", observations[1].Vendor)
	}
	if observations[2].Vendor != "TP-Link" {
		t.Errorf("vendor fallback = %q, want TP-Link", observations[2].Vendor)
	}
}

func TestParseArpScanOutput_Empty(t *testing.T) {
	if got := parseArpScanOutput(nil); len(got) != 0 {
		t.Fatalf("got %d observations from empty output, want 0", len(got))
	}
}

func TestArpScanProber_Arguments(t *testing.T) {
	runner := &stubRunner{output: []byte(arpScanOutput)}
	prober := NewArpScanProber(runner, "eth0")

	if prober.Name() != "arp-scan" {
		t.Errorf("Name = %q, want arp-scan", prober.Name())
	}
	if _, err := prober.Probe(context.Background(), "192.168.1.0/24"); err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	joined := strings.Join(runner.args, " ")
	if runner.name != "arp-scan" {
		t.Errorf("ran %q, want arp-scan", runner.name)
	}
	if !strings.Contains(joined, "--interface eth0") {
		t.Errorf("args %q missing interface selection", joined)
	}
	if !strings.HasSuffix(joined, "192.168.1.0/24") {
		t.Errorf("args %q do not end with the target", joined)
	}

	bare := NewArpScanProber(runner, "")
	if _, err := bare.Probe(context.Background(), "192.168.1.1"); err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if strings.Contains(strings.Join(runner.args, " "), "--interface") {
		t.Errorf("args %v name an interface although none was configured", runner.args)
	}
}
