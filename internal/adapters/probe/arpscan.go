package probe

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// ArpScanProber shells out to arp-scan. The tool prints one line per
// responding host with tab-separated IP, MAC and vendor columns; header
// and summary lines are skipped by shape rather than position.
type ArpScanProber struct {
	runner CommandRunner
	iface  string
}

var _ ports.Prober = (*ArpScanProber)(nil)

func NewArpScanProber(runner CommandRunner, iface string) *ArpScanProber {
	return &ArpScanProber{runner: runner, iface: iface}
}

func (p *ArpScanProber) Name() string { return "arp-scan" }

func (p *ArpScanProber) Probe(ctx context.Context, target string) ([]domain.Observation, error) {
	args := []string{"--retry=2"}
	if p.iface != "" {
		args = append(args, "--interface", p.iface)
	}
	args = append(args, target)

	out, err := p.runner.Run(ctx, "arp-scan", args...)
	if err != nil {
		return nil, err
	}
	return parseArpScanOutput(out), nil
}

func parseArpScanOutput(out []byte) []domain.Observation {
	now := time.Now().UTC()
	var observations []domain.Observation

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 2 {
			continue
		}
		ip := strings.TrimSpace(fields[0])
		mac := strings.TrimSpace(fields[1])
		if !domain.IsValidIP(ip) || !domain.IsValidMAC(mac) {
			continue
		}

		obs := domain.Observation{
			IP:     ip,
			MAC:    mac,
			Status: domain.StatusUp,
			SeenAt: now,
			Method: domain.MethodArpScan,
		}
		if len(fields) >= 3 {
			obs.Vendor = strings.TrimSpace(fields[2])
		}
		if obs.Vendor == "" || obs.Vendor == "(Unknown)" {
			obs.Vendor = VendorForMAC(mac)
		}
		observations = append(observations, obs)
	}
	return observations
}
