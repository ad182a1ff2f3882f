package netmon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

const (
	defaultSweepInterval = time.Second
	defaultProbeTimeout  = 30 * time.Second

	// maxSweepHosts caps target expansion so a mistyped CIDR cannot queue
	// hours of probing.
	maxSweepHosts = 4096
)

// Sweeper coordinates batch scans. Targets run sequentially with a fixed
// inter-target pause so a sweep never floods the network or the probe
// backend, and cancelling the context stops the sweep between targets.
type Sweeper struct {
	service *Service

	interval     time.Duration
	probeTimeout time.Duration

	mu      sync.Mutex
	running bool
	status  domain.SweepStatus
}

// NewSweeper creates an idle sweeper bound to the orchestrator.
func NewSweeper(service *Service) *Sweeper {
	return &Sweeper{
		service:      service,
		interval:     defaultSweepInterval,
		probeTimeout: defaultProbeTimeout,
		status:       domain.SweepStatus{State: domain.SweepIdle},
	}
}

// SetInterval adjusts the pause between targets. Non-positive values are
// ignored.
func (w *Sweeper) SetInterval(d time.Duration) {
	if d > 0 {
		w.interval = d
	}
}

// SetProbeTimeout adjusts the per-target probe deadline. Non-positive values
// are ignored.
func (w *Sweeper) SetProbeTimeout(d time.Duration) {
	if d > 0 {
		w.probeTimeout = d
	}
}

// Start expands the targets and launches the sweep in the background. It
// fails with ErrProbeUnavailable when no probe backend is configured and
// with ErrSweepInProgress when a sweep is already running.
func (w *Sweeper) Start(ctx context.Context, targets []string) (domain.SweepStatus, error) {
	if w.service.prober == nil {
		return domain.SweepStatus{}, domain.ErrProbeUnavailable
	}
	expanded, err := ExpandTargets(targets)
	if err != nil {
		return domain.SweepStatus{}, err
	}
	if len(expanded) == 0 {
		return domain.SweepStatus{}, errors.New("sweep: no targets")
	}

	w.mu.Lock()
	if w.running {
		current := w.status
		w.mu.Unlock()
		return current, domain.ErrSweepInProgress
	}
	w.running = true
	w.status = domain.SweepStatus{
		ID:        uuid.New().String(),
		State:     domain.SweepRunning,
		Targets:   len(expanded),
		StartedAt: time.Now().UTC(),
	}
	started := w.status
	w.mu.Unlock()

	go w.run(ctx, started.ID, expanded)
	return started, nil
}

// Status returns a snapshot of the current or last sweep.
func (w *Sweeper) Status() domain.SweepStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *Sweeper) run(ctx context.Context, id string, targets []string) {
	slog.Info("Sweep started", "id", id, "targets", len(targets), "prober", w.service.prober.Name())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	state := domain.SweepCompleted
	for i, target := range targets {
		if i > 0 {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
		if ctx.Err() != nil {
			state = domain.SweepCancelled
			break
		}
		w.sweepTarget(ctx, target)
	}

	w.mu.Lock()
	w.status.State = state
	w.status.FinishedAt = time.Now().UTC()
	w.running = false
	final := w.status
	w.mu.Unlock()

	slog.Info("Sweep finished", "id", id, "state", final.State,
		"processed", final.Processed, "skipped", final.Skipped, "failed", final.Failed)
}

func (w *Sweeper) sweepTarget(ctx context.Context, target string) {
	// Denied targets are counted but never probed.
	if w.service.access.IsDenied(target) {
		w.bump(func(st *domain.SweepStatus) { st.Skipped++ })
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, w.probeTimeout)
	observations, err := w.service.prober.Probe(probeCtx, target)
	cancel()
	if err != nil {
		slog.Warn("Probe failed", "target", target, "error", err)
		w.bump(func(st *domain.SweepStatus) { st.Failed++ })
		return
	}

	slog.Debug("Target probed", "target", target, "observations", len(observations))
	for _, obs := range observations {
		if _, err := w.service.Observe(ctx, obs); err != nil {
			slog.Warn("Observation rejected during sweep", "target", target, "error", err)
		}
	}
	w.bump(func(st *domain.SweepStatus) { st.Processed++ })
}

func (w *Sweeper) bump(apply func(*domain.SweepStatus)) {
	w.mu.Lock()
	apply(&w.status)
	w.mu.Unlock()
}

// ExpandTargets resolves an operator-supplied target list into individual
// IPs. Entries may be single addresses or IPv4 CIDR blocks; the network and
// broadcast addresses of expanded blocks are excluded. Duplicates collapse.
func ExpandTargets(targets []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(ip string) {
		if _, ok := seen[ip]; ok {
			return
		}
		seen[ip] = struct{}{}
		out = append(out, ip)
	}

	for _, raw := range targets {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			block, err := expandCIDR(entry)
			if err != nil {
				return nil, err
			}
			for _, ip := range block {
				add(ip)
			}
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, fmt.Errorf("invalid sweep target %q", entry)
		}
		add(ip.String())
	}

	if len(out) > maxSweepHosts {
		return nil, fmt.Errorf("sweep expands to %d hosts, limit is %d", len(out), maxSweepHosts)
	}
	return out, nil
}

func expandCIDR(cidr string) ([]string, error) {
	ip, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep target %q: %w", cidr, err)
	}
	if ip.To4() == nil {
		return nil, fmt.Errorf("invalid sweep target %q: only IPv4 blocks can be expanded", cidr)
	}

	var ips []string
	for addr := ip.Mask(ipNet.Mask).To4(); ipNet.Contains(addr); incIP(addr) {
		ips = append(ips, addr.String())
		if len(ips) > maxSweepHosts {
			return nil, fmt.Errorf("sweep target %q expands past the %d host limit", cidr, maxSweepHosts)
		}
	}

	// /31 and /32 have no separate network or broadcast address.
	if ones, bits := ipNet.Mask.Size(); bits-ones > 1 && len(ips) > 2 {
		ips = ips[1 : len(ips)-1]
	}
	return ips, nil
}

func incIP(ip net.IP) {
	for i := len(ip) - 1; i >= 0; i-- {
		ip[i]++
		if ip[i] > 0 {
			break
		}
	}
}
