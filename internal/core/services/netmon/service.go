package netmon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
	"github.com/jcastellr/netwarden/internal/core/services/inventory"
)

var (
	observationsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netwarden_observations_processed_total",
		Help: "The total number of processed device observations",
	})
	observationsDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netwarden_observations_denied_total",
		Help: "The total number of observations rejected by the blacklist gate",
	})
	devicesTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "netwarden_devices_tracked_total",
		Help: "The total number of devices in the inventory",
	})
	alertsRaised = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netwarden_alerts_raised_total",
		Help: "The total number of security alerts raised",
	})
	portsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netwarden_malformed_ports_dropped_total",
		Help: "The total number of malformed port entries dropped during sanitization",
	})
)

var _ ports.Engine = (*Service)(nil)

// Service orchestrates observation intake and threat evaluation. It acts as
// a facade, delegating specific responsibilities to specialized services.
type Service struct {
	store      ports.DeviceStore
	tracker    ports.ScanTracker
	classifier ports.ServiceClassifier
	detector   ports.AttackDetector
	alerts     ports.AlertManager
	access     ports.AccessRegistry
	sink       ports.EventSink

	// Optional collaborators, injected via setters.
	audit      ports.AuditService
	signatures ports.SignatureRepository
	prober     ports.Prober

	sweeper *Sweeper
}

// NewService creates the orchestrator and subscribes the event bridge to the
// store's notification pump.
func NewService(
	store *inventory.Store,
	tracker ports.ScanTracker,
	classifier ports.ServiceClassifier,
	detector ports.AttackDetector,
	alerts ports.AlertManager,
	access ports.AccessRegistry,
	sink ports.EventSink,
) *Service {
	s := &Service{
		store:      store,
		tracker:    tracker,
		classifier: classifier,
		detector:   detector,
		alerts:     alerts,
		access:     access,
		sink:       sink,
	}
	s.sweeper = NewSweeper(s)
	if sink != nil {
		store.Subject().AddObserver(&inventoryEvents{store: store, sink: sink})
	}
	return s
}

// SetAuditService injects the audit trail dependency.
func (s *Service) SetAuditService(audit ports.AuditService) {
	s.audit = audit
}

// SetSignatureRepository injects the persistent signature source used by
// ReloadSignatures.
func (s *Service) SetSignatureRepository(repo ports.SignatureRepository) {
	s.signatures = repo
}

// SetProber injects the scan backend used by batch sweeps.
func (s *Service) SetProber(prober ports.Prober) {
	s.prober = prober
}

// Sweeper exposes the batch scan coordinator for tuning.
func (s *Service) Sweeper() *Sweeper {
	return s.sweeper
}

// Observe runs a single observation through the full pipeline: validation,
// the blacklist gate, inventory reconciliation and threat evaluation.
func (s *Service) Observe(ctx context.Context, obs domain.Observation) (domain.DeviceRecord, error) {
	observationsProcessed.Inc()

	if err := obs.Validate(); err != nil {
		return domain.DeviceRecord{}, err
	}
	if dropped := obs.Sanitize(); dropped > 0 {
		portsDropped.Add(float64(dropped))
		slog.Warn("Dropped malformed port entries", "ip", obs.IP, "count", dropped)
	}

	// The blacklist is an absolute gate: a denied device leaves no trace in
	// the store, the tracker or the alert history.
	if s.access.IsDenied(obs.IP) {
		observationsDenied.Inc()
		return domain.DeviceRecord{}, fmt.Errorf("observe %s: %w", obs.IP, domain.ErrDeviceDenied)
	}

	merged, _ := s.store.Upsert(obs.Record())
	devicesTracked.Set(float64(s.store.Count()))

	// Port-less observations (host discovery, status refresh) update the
	// inventory but never count as scan activity.
	if len(obs.Ports) == 0 {
		return merged, nil
	}

	s.tracker.RecordScan(merged.IP)
	services := s.classifier.Classify(merged.Ports)
	findings := s.detector.Detect(merged, services, s.tracker.Frequency(merged.IP))
	slog.Debug("Device evaluated", "ip", merged.IP, "services", len(services), "findings", len(findings))
	if len(findings) > 0 {
		s.alerts.Record(merged.IP, findings, services)
		alertsRaised.Inc()
	}
	return merged, nil
}

// Devices returns a snapshot of the inventory.
func (s *Service) Devices() []domain.DeviceRecord {
	return s.store.All()
}

// Device returns a single record by IP.
func (s *Service) Device(ip string) (domain.DeviceRecord, bool) {
	return s.store.Get(ip)
}

// Stats computes fresh aggregate statistics.
func (s *Service) Stats() domain.InventoryStats {
	return s.store.Stats()
}

// ScanFrequency returns the tracked scan count for the IP inside the
// sliding window.
func (s *Service) ScanFrequency(ip string) int {
	return s.tracker.Frequency(ip)
}

// Alerts delegates to the alert manager.
func (s *Service) Alerts(filter domain.AlertFilter, severity domain.Severity) []domain.Alert {
	return s.alerts.List(filter, severity)
}

// DeviceAlerts lists alerts recorded against one IP.
func (s *Service) DeviceAlerts(ip string) []domain.Alert {
	return s.alerts.ForDevice(ip)
}

// Acknowledge marks an alert as seen. Unknown ids are a silent no-op.
func (s *Service) Acknowledge(ctx context.Context, id string) bool {
	ok := s.alerts.Acknowledge(id)
	if ok {
		s.auditLog(ctx, domain.ActionAlertAcked, id, "Alert acknowledged")
	}
	return ok
}

// ClearAlerts wipes the alert history regardless of acknowledgement state.
func (s *Service) ClearAlerts(ctx context.Context) int {
	cleared := s.alerts.ClearAll()
	s.auditLog(ctx, domain.ActionAlertsCleared, "all", fmt.Sprintf("Removed %d alerts", cleared))
	return cleared
}

// Allow whitelists the IP, removing any blacklist membership in the same
// atomic step.
func (s *Service) Allow(ctx context.Context, ip string) error {
	canon, err := canonicalIP(ip)
	if err != nil {
		return err
	}
	s.access.Allow(canon)
	s.auditLog(ctx, domain.ActionDeviceAllowed, canon, "Added to whitelist")
	return nil
}

// Deny blacklists the IP. Subsequent observations for it are rejected before
// any state mutation.
func (s *Service) Deny(ctx context.Context, ip string) error {
	canon, err := canonicalIP(ip)
	if err != nil {
		return err
	}
	s.access.Deny(canon)
	s.auditLog(ctx, domain.ActionDeviceDenied, canon, "Added to blacklist")
	return nil
}

// AccessLists returns sorted snapshots of both access sets.
func (s *Service) AccessLists() (allowed, denied []string) {
	return s.access.Lists()
}

// StartSweep launches a batch scan over the targets. Only one sweep runs at
// a time.
func (s *Service) StartSweep(ctx context.Context, targets []string) (domain.SweepStatus, error) {
	status, err := s.sweeper.Start(ctx, targets)
	if err != nil {
		return status, err
	}
	s.auditLog(ctx, domain.ActionSweepStarted, strings.Join(targets, ","), fmt.Sprintf("Sweep %s over %d hosts", status.ID, status.Targets))
	return status, nil
}

// SweepStatus reports the progress of the current or last sweep.
func (s *Service) SweepStatus() domain.SweepStatus {
	return s.sweeper.Status()
}

// ReloadSignatures re-reads the signature store and swaps the classifier
// configuration without pausing classification.
func (s *Service) ReloadSignatures(ctx context.Context) error {
	if s.signatures == nil {
		return fmt.Errorf("reload signatures: %w", domain.ErrStoreUnavailable)
	}
	set, err := s.signatures.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload signatures: %w", err)
	}
	s.classifier.Reload(set)
	s.auditLog(ctx, domain.ActionSignaturesReload, "classifier",
		fmt.Sprintf("%d ports, %d banner patterns", len(set.Ports), len(set.Banners)))
	return nil
}

// Close stops the notification pump and waits for queued events to drain.
func (s *Service) Close() error {
	s.store.Close()
	return nil
}

func (s *Service) auditLog(ctx context.Context, action domain.AuditAction, target, details string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, action, target, details); err != nil {
		slog.Warn("Audit write failed", "action", action, "error", err)
	}
}

func canonicalIP(ip string) (string, error) {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidObservation, ip)
	}
	return parsed.String(), nil
}
