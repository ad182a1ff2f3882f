package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jcastellr/netwarden/internal/adapters/probe"
	"github.com/jcastellr/netwarden/internal/adapters/reporting"
	"github.com/jcastellr/netwarden/internal/adapters/signatures"
	"github.com/jcastellr/netwarden/internal/adapters/storage"
	"github.com/jcastellr/netwarden/internal/adapters/tsdb"
	webserver "github.com/jcastellr/netwarden/internal/adapters/web/server"
	websocket "github.com/jcastellr/netwarden/internal/adapters/web/websocket"
	"github.com/jcastellr/netwarden/internal/config"
	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
	"github.com/jcastellr/netwarden/internal/core/services/access"
	"github.com/jcastellr/netwarden/internal/core/services/alerting"
	"github.com/jcastellr/netwarden/internal/core/services/audit"
	"github.com/jcastellr/netwarden/internal/core/services/detection"
	"github.com/jcastellr/netwarden/internal/core/services/inventory"
	"github.com/jcastellr/netwarden/internal/core/services/netmon"
	"github.com/jcastellr/netwarden/internal/telemetry"
)

// statsFlushInterval is how often inventory stats are pushed to the
// time-series sink when one is configured.
const statsFlushInterval = 30 * time.Second

// Application holds the core components of the application.
// It acts as the Facade for the entire system, orchestrating services and
// infrastructure.
type Application struct {
	Config  *config.Config
	Engine  *netmon.Service
	Hub     *websocket.Hub
	Server  *webserver.Server
	Alerts  *alerting.Manager
	Tracker *inventory.Tracker

	auditStore *storage.SQLiteAdapter
	sigRepo    ports.SignatureRepository
	statsSink  ports.StatsSink
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config: cfg,
	}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap() error {
	// 1. Foundation & Infrastructure
	telemetry.InitMetrics()

	auditService, err := app.initAuditTrail()
	if err != nil {
		return err
	}

	signatureSet := app.loadSignatures()

	// 2. Core stores & detection pipeline
	store := inventory.NewStore()
	app.Tracker = inventory.NewTracker(time.Duration(app.Config.WindowMs) * time.Millisecond)

	classifier := detection.NewClassifier(signatureSet)
	detector := detection.NewDetector(detection.Thresholds{
		PortScanCount: app.Config.PortScanThreshold,
		OpenPortFlood: app.Config.OpenPortFlood,
	}, classifier, app.Tracker.Window())

	// The hub is both the outbound event contract and the sink every
	// pipeline stage publishes through, so it is built before the engine.
	app.Hub = websocket.NewHub()
	app.Alerts = alerting.NewManager(app.Hub)
	registry := access.NewRegistry()

	app.Engine = netmon.NewService(store, app.Tracker, classifier, detector, app.Alerts, registry, app.Hub)
	app.Engine.SetAuditService(auditService)
	if app.sigRepo != nil {
		app.Engine.SetSignatureRepository(app.sigRepo)
	}
	app.Hub.SetEngine(app.Engine)

	telemetry.RegisterActiveAlerts(app.Alerts.ActiveCount)

	// 3. Probe backend
	if err := app.initProber(); err != nil {
		return err
	}

	// 4. Servers & sinks
	app.Server = webserver.NewServer(app.Config.Addr, app.Engine, app.Hub, auditService, reporting.NewPDFExporter(), app.Config.Targets)

	if app.Config.InfluxURL != "" {
		app.statsSink = tsdb.NewInfluxSink(tsdb.Config{
			URL:    app.Config.InfluxURL,
			Token:  app.Config.InfluxToken,
			Org:    app.Config.InfluxOrg,
			Bucket: app.Config.InfluxBucket,
		})
		slog.Info("Stats sink enabled", "url", app.Config.InfluxURL, "bucket", app.Config.InfluxBucket)
	}

	return nil
}

func (app *Application) initAuditTrail() (ports.AuditService, error) {
	if err := os.MkdirAll(filepath.Dir(app.Config.AuditDB), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	auditStore, err := storage.NewSQLiteAdapter(app.Config.AuditDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init audit storage: %w", err)
	}
	app.auditStore = auditStore
	return audit.NewAuditService(auditStore), nil
}

// loadSignatures resolves the classifier configuration. With a signature
// database configured, the store is opened, seeded with the compiled-in
// defaults when empty, and its enabled set wins. Without one, or when the
// store cannot be read, the compiled-in defaults apply so the engine works
// with zero setup.
func (app *Application) loadSignatures() domain.SignatureSet {
	defaults := domain.DefaultSignatures()

	if app.Config.SignatureDB == "" {
		slog.Info("Using built-in signature set", "ports", len(defaults.Ports), "banners", len(defaults.Banners))
		return defaults
	}

	repo, err := signatures.NewSQLiteRepository(app.Config.SignatureDB)
	if err != nil {
		log.Printf("Warning: Could not open signature database: %v. Using built-in set.", err)
		return defaults
	}

	ctx := context.Background()
	if err := repo.Seed(ctx, defaults); err != nil {
		log.Printf("Warning: Could not seed signature database: %v", err)
	}

	set, err := repo.Load(ctx)
	if err != nil || set.Empty() {
		log.Printf("Warning: Signature database unusable (%v). Using built-in set.", err)
		repo.Close()
		return defaults
	}

	app.sigRepo = repo
	slog.Info("Loaded signatures", "db", app.Config.SignatureDB, "ports", len(set.Ports), "banners", len(set.Banners))
	return set
}

func (app *Application) initProber() error {
	prober, err := probe.New(probe.Config{
		Backend:   app.Config.ProbeBackend,
		Interface: app.Config.Interface,
	})
	if err != nil {
		return fmt.Errorf("probe backend setup failed: %w", err)
	}
	if prober == nil {
		slog.Warn("No probe backend configured, sweeps disabled")
		return nil
	}

	app.Engine.SetProber(prober)
	app.Engine.Sweeper().SetInterval(time.Duration(app.Config.ScanDelayMs) * time.Millisecond)
	app.Engine.Sweeper().SetProbeTimeout(time.Duration(app.Config.ProbeTimeoutSec) * time.Second)
	slog.Info("Probe backend ready", "backend", prober.Name(), "interface", app.Config.Interface)
	return nil
}

// Run starts the application components and manages their execution
// lifecycle.
func (app *Application) Run(ctx context.Context) error {
	slog.Info("Starting netwarden components...")

	// 1. Auxiliary Loops
	if app.Config.SweepEverySec > 0 {
		go app.runSweepLoop(ctx)
	}
	if app.statsSink != nil {
		go app.runStatsLoop(ctx)
	}

	// 2. Web server (blocks until shutdown)
	errChan := make(chan error, 1)
	go func() {
		if err := app.Server.Run(ctx); err != nil {
			errChan <- fmt.Errorf("web server error: %w", err)
		}
	}()

	slog.Info("netwarden ready", "addr", app.Config.Addr)

	select {
	case <-ctx.Done():
		slog.Info("Termination signal received")
	case err := <-errChan:
		app.cleanup()
		return err
	}

	return app.cleanup()
}

// runSweepLoop schedules periodic sweeps over the configured targets. A
// sweep still running when the ticker fires is simply skipped; the next
// tick tries again.
func (app *Application) runSweepLoop(ctx context.Context) {
	interval := time.Duration(app.Config.SweepEverySec) * time.Second
	slog.Info("Automatic sweeps enabled", "every", interval, "targets", app.Config.Targets)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First sweep right away, then on the ticker.
	for {
		if _, err := app.Engine.StartSweep(ctx, app.Config.Targets); err != nil && !errors.Is(err, domain.ErrSweepInProgress) {
			slog.Error("Sweep start failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (app *Application) runStatsLoop(ctx context.Context) {
	ticker := time.NewTicker(statsFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.statsSink.WriteStats(app.Engine.Stats(), app.Alerts.ActiveCount())
		}
	}
}

func (app *Application) cleanup() error {
	slog.Info("Cleaning up resources...")

	if app.Engine != nil {
		app.Engine.Close()
	}
	if app.statsSink != nil {
		app.statsSink.Close()
	}
	if app.sigRepo != nil {
		app.sigRepo.Close()
	}
	if app.auditStore != nil {
		if err := app.auditStore.Close(); err != nil {
			log.Printf("Audit store close error: %v", err)
		}
	}

	return nil
}
