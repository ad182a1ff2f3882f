package server

import (
	"context"
	"log"
	"net/http"

	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcastellr/netwarden/internal/adapters/reporting"
	"github.com/jcastellr/netwarden/internal/adapters/web/handlers"
	websocket "github.com/jcastellr/netwarden/internal/adapters/web/websocket"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr   string
	Engine ports.Engine
	Hub    *websocket.Hub

	ObservationHandler *handlers.ObservationHandler
	DeviceHandler      *handlers.DeviceHandler
	AlertHandler       *handlers.AlertHandler
	AccessHandler      *handlers.AccessHandler
	ScanHandler        *handlers.ScanHandler
	AuditHandler       *handlers.AuditHandler
	ExportHandler      *handlers.ExportHandler
	SignatureHandler   *handlers.SignatureHandler

	srv *http.Server
}

// NewServer creates a new web server.
func NewServer(addr string, engine ports.Engine, hub *websocket.Hub, auditService ports.AuditService, pdfExporter *reporting.PDFExporter, defaultTargets []string) *Server {
	return &Server{
		Addr:   addr,
		Engine: engine,
		Hub:    hub,

		ObservationHandler: handlers.NewObservationHandler(engine),
		DeviceHandler:      handlers.NewDeviceHandler(engine),
		AlertHandler:       handlers.NewAlertHandler(engine),
		AccessHandler:      handlers.NewAccessHandler(engine),
		ScanHandler:        handlers.NewScanHandler(engine, defaultTargets),
		AuditHandler:       handlers.NewAuditHandler(auditService),
		ExportHandler:      handlers.NewExportHandler(engine, pdfExporter),
		SignatureHandler:   handlers.NewSignatureHandler(engine),
	}
}

// Run starts the server and the broadcaster.
func (s *Server) Run(ctx context.Context) error {
	// Start the event hub pump
	s.Hub.Run(ctx)

	// Setup Routes
	handler := SetupRoutes(s)

	// Instrument with OpenTelemetry
	// "netwarden-server" is the name of the operation (span)
	instrumentedHandler := otelhttp.NewHandler(handler, "netwarden-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown implementation
	go func() {
		<-ctx.Done()
		log.Println("Web Server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Web Server shutdown error: %v", err)
		}
	}()

	log.Printf("Web server listening on %s", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
