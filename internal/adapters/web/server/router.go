package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jcastellr/netwarden/internal/adapters/web/middleware"
	"github.com/jcastellr/netwarden/internal/core/services/audit"
)

// SetupRoutes builds the HTTP surface: the JSON API, the websocket event
// stream and the Prometheus endpoint.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	// Rate limiter for the ingest path: scan adapters post bursts, so the
	// budget is generous; it exists to stop a runaway adapter, not to pace
	// normal operation.
	ingestLimiter := middleware.NewRateLimiter(300, 1*time.Minute)

	api := r.PathPrefix("/api").Subrouter()

	// Operator identity for the audit trail. There is no authentication
	// layer, so every API caller is the operator.
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := audit.WithActor(req.Context(), "operator")
			ctx = audit.WithClientIP(ctx, middleware.ClientIP(req))
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	// Observation ingest (rate limited)
	api.Handle("/observations",
		middleware.RateLimitMiddleware(ingestLimiter)(http.HandlerFunc(s.ObservationHandler.HandleIngest))).
		Methods(http.MethodPost)

	// Inventory
	api.HandleFunc("/devices", s.DeviceHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/devices/{ip}", s.DeviceHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/devices/{ip}/alerts", s.DeviceHandler.HandleDeviceAlerts).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.DeviceHandler.HandleStats).Methods(http.MethodGet)

	// Sweeps
	api.HandleFunc("/scan", s.ScanHandler.HandleSweep).Methods(http.MethodPost)
	api.HandleFunc("/scan/status", s.ScanHandler.HandleStatus).Methods(http.MethodGet)

	// Alerts
	api.HandleFunc("/alerts", s.AlertHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/alerts", s.AlertHandler.HandleClear).Methods(http.MethodDelete)
	api.HandleFunc("/alerts/{id}/ack", s.AlertHandler.HandleAcknowledge).Methods(http.MethodPost)

	// Access control
	api.HandleFunc("/access", s.AccessHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/access/allow", s.AccessHandler.HandleAllow).Methods(http.MethodPost)
	api.HandleFunc("/access/deny", s.AccessHandler.HandleDeny).Methods(http.MethodPost)

	// Audit trail
	api.HandleFunc("/audit-logs", s.AuditHandler.HandleGetLogs).Methods(http.MethodGet)

	// Export
	api.HandleFunc("/export", s.ExportHandler.HandleExport).Methods(http.MethodGet)

	// Signatures
	api.HandleFunc("/signatures/reload", s.SignatureHandler.HandleReload).Methods(http.MethodPost)

	// WebSocket event stream
	r.HandleFunc("/ws", s.Hub.HandleWebSocket)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
