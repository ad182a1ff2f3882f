package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jcastellr/netwarden/internal/adapters/reporting"
	"github.com/jcastellr/netwarden/internal/adapters/web"
	"github.com/jcastellr/netwarden/internal/adapters/web/server"
	wshub "github.com/jcastellr/netwarden/internal/adapters/web/websocket"
	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// setupServer helper creates a server instance with mocks
func setupServer(t *testing.T) (*server.Server, *web.MockEngine, *MockAuditService) {
	t.Helper()

	mockEngine := new(web.MockEngine)
	mockAudit := new(MockAuditService)

	srv := server.NewServer(":9999", mockEngine, wshub.NewHub(), mockAudit,
		reporting.NewPDFExporter(), []string{"192.168.1.0/24"})

	return srv, mockEngine, mockAudit
}

func TestServer_HandleIngest(t *testing.T) {
	srv, mockEngine, _ := setupServer(t)

	tests := []struct {
		name           string
		payload        interface{}
		mockSetup      func()
		expectedStatus int
		expectedIP     string
	}{
		{
			name: "Valid Observation",
			payload: map[string]interface{}{
				"ip":     "192.168.1.10",
				"mac":    "aa:bb:cc:dd:ee:ff",
				"status": "up",
				"method": "ArpScan",
			},
			mockSetup: func() {
				mockEngine.On("Observe", mock.Anything, mock.MatchedBy(func(o domain.Observation) bool {
					return o.IP == "192.168.1.10" && o.Method == domain.MethodArpScan
				})).Return(domain.DeviceRecord{
					IP:     "192.168.1.10",
					MAC:    "AA:BB:CC:DD:EE:FF",
					Status: domain.StatusUp,
				}, nil)
			},
			expectedStatus: http.StatusAccepted,
			expectedIP:     "192.168.1.10",
		},
		{
			name: "Unparseable IP",
			payload: map[string]interface{}{
				"ip":     "not-an-ip",
				"method": "PortScan",
			},
			mockSetup: func() {
				mockEngine.On("Observe", mock.Anything, mock.MatchedBy(func(o domain.Observation) bool {
					return o.IP == "not-an-ip"
				})).Return(domain.DeviceRecord{}, domain.ErrInvalidObservation)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Blacklisted Device",
			payload: map[string]interface{}{
				"ip":     "10.0.0.66",
				"method": "PortScan",
			},
			mockSetup: func() {
				mockEngine.On("Observe", mock.Anything, mock.MatchedBy(func(o domain.Observation) bool {
					return o.IP == "10.0.0.66"
				})).Return(domain.DeviceRecord{}, domain.ErrDeviceDenied)
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			body, _ := json.Marshal(tt.payload)
			req := httptest.NewRequest(http.MethodPost, "/api/observations", bytes.NewReader(body))
			w := httptest.NewRecorder()

			srv.ObservationHandler.HandleIngest(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusAccepted {
				var record domain.DeviceRecord
				json.Unmarshal(w.Body.Bytes(), &record)
				assert.Equal(t, tt.expectedIP, record.IP)
			}
		})
	}

	t.Run("Malformed Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/observations", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		srv.ObservationHandler.HandleIngest(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_HandleSweep(t *testing.T) {
	srv, mockEngine, _ := setupServer(t)

	t.Run("Explicit Targets", func(t *testing.T) {
		mockEngine.On("StartSweep", mock.Anything, []string{"10.0.0.0/28"}).Return(domain.SweepStatus{
			ID:      "job-1",
			State:   domain.SweepRunning,
			Targets: 14,
		}, nil)

		body, _ := json.Marshal(map[string]interface{}{"targets": []string{"10.0.0.0/28"}})
		req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader(body))
		w := httptest.NewRecorder()

		srv.ScanHandler.HandleSweep(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var status domain.SweepStatus
		json.Unmarshal(w.Body.Bytes(), &status)
		assert.Equal(t, "job-1", status.ID)
		assert.Equal(t, domain.SweepRunning, status.State)
	})

	t.Run("Empty Body Falls Back To Defaults", func(t *testing.T) {
		mockEngine.On("StartSweep", mock.Anything, []string{"192.168.1.0/24"}).Return(domain.SweepStatus{
			ID:    "job-2",
			State: domain.SweepRunning,
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/scan", nil)
		w := httptest.NewRecorder()

		srv.ScanHandler.HandleSweep(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		mockEngine.AssertCalled(t, "StartSweep", mock.Anything, []string{"192.168.1.0/24"})
	})

	t.Run("Sweep Already Running", func(t *testing.T) {
		mockEngine.On("StartSweep", mock.Anything, []string{"172.16.0.0/24"}).Return(domain.SweepStatus{
			ID:    "job-3",
			State: domain.SweepRunning,
		}, domain.ErrSweepInProgress)

		body, _ := json.Marshal(map[string]interface{}{"targets": []string{"172.16.0.0/24"}})
		req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader(body))
		w := httptest.NewRecorder()

		srv.ScanHandler.HandleSweep(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "in progress")
	})

	t.Run("No Probe Backend", func(t *testing.T) {
		mockEngine.On("StartSweep", mock.Anything, []string{"172.17.0.0/24"}).Return(
			domain.SweepStatus{}, domain.ErrProbeUnavailable)

		body, _ := json.Marshal(map[string]interface{}{"targets": []string{"172.17.0.0/24"}})
		req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader(body))
		w := httptest.NewRecorder()

		srv.ScanHandler.HandleSweep(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Status", func(t *testing.T) {
		mockEngine.On("SweepStatus").Return(domain.SweepStatus{
			ID:        "job-1",
			State:     domain.SweepCompleted,
			Targets:   14,
			Processed: 14,
		})

		req := httptest.NewRequest(http.MethodGet, "/api/scan/status", nil)
		w := httptest.NewRecorder()

		srv.ScanHandler.HandleStatus(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "completed")
	})
}

func TestServer_DeviceRoutes(t *testing.T) {
	srv, mockEngine, _ := setupServer(t)
	router := server.SetupRoutes(srv)

	now := time.Now().UTC()
	record := domain.DeviceRecord{
		IP:        "192.168.1.42",
		MAC:       "AA:BB:CC:00:11:22",
		Vendor:    "Raspberry Pi Foundation",
		Status:    domain.StatusUp,
		FirstSeen: now,
		LastSeen:  now,
		Ports: []domain.PortObservation{
			{Port: 22, Protocol: domain.ProtoTCP, State: domain.PortOpen, Service: "ssh"},
		},
	}

	t.Run("List Devices", func(t *testing.T) {
		mockEngine.On("Devices").Return([]domain.DeviceRecord{record}).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "192.168.1.42")
		assert.Contains(t, w.Body.String(), `"count":1`)
	})

	t.Run("Get Device", func(t *testing.T) {
		mockEngine.On("Device", "192.168.1.42").Return(record, true)

		req := httptest.NewRequest(http.MethodGet, "/api/devices/192.168.1.42", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Raspberry Pi Foundation")
	})

	t.Run("Get Unknown Device", func(t *testing.T) {
		mockEngine.On("Device", "192.168.1.99").Return(domain.DeviceRecord{}, false)

		req := httptest.NewRequest(http.MethodGet, "/api/devices/192.168.1.99", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "device not found")
	})

	t.Run("Device Alerts", func(t *testing.T) {
		mockEngine.On("DeviceAlerts", "192.168.1.42").Return([]domain.Alert{
			{ID: "alert-1", DeviceIP: "192.168.1.42", Severity: domain.SeverityHigh},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/devices/192.168.1.42/alerts", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alert-1")
	})

	t.Run("Stats", func(t *testing.T) {
		mockEngine.On("Stats").Return(domain.InventoryStats{
			TotalDevices:  5,
			ActiveDevices: 3,
			VendorCounts:  map[string]int{"Cisco": 2},
			GeneratedAt:   now,
		})

		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_devices":5`)
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/devices", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestServer_AlertRoutes(t *testing.T) {
	srv, mockEngine, _ := setupServer(t)
	router := server.SetupRoutes(srv)

	t.Run("List Defaults To All", func(t *testing.T) {
		mockEngine.On("Alerts", domain.FilterAll, domain.Severity("")).Return([]domain.Alert{
			{ID: "a-1", DeviceIP: "10.0.0.5", Severity: domain.SeverityMedium},
			{ID: "a-2", DeviceIP: "10.0.0.6", Severity: domain.SeverityHigh},
		}).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":2`)
	})

	t.Run("Severity Narrowing", func(t *testing.T) {
		mockEngine.On("Alerts", domain.FilterUnacknowledged, domain.SeverityHigh).Return([]domain.Alert{
			{ID: "a-2", DeviceIP: "10.0.0.6", Severity: domain.SeverityHigh},
		}).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/alerts?filter=unacknowledged&severity=high", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "a-2")
	})

	t.Run("Unknown Filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/alerts?filter=bogus", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown Severity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/alerts?severity=critical", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Acknowledge Known", func(t *testing.T) {
		mockEngine.On("Acknowledge", mock.Anything, "a-1").Return(true)

		req := httptest.NewRequest(http.MethodPost, "/api/alerts/a-1/ack", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"known":true`)
	})

	t.Run("Acknowledge Unknown Is Not An Error", func(t *testing.T) {
		mockEngine.On("Acknowledge", mock.Anything, "missing").Return(false)

		req := httptest.NewRequest(http.MethodPost, "/api/alerts/missing/ack", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"known":false`)
	})

	t.Run("Clear", func(t *testing.T) {
		mockEngine.On("ClearAlerts", mock.Anything).Return(7)

		req := httptest.NewRequest(http.MethodDelete, "/api/alerts", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"cleared":7`)
	})
}

func TestServer_AccessRoutes(t *testing.T) {
	srv, mockEngine, _ := setupServer(t)

	t.Run("Allow", func(t *testing.T) {
		mockEngine.On("Allow", mock.Anything, "192.168.1.50").Return(nil)

		body, _ := json.Marshal(map[string]string{"ip": "192.168.1.50"})
		req := httptest.NewRequest(http.MethodPost, "/api/access/allow", bytes.NewReader(body))
		w := httptest.NewRecorder()

		srv.AccessHandler.HandleAllow(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "whitelisted")
	})

	t.Run("Deny", func(t *testing.T) {
		mockEngine.On("Deny", mock.Anything, "192.168.1.66").Return(nil)

		body, _ := json.Marshal(map[string]string{"ip": "192.168.1.66"})
		req := httptest.NewRequest(http.MethodPost, "/api/access/deny", bytes.NewReader(body))
		w := httptest.NewRecorder()

		srv.AccessHandler.HandleDeny(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "blacklisted")
	})

	t.Run("Missing IP", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{})
		req := httptest.NewRequest(http.MethodPost, "/api/access/allow", bytes.NewReader(body))
		w := httptest.NewRecorder()

		srv.AccessHandler.HandleAllow(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unparseable IP", func(t *testing.T) {
		mockEngine.On("Deny", mock.Anything, "999.999.1.1").Return(domain.ErrInvalidObservation)

		body, _ := json.Marshal(map[string]string{"ip": "999.999.1.1"})
		req := httptest.NewRequest(http.MethodPost, "/api/access/deny", bytes.NewReader(body))
		w := httptest.NewRecorder()

		srv.AccessHandler.HandleDeny(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List", func(t *testing.T) {
		mockEngine.On("AccessLists").Return([]string{"192.168.1.50"}, []string{"192.168.1.66"})

		req := httptest.NewRequest(http.MethodGet, "/api/access", nil)
		w := httptest.NewRecorder()

		srv.AccessHandler.HandleList(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "whitelist")
		assert.Contains(t, w.Body.String(), "192.168.1.66")
	})
}

func TestServer_HandleGetAuditLogs(t *testing.T) {
	srv, _, mockAudit := setupServer(t)

	mockAudit.On("GetLogs", mock.Anything, 100).Return([]domain.AuditLog{
		{ID: 1, Action: domain.ActionDeviceDenied, Actor: "operator", Target: "10.0.0.66"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/audit-logs", nil)
	w := httptest.NewRecorder()

	srv.AuditHandler.HandleGetLogs(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DEVICE_DENIED")
	mockAudit.AssertExpectations(t)

	t.Run("Bad Limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/audit-logs?limit=zero", nil)
		w := httptest.NewRecorder()
		srv.AuditHandler.HandleGetLogs(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_HandleExport(t *testing.T) {
	srv, mockEngine, _ := setupServer(t)

	now := time.Now().UTC()
	devices := []domain.DeviceRecord{
		{
			IP: "192.168.1.10", MAC: "AA:BB:CC:DD:EE:FF", Vendor: "Espressif",
			Status: domain.StatusUp, FirstSeen: now, LastSeen: now,
			Ports: []domain.PortObservation{{Port: 80, Protocol: domain.ProtoTCP, State: domain.PortOpen}},
		},
	}
	mockEngine.On("Devices").Return(devices)
	mockEngine.On("Stats").Return(domain.InventoryStats{TotalDevices: 1, GeneratedAt: now})
	mockEngine.On("Alerts", domain.FilterAll, domain.Severity("")).Return([]domain.Alert{
		{ID: "a-1", DeviceIP: "192.168.1.10", Severity: domain.SeverityHigh, Timestamp: now,
			Findings: []domain.AttackFinding{{Type: domain.AttackPortScan, Severity: domain.SeverityHigh}}},
	})

	t.Run("Devices CSV", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/export?format=csv", nil)
		w := httptest.NewRecorder()

		srv.ExportHandler.HandleExport(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "IP,MAC,Vendor")
		assert.Contains(t, w.Body.String(), "192.168.1.10")
	})

	t.Run("Alerts JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/export?format=json&type=alerts", nil)
		w := httptest.NewRecorder()

		srv.ExportHandler.HandleExport(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "PORT_SCAN")
	})

	t.Run("PDF Report", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/export?format=pdf", nil)
		w := httptest.NewRecorder()

		srv.ExportHandler.HandleExport(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("Unknown Format", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/export?format=xml", nil)
		w := httptest.NewRecorder()

		srv.ExportHandler.HandleExport(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown Type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/export?type=users", nil)
		w := httptest.NewRecorder()

		srv.ExportHandler.HandleExport(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_HandleSignatureReload(t *testing.T) {
	t.Run("Reloaded", func(t *testing.T) {
		srv, mockEngine, _ := setupServer(t)
		mockEngine.On("ReloadSignatures", mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/signatures/reload", nil)
		w := httptest.NewRecorder()

		srv.SignatureHandler.HandleReload(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "reloaded")
	})

	t.Run("No Store Configured", func(t *testing.T) {
		srv, mockEngine, _ := setupServer(t)
		mockEngine.On("ReloadSignatures", mock.Anything).Return(domain.ErrStoreUnavailable)

		req := httptest.NewRequest(http.MethodPost, "/api/signatures/reload", nil)
		w := httptest.NewRecorder()

		srv.SignatureHandler.HandleReload(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv, _, _ := setupServer(t)
	router := server.SetupRoutes(srv)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// MockAuditService for Web Package
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Log(ctx context.Context, action domain.AuditAction, target, details string) error {
	args := m.Called(ctx, action, target, details)
	return args.Error(0)
}

func (m *MockAuditService) GetLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}
