package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jcastellr/netwarden/internal/core/ports"
)

// DeviceHandler serves the inventory read side: device listings, single
// records, per-device alerts and aggregate stats.
type DeviceHandler struct {
	Engine ports.Engine
}

// NewDeviceHandler creates a new DeviceHandler
func NewDeviceHandler(engine ports.Engine) *DeviceHandler {
	return &DeviceHandler{Engine: engine}
}

// HandleList returns the full inventory snapshot.
func (h *DeviceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	devices := h.Engine.Devices()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"devices": devices,
		"count":   len(devices),
	})
}

// HandleGet returns one canonical record by IP.
func (h *DeviceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ip := mux.Vars(r)["ip"]
	record, ok := h.Engine.Device(ip)
	if !ok {
		writeError(w, r, http.StatusNotFound, "device not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// HandleDeviceAlerts returns the alerts recorded against one IP, newest
// first.
func (h *DeviceHandler) HandleDeviceAlerts(w http.ResponseWriter, r *http.Request) {
	ip := mux.Vars(r)["ip"]
	alerts := h.Engine.DeviceAlerts(ip)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ip":     ip,
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// HandleStats returns aggregate inventory statistics, computed fresh on
// every call.
func (h *DeviceHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Stats())
}
