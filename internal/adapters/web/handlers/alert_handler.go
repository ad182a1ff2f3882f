package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// AlertHandler exposes the alert log: listing, acknowledgement and the
// clear-all operation.
type AlertHandler struct {
	Engine ports.Engine
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(engine ports.Engine) *AlertHandler {
	return &AlertHandler{Engine: engine}
}

// HandleList returns alerts newest first. ?filter narrows by
// acknowledgement state, ?severity by severity.
func (h *AlertHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := domain.AlertFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = domain.FilterAll
	}
	if !filter.Valid() {
		writeError(w, r, http.StatusBadRequest, "unknown filter: use all, acknowledged or unacknowledged")
		return
	}

	severity := domain.Severity(r.URL.Query().Get("severity"))
	if severity != "" && !severity.Valid() {
		writeError(w, r, http.StatusBadRequest, "unknown severity: use low, medium or high")
		return
	}

	alerts := h.Engine.Alerts(filter, severity)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// HandleAcknowledge marks one alert as seen. Acknowledgement is idempotent
// and an unknown id is not an error, so the response is 200 either way;
// "known" reports whether the id matched.
func (h *AlertHandler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	known := h.Engine.Acknowledge(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    id,
		"known": known,
	})
}

// HandleClear empties the alert log unconditionally.
func (h *AlertHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	cleared := h.Engine.ClearAlerts(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cleared": cleared,
	})
}
