package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// ScanHandler triggers batch sweeps and reports their progress.
type ScanHandler struct {
	Engine ports.Engine

	// DefaultTargets is swept when a request names none.
	DefaultTargets []string
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(engine ports.Engine, defaultTargets []string) *ScanHandler {
	return &ScanHandler{Engine: engine, DefaultTargets: defaultTargets}
}

type sweepRequest struct {
	Targets []string `json:"targets"`
}

// HandleSweep launches a batch scan. An empty body or empty target list
// sweeps the configured default targets. Only one sweep runs at a time.
func (h *ScanHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	targets := req.Targets
	if len(targets) == 0 {
		targets = h.DefaultTargets
	}
	if len(targets) == 0 {
		writeError(w, r, http.StatusBadRequest, "no sweep targets configured")
		return
	}

	status, err := h.Engine.StartSweep(r.Context(), targets)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSweepInProgress):
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error":  "sweep already in progress",
				"status": status,
			})
		case errors.Is(err, domain.ErrProbeUnavailable):
			writeError(w, r, http.StatusServiceUnavailable, "no probe backend configured")
		default:
			writeError(w, r, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusAccepted, status)
}

// HandleStatus reports the progress of the current or last sweep.
func (h *ScanHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.SweepStatus())
}
