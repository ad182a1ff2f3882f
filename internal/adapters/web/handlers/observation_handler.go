package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
	"github.com/jcastellr/netwarden/internal/telemetry"
)

// ObservationHandler ingests parsed scan output from external adapters.
type ObservationHandler struct {
	Engine ports.Engine
}

// NewObservationHandler creates a new ObservationHandler
func NewObservationHandler(engine ports.Engine) *ObservationHandler {
	return &ObservationHandler{Engine: engine}
}

// HandleIngest accepts one observation and runs it through the pipeline.
// The merged canonical record is returned so the adapter can see the
// outcome of reconciliation.
func (h *ObservationHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var obs domain.Observation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		telemetry.ObservationsRejected.WithLabelValues("http", "bad_json").Inc()
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Engine.Observe(r.Context(), obs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidObservation):
			telemetry.ObservationsRejected.WithLabelValues("http", "invalid").Inc()
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrDeviceDenied):
			telemetry.ObservationsRejected.WithLabelValues("http", "denied").Inc()
			writeError(w, r, http.StatusForbidden, err.Error())
		default:
			writeError(w, r, http.StatusInternalServerError, "observation processing failed")
		}
		return
	}

	telemetry.ObservationsIngested.WithLabelValues("http").Inc()
	writeJSON(w, http.StatusAccepted, record)
}
