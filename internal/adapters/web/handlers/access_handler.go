package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// AccessHandler manages the operator allow/deny lists.
type AccessHandler struct {
	Engine ports.Engine
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(engine ports.Engine) *AccessHandler {
	return &AccessHandler{Engine: engine}
}

type accessRequest struct {
	IP string `json:"ip"`
}

// HandleAllow whitelists an IP, removing any blacklist membership.
func (h *AccessHandler) HandleAllow(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.Engine.Allow, "whitelisted")
}

// HandleDeny blacklists an IP, removing any whitelist membership.
func (h *AccessHandler) HandleDeny(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.Engine.Deny, "blacklisted")
}

// HandleList returns both access sets, snapshotted together.
func (h *AccessHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	allowed, denied := h.Engine.AccessLists()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"whitelist": allowed,
		"blacklist": denied,
	})
}

func (h *AccessHandler) mutate(w http.ResponseWriter, r *http.Request, apply func(context.Context, string) error, outcome string) {
	var req accessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IP == "" {
		writeError(w, r, http.StatusBadRequest, "missing ip")
		return
	}

	if err := apply(r.Context(), req.IP); err != nil {
		if errors.Is(err, domain.ErrInvalidObservation) {
			writeError(w, r, http.StatusBadRequest, "invalid ip")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "access list update failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"ip":     req.IP,
		"status": outcome,
	})
}
