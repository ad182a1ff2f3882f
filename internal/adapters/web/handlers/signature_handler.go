package handlers

import (
	"errors"
	"net/http"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// SignatureHandler triggers classifier signature reloads from the
// signature store.
type SignatureHandler struct {
	Engine ports.Engine
}

// NewSignatureHandler creates a new SignatureHandler
func NewSignatureHandler(engine ports.Engine) *SignatureHandler {
	return &SignatureHandler{Engine: engine}
}

// HandleReload re-reads the signature store and swaps the classifier
// tables. Devices observed after the reload are classified against the
// new set; existing alerts are untouched.
func (h *SignatureHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.ReloadSignatures(r.Context()); err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			writeError(w, r, http.StatusServiceUnavailable, "no signature store configured")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "signature reload failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
