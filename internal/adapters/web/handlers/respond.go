package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON renders v with the given status. Encoding failures are logged;
// by then the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

// writeError renders a JSON error envelope. Server-side failures are
// logged with the request path so the envelope can stay terse.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", r.URL.Path, "status", status, "error", msg)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
