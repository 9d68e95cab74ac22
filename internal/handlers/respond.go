package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/harambee/backend/internal/services"
)

const maxJSONBodyBytes = 1_048_576

// decodeJSON reads a single JSON object into dst. On failure it writes the
// error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// sendError logs server-side failures before writing the mapped response.
func sendError(w http.ResponseWriter, r *http.Request, tag string, err error) {
	if services.StatusCode(err) == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "["+tag+"] Request failed", "path", r.URL.Path, "error", err)
	}
	services.SendServiceError(w, err)
}
