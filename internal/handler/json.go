package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

// Request bodies are cut off past this size before decoding.
const maxJSONBytes = 1 << 20

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps a service error onto an HTTP status: invalid
// input is a 400 carrying the validation message, a missing resource
// is a 404 with notFound, anything else is logged under action and
// reported as a 500. action reads like "create post"; the client sees
// "Failed to create post".
func writeDomainError(w http.ResponseWriter, err error, notFound, action string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	default:
		slog.Error(action, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// readJSON decodes the request body into the given destination, capped
// at maxJSONBytes.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxJSONBytes)).Decode(dst)
}
