package http

import (
	"encoding/json"
	"net/http"

	"github.com/practicum-go/filmorate/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// APIError is the error response body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a plain JSON response body. Entities are returned
// as-is, without an envelope, matching what the API clients expect.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// writeJSONError writes an error JSON response.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(APIError{
		Code:    code,
		Message: message,
	})
}

// writeDomainError maps a domain error onto an HTTP status:
// missing entities are 404, rejected payloads are 400, storage faults
// (including a ranked film id that fails to resolve) are 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case shared.IsStorageFault(err):
		writeJSONError(w, http.StatusInternalServerError, "storage_fault", "Storage operation failed")
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
