package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iconidentify/vidrelay/internal/domain"
)

// ErrorResponse is the uniform JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeErrorDetails(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// errorStatus maps domain sentinel errors to HTTP status codes:
// invalid input 400, nothing usable found 404, upstream failure 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrVideoNotFound), errors.Is(err, domain.ErrNoStreams):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
