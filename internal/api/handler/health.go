package handler

import (
	"net/http"
)

// HealthHandler handles the health check endpoint.
type HealthHandler struct {
	message string
}

// NewHealthHandler creates a health handler with a service banner message.
func NewHealthHandler(message string) *HealthHandler {
	return &HealthHandler{message: message}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Check handles GET /health. It reports OK unconditionally: the service
// holds no state whose absence would make it unhealthy.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "OK",
		Message: h.message,
	})
}
