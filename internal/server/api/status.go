// Package api provides HTTP API handlers for the HabitKicker habit detection
// system.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/habitkicker/internal/app"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// StatusHandler serves the application status summary.
type StatusHandler struct {
	app *app.App
}

// NewStatusHandler creates a new StatusHandler for the given app.
func NewStatusHandler(a *app.App) *StatusHandler {
	return &StatusHandler{app: a}
}

// ServeHTTP handles GET /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, h.app.Status())
}
