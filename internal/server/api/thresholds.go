package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/habitkicker/internal/app"
	"github.com/ayusman/habitkicker/internal/habit"
)

// ThresholdsHandler handles HTTP requests for the detection thresholds.
type ThresholdsHandler struct {
	app *app.App
}

// NewThresholdsHandler creates a new ThresholdsHandler for the given app.
func NewThresholdsHandler(a *app.App) *ThresholdsHandler {
	return &ThresholdsHandler{app: a}
}

// ServeHTTP routes requests for /api/thresholds.
func (h *ThresholdsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// get handles GET /api/thresholds and returns the current thresholds.
func (h *ThresholdsHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Thresholds())
}

// update handles PUT /api/thresholds. The body is a full threshold set;
// fields left out of the JSON keep their current value.
func (h *ThresholdsHandler) update(w http.ResponseWriter, r *http.Request) {
	// Start from the current set so partial updates keep the rest
	t := h.app.Thresholds()
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.app.SetThresholds(t); err != nil {
		if errors.Is(err, habit.ErrInvalidThresholds) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update thresholds")
		return
	}

	writeJSON(w, http.StatusOK, h.app.Thresholds())
}
