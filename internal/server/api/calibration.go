package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/habitkicker/internal/app"
)

// CalibrationHandler handles HTTP requests for the posture calibration.
type CalibrationHandler struct {
	app *app.App
}

// NewCalibrationHandler creates a new CalibrationHandler for the given app.
func NewCalibrationHandler(a *app.App) *CalibrationHandler {
	return &CalibrationHandler{app: a}
}

type calibrationResponse struct {
	Calibrated   bool       `json:"calibrated"`
	Calibrating  bool       `json:"calibrating"`
	CalibratedAt *time.Time `json:"calibrated_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}

// ServeHTTP routes requests for /api/calibration.
func (h *CalibrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.start(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *CalibrationHandler) response() calibrationResponse {
	status := h.app.Status()
	resp := calibrationResponse{
		Calibrated:   status.Calibrated,
		Calibrating:  status.Calibrating,
		CalibratedAt: status.CalibratedAt,
	}
	if err := h.app.CalibrationError(); err != nil {
		resp.LastError = err.Error()
	}
	return resp
}

// get handles GET /api/calibration and returns the calibration state.
func (h *CalibrationHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.response())
}

// start handles POST /api/calibration and begins a calibration session.
// The session runs asynchronously in the pipeline; poll GET for the outcome.
func (h *CalibrationHandler) start(w http.ResponseWriter, r *http.Request) {
	if err := h.app.StartCalibration(); err != nil {
		if errors.Is(err, app.ErrCalibrationRunning) {
			writeError(w, http.StatusConflict, "Calibration already in progress")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to start calibration")
		return
	}

	writeJSON(w, http.StatusAccepted, h.response())
}

// clear handles DELETE /api/calibration and removes the posture baseline.
func (h *CalibrationHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.app.ClearCalibration(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear calibration")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
