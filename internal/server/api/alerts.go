package api

import (
	"net/http"

	"github.com/ayusman/habitkicker/internal/app"
)

// AlertsResetHandler clears all active alert state.
type AlertsResetHandler struct {
	app *app.App
}

// NewAlertsResetHandler creates a new AlertsResetHandler for the given app.
func NewAlertsResetHandler(a *app.App) *AlertsResetHandler {
	return &AlertsResetHandler{app: a}
}

// ServeHTTP handles POST /api/alerts/reset. Calibration is untouched; only
// the debounce state and active alerts are dropped.
func (h *AlertsResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	h.app.ResetAlerts()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active_alerts": h.app.Status().ActiveAlerts,
	})
}
