package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/habitkicker/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// AlertsHandler pushes alert transitions to WebSocket clients as they happen.
type AlertsHandler struct {
	app *app.App
}

// NewAlertsHandler creates a new AlertsHandler for the given app.
func NewAlertsHandler(a *app.App) *AlertsHandler {
	return &AlertsHandler{app: a}
}

// ServeHTTP upgrades the connection and streams alert notices until the
// client disconnects.
func (h *AlertsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	notices := h.app.Subscribe()
	defer h.app.Unsubscribe(notices)

	// Reader goroutine: its only job is to notice the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case notice, ok := <-notices:
			if !ok {
				return
			}
			if err := conn.WriteJSON(notice); err != nil {
				return
			}
		}
	}
}
