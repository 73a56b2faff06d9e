package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/habitkicker/internal/habit"
	"github.com/ayusman/habitkicker/internal/store"
)

// defaultEventLimit caps an unqualified event listing.
const defaultEventLimit = 100

// EventsHandler serves the alert event history.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler with the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

type eventResponse struct {
	ID         string  `json:"id"`
	Habit      string  `json:"habit"`
	Event      string  `json:"event"`
	Score      float64 `json:"score"`
	OccurredAt string  `json:"occurred_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

// ServeHTTP handles GET /api/events with optional ?limit= and ?habit=
// query parameters.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	var events []*store.AlertEvent
	var err error
	if raw := r.URL.Query().Get("habit"); raw != "" {
		events, err = h.store.Events().ListByHabit(habit.Habit(raw), limit)
	} else {
		events, err = h.store.Events().List(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			ID:         e.ID,
			Habit:      string(e.Habit),
			Event:      e.Event,
			Score:      e.Score,
			OccurredAt: e.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
