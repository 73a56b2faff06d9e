// Package notify provides notifier management and execution for the
// HabitKicker habit detection system. Notifiers are external executables
// discovered from a directory; the app invokes every discovered notifier on
// each alert transition.
package notify

import (
	"encoding/json"
	"time"
)

// Manifest describes a notifier's metadata.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request represents an alert transition sent to a notifier for delivery.
type Request struct {
	Habit      string          `json:"habit"`
	Event      string          `json:"event"` // "entered" or "exited"
	Active     []string        `json:"active"`
	Score      float64         `json:"score,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Config     json.RawMessage `json:"config,omitempty"`
}

// Response represents the response from a notifier execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Notifier represents a discovered notifier with its manifest and location.
type Notifier struct {
	Manifest   Manifest
	Path       string
	Executable string
}
