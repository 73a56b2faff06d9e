// Package main provides a desktop notification notifier for macOS.
// It posts a notification via AppleScript when a habit alert enters or exits.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Request represents the input from the notifier executor.
type Request struct {
	Habit      string          `json:"habit"`
	Event      string          `json:"event"`
	Active     []string        `json:"active"`
	Score      float64         `json:"score,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Config     json.RawMessage `json:"config,omitempty"`
}

// Response represents the output to the notifier executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// messages maps habit names to the nudge shown when the alert fires.
var messages = map[string]string{
	"nail_biting":  "Hands away from your mouth!",
	"hair_pulling": "Leave your hair alone!",
	"slouching":    "Sit up straight!",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	// Exits just clear the notification state, nothing to show
	if req.Event != "entered" {
		writeSuccessResponse()
		return
	}

	message, ok := messages[req.Habit]
	if !ok {
		message = "Habit alert: " + req.Habit
	}

	if err := notify("HabitKicker", message); err != nil {
		writeErrorResponse(fmt.Sprintf("notification failed: %v", err))
		return
	}

	writeSuccessResponse()
}

// notify posts a desktop notification via AppleScript.
func notify(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`,
		strings.ReplaceAll(message, `"`, ""), strings.ReplaceAll(title, `"`, ""))
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: true,
	})
}
