// Package main provides a sound notifier for macOS.
// It plays a short system sound when a habit alert enters.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
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
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// config allows overriding the sound file via the notifier manifest.
type config struct {
	Sound string `json:"sound"`
}

const defaultSound = "/System/Library/Sounds/Funk.aiff"

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(false, fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	// Only entering alerts make noise
	if req.Event != "entered" {
		writeResponse(true, "")
		return
	}

	sound := defaultSound
	if len(req.Config) > 0 {
		var cfg config
		if err := json.Unmarshal(req.Config, &cfg); err == nil && cfg.Sound != "" {
			sound = cfg.Sound
		}
	}

	if output, err := exec.Command("afplay", sound).CombinedOutput(); err != nil {
		writeResponse(false, fmt.Sprintf("afplay failed: %v: %s", err, string(output)))
		return
	}

	writeResponse(true, "")
}

func writeResponse(success bool, errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: success,
		Error:   errMsg,
	})
}
