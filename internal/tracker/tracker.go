// Package tracker provides landmark tracking interfaces and implementations.
// A tracker turns a video frame into one landmark snapshot (face, hands,
// pose) per invocation; the habit engine only ever consumes the snapshot.
package tracker

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/habitkicker/internal/landmark"
)

// Tracker defines the interface for landmark tracking implementations.
type Tracker interface {
	// Track analyzes a video frame and returns the landmark snapshot.
	// Face, hands, and pose are each optional in the result: tracking can
	// drop in and out per frame.
	Track(frame *gocv.Mat) (*landmark.Snapshot, error)

	// Close releases any resources held by the tracker.
	Close() error
}

// Config holds configuration options for landmark tracking.
type Config struct {
	// MaxHands is the maximum number of hands to track (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
