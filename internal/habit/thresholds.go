package habit

import (
	"errors"
	"fmt"
	"time"
)

// Default detection thresholds. Distances are in normalized image space
// (MediaPipe coordinates, 0..1 across the frame).
const (
	DefaultNailBiteDistance = 0.05
	DefaultHairPullDistance = 0.06
	DefaultFingerProximity  = 0.05
	DefaultSlouchDeviation  = 0.15

	DefaultActivation = 1 * time.Second
	DefaultClear      = 3 * time.Second
	// DefaultGrace tolerates a single dropped-frame false reading at the
	// usual 2-5 snapshots per second.
	DefaultGrace = 600 * time.Millisecond
)

// Slouch factor weights. These are fixed design constants, not configuration:
// the only tunable slouch parameter is the deviation threshold.
const (
	slouchShoulderWeight = 0.40
	slouchAngleWeight    = 0.30
	slouchDistanceWeight = 0.30
)

// ErrInvalidThresholds wraps all threshold validation failures.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// Thresholds holds the externally supplied detection configuration.
// The engine validates on set and never mutates it.
type Thresholds struct {
	// NailBiteDistance is the maximum fingertip-to-mouth-center distance.
	NailBiteDistance float64 `json:"nail_bite_distance"`
	// HairPullDistance is the maximum fingertip-to-hairline distance.
	HairPullDistance float64 `json:"hair_pull_distance"`
	// FingerProximity is the maximum fingertip-to-fingertip distance for
	// the pinching-shape requirement of hair-pull detection.
	FingerProximity float64 `json:"finger_proximity"`
	// SlouchDeviation is the weighted deviation score at which slouching
	// is reported, in (0, 1].
	SlouchDeviation float64 `json:"slouch_deviation"`

	// Activation is how long the raw condition must hold true before an
	// alert activates.
	Activation time.Duration `json:"activation"`
	// Clear is how long the raw condition must hold false before an active
	// alert clears. Keeping it longer than Activation gives hysteresis;
	// that relation is recommended, not enforced.
	Clear time.Duration `json:"clear"`
	// Grace is the maximum false gap that does not break an accumulating
	// true run (absorbs transient tracking loss).
	Grace time.Duration `json:"grace"`
}

// DefaultThresholds returns the threshold set with all default values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NailBiteDistance: DefaultNailBiteDistance,
		HairPullDistance: DefaultHairPullDistance,
		FingerProximity:  DefaultFingerProximity,
		SlouchDeviation:  DefaultSlouchDeviation,
		Activation:       DefaultActivation,
		Clear:            DefaultClear,
		Grace:            DefaultGrace,
	}
}

// Validate checks that every threshold is in its allowed range.
func (t Thresholds) Validate() error {
	if t.NailBiteDistance <= 0 {
		return fmt.Errorf("%w: nail bite distance must be positive, got %f", ErrInvalidThresholds, t.NailBiteDistance)
	}
	if t.HairPullDistance <= 0 {
		return fmt.Errorf("%w: hair pull distance must be positive, got %f", ErrInvalidThresholds, t.HairPullDistance)
	}
	if t.FingerProximity <= 0 {
		return fmt.Errorf("%w: finger proximity must be positive, got %f", ErrInvalidThresholds, t.FingerProximity)
	}
	if t.SlouchDeviation <= 0 || t.SlouchDeviation > 1 {
		return fmt.Errorf("%w: slouch deviation must be in (0, 1], got %f", ErrInvalidThresholds, t.SlouchDeviation)
	}
	if t.Activation <= 0 {
		return fmt.Errorf("%w: activation duration must be positive, got %v", ErrInvalidThresholds, t.Activation)
	}
	if t.Clear <= 0 {
		return fmt.Errorf("%w: clear duration must be positive, got %v", ErrInvalidThresholds, t.Clear)
	}
	if t.Grace < 0 {
		return fmt.Errorf("%w: grace gap must not be negative, got %v", ErrInvalidThresholds, t.Grace)
	}
	return nil
}
