// Package habit implements the habit-state engine: per-frame geometric
// classifiers for nail-biting, hair-pulling and slouching, the posture
// calibration baseline, and the temporal debouncers that turn noisy
// frame-by-frame signals into stable alert state.
package habit

// Habit identifies one of the detected habits. The habit set is closed:
// classifiers and debouncers exist for exactly these three.
type Habit string

const (
	// NailBiting is detected from fingertip-to-mouth proximity.
	NailBiting Habit = "nail_biting"
	// HairPulling is detected from a pinching hand shape at the hairline.
	HairPulling Habit = "hair_pulling"
	// Slouching is detected from posture deviation against a calibrated baseline.
	Slouching Habit = "slouching"
)

// Habits lists all habits in a fixed evaluation order.
var Habits = []Habit{NailBiting, HairPulling, Slouching}

// Observation is the tri-state raw classifier result for one frame.
// Unavailable means the snapshot lacked the landmarks needed to evaluate;
// the engine feeds it to the debouncer as false, so alerts never fire on
// absent data.
type Observation int

const (
	ObservedFalse Observation = iota
	ObservedTrue
	Unavailable
)

// Bool reports whether the observation is a positive detection.
func (o Observation) Bool() bool {
	return o == ObservedTrue
}

// String returns the observation as a lowercase label.
func (o Observation) String() string {
	switch o {
	case ObservedTrue:
		return "true"
	case Unavailable:
		return "unavailable"
	default:
		return "false"
	}
}

// Transition reports whether a debouncer changed state on a tick.
type Transition int

const (
	// Unchanged means the stabilized alert state did not change this tick.
	Unchanged Transition = iota
	// Entered means the alert became active this tick.
	Entered
	// Exited means the alert cleared this tick.
	Exited
)

// String returns the transition as a lowercase label.
func (t Transition) String() string {
	switch t {
	case Entered:
		return "entered"
	case Exited:
		return "exited"
	default:
		return "unchanged"
	}
}
