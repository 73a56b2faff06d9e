package habit

import (
	"time"

	"github.com/ayusman/habitkicker/internal/landmark"
)

// HabitResult is the per-habit outcome of one engine tick.
type HabitResult struct {
	Habit      Habit       `json:"habit"`
	Raw        Observation `json:"raw"`
	Active     bool        `json:"active"`
	Transition Transition  `json:"transition"`
	// Score is the slouch deviation score; zero for the other habits.
	Score float64 `json:"score,omitempty"`
}

// Result aggregates the outcome of one engine tick. The fields are fixed per
// habit so replaying an identical snapshot sequence yields an identical
// result sequence.
type Result struct {
	Timestamp   time.Time   `json:"timestamp"`
	NailBiting  HabitResult `json:"nail_biting"`
	HairPulling HabitResult `json:"hair_pulling"`
	Slouching   HabitResult `json:"slouching"`
}

// ByHabit returns the result for the given habit.
func (r Result) ByHabit(h Habit) HabitResult {
	switch h {
	case NailBiting:
		return r.NailBiting
	case HairPulling:
		return r.HairPulling
	default:
		return r.Slouching
	}
}

// Transitions returns the per-habit results that changed alert state this
// tick, in the fixed habit order.
func (r Result) Transitions() []HabitResult {
	var out []HabitResult
	for _, h := range Habits {
		if hr := r.ByHabit(h); hr.Transition != Unchanged {
			out = append(out, hr)
		}
	}
	return out
}

// Engine orchestrates the classifiers, the calibration baseline, and one
// debouncer per habit. It is single-threaded: Tick is not reentrant and the
// engine must be driven from one goroutine. Time flows from snapshot
// timestamps, so identical input sequences produce identical results.
type Engine struct {
	thresholds Thresholds
	baseline   *Baseline
	debouncers map[Habit]*Debouncer
}

// NewEngine creates an engine with the given thresholds. Fails on invalid
// configuration.
func NewEngine(t Thresholds) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{thresholds: t}
	e.debouncers = map[Habit]*Debouncer{}
	for _, h := range Habits {
		e.debouncers[h] = NewDebouncer(t.Activation, t.Clear, t.Grace)
	}
	return e, nil
}

// SetThresholds replaces the detection configuration. Invalid configuration
// is rejected and the engine keeps operating on the last valid one.
// Debounce timing changes apply from the next tick; accumulated state is kept.
func (e *Engine) SetThresholds(t Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	e.thresholds = t
	for _, d := range e.debouncers {
		d.activation = t.Activation
		d.clear = t.Clear
		d.grace = t.Grace
	}
	return nil
}

// Thresholds returns the current detection configuration.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Tick evaluates all three classifiers against one snapshot, drives the
// debouncers with the snapshot timestamp, and returns the aggregate result.
// Classifier results are independent of each other; all share the single
// snapshot for consistency within the tick.
func (e *Engine) Tick(snap *landmark.Snapshot) Result {
	now := snap.Timestamp

	r := Result{Timestamp: now}
	r.NailBiting = e.observe(NailBiting, ClassifyNailBiting(snap, e.thresholds), 0, now)
	r.HairPulling = e.observe(HairPulling, ClassifyHairPulling(snap, e.thresholds), 0, now)

	raw, score := ClassifySlouching(snap, e.thresholds, e.baseline)
	r.Slouching = e.observe(Slouching, raw, score, now)

	return r
}

func (e *Engine) observe(h Habit, raw Observation, score float64, now time.Time) HabitResult {
	transition, active := e.debouncers[h].Observe(raw.Bool(), now)
	return HabitResult{
		Habit:      h,
		Raw:        raw,
		Active:     active,
		Transition: transition,
		Score:      score,
	}
}

// Calibrate derives a new posture baseline from the given pose samples and
// atomically replaces the current one. On success all debounce state is
// reset: a stale slouching alert must not persist through a recalibration.
// On failure (ErrInsufficientLandmarks) no state changes.
func (e *Engine) Calibrate(capturedAt time.Time, samples ...map[landmark.PoseLandmark]landmark.Point3D) error {
	b, err := NewBaseline(capturedAt, samples...)
	if err != nil {
		return err
	}
	e.SetBaseline(b)
	return nil
}

// SetBaseline installs an already-derived baseline (e.g. one loaded from the
// store at startup) and resets all debounce state. A nil baseline clears
// calibration.
func (e *Engine) SetBaseline(b *Baseline) {
	e.baseline = b
	e.ResetAlerts()
}

// ClearCalibration discards the baseline; slouch detection reports
// Unavailable until recalibrated.
func (e *Engine) ClearCalibration() {
	e.SetBaseline(nil)
}

// Baseline returns the current calibration baseline, or nil when
// uncalibrated.
func (e *Engine) Baseline() *Baseline {
	return e.baseline
}

// CalibratedAt returns the capture time of the current baseline; ok is false
// when uncalibrated.
func (e *Engine) CalibratedAt() (time.Time, bool) {
	if e.baseline == nil {
		return time.Time{}, false
	}
	return e.baseline.CapturedAt, true
}

// ResetAlerts forces every debouncer back to inactive.
func (e *Engine) ResetAlerts() {
	for _, d := range e.debouncers {
		d.Reset()
	}
}

// Active returns the stabilized alert state for one habit.
func (e *Engine) Active(h Habit) bool {
	d, ok := e.debouncers[h]
	return ok && d.Active()
}

// ActiveAlerts returns the habits whose alerts are currently active, in the
// fixed habit order.
func (e *Engine) ActiveAlerts() []Habit {
	var out []Habit
	for _, h := range Habits {
		if e.debouncers[h].Active() {
			out = append(out, h)
		}
	}
	return out
}
