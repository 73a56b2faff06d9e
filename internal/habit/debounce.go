package habit

import "time"

// Debouncer is the per-habit two-state machine that absorbs single-frame
// flicker from a noisy classifier stream. It activates after the raw
// condition has held true for the activation duration (tolerating false gaps
// up to the grace gap), and clears only after the condition has held false
// for the clear duration — deliberately longer by default, so the alert does
// not flicker at the boundary.
//
// Not safe for concurrent use; owned by a single Engine.
type Debouncer struct {
	activation time.Duration
	clear      time.Duration
	grace      time.Duration

	active       bool
	trueRunStart time.Time
	lastTrue     time.Time
	lastFalse    time.Time
}

// NewDebouncer creates a debouncer with the given timing configuration.
func NewDebouncer(activation, clear, grace time.Duration) *Debouncer {
	return &Debouncer{
		activation: activation,
		clear:      clear,
		grace:      grace,
	}
}

// Observe advances the debouncer with one raw reading and returns the
// transition that occurred this tick together with the stabilized alert
// state. The activation boundary is inclusive: a true run of exactly the
// activation duration activates.
func (d *Debouncer) Observe(raw bool, now time.Time) (Transition, bool) {
	if raw {
		// A gap with no observations of any kind longer than the grace gap
		// breaks the run (detection paused, camera lost): the stale run
		// start must not count toward activation. A false reading inside
		// the gap is the dropped-frame case grace exists for, handled below.
		lastObserved := d.lastTrue
		if d.lastFalse.After(lastObserved) {
			lastObserved = d.lastFalse
		}
		if !d.trueRunStart.IsZero() && now.Sub(lastObserved) > d.grace {
			d.trueRunStart = now
		}
		if d.trueRunStart.IsZero() {
			d.trueRunStart = now
		}
		d.lastTrue = now

		if !d.active && now.Sub(d.trueRunStart) >= d.activation {
			d.active = true
			return Entered, true
		}
		return Unchanged, d.active
	}

	d.lastFalse = now

	// A false gap longer than the grace gap breaks the accumulating run
	if !d.trueRunStart.IsZero() && now.Sub(d.lastTrue) > d.grace {
		d.trueRunStart = time.Time{}
	}

	if d.active && !d.lastTrue.IsZero() && now.Sub(d.lastTrue) >= d.clear {
		d.active = false
		d.trueRunStart = time.Time{}
		return Exited, false
	}
	return Unchanged, d.active
}

// Active returns the current stabilized alert state.
func (d *Debouncer) Active() bool {
	return d.active
}

// LastTrue returns the time of the most recent raw-true reading.
func (d *Debouncer) LastTrue() time.Time {
	return d.lastTrue
}

// LastFalse returns the time of the most recent raw-false reading.
func (d *Debouncer) LastFalse() time.Time {
	return d.lastFalse
}

// Reset forces the debouncer back to the inactive state and discards all
// accumulated durations. Used on recalibration and explicit alert reset.
func (d *Debouncer) Reset() {
	d.active = false
	d.trueRunStart = time.Time{}
	d.lastTrue = time.Time{}
	d.lastFalse = time.Time{}
}
