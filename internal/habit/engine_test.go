package habit

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ayusman/habitkicker/internal/landmark"
)

var engineStart = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultThresholds())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine_InvalidThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.NailBiteDistance = -1
	if _, err := NewEngine(th); !errors.Is(err, ErrInvalidThresholds) {
		t.Errorf("NewEngine() error = %v, want ErrInvalidThresholds", err)
	}
}

func TestEngine_SetThresholds_KeepsLastValid(t *testing.T) {
	e := newTestEngine(t)

	bad := DefaultThresholds()
	bad.SlouchDeviation = 2.0
	if err := e.SetThresholds(bad); !errors.Is(err, ErrInvalidThresholds) {
		t.Fatalf("SetThresholds() error = %v, want ErrInvalidThresholds", err)
	}

	if got := e.Thresholds(); got != DefaultThresholds() {
		t.Errorf("Thresholds() = %+v, want defaults preserved", got)
	}

	good := DefaultThresholds()
	good.NailBiteDistance = 0.08
	if err := e.SetThresholds(good); err != nil {
		t.Fatalf("SetThresholds() error = %v", err)
	}
	if e.Thresholds().NailBiteDistance != 0.08 {
		t.Error("valid thresholds were not applied")
	}
}

func TestEngine_NailBitingScenario(t *testing.T) {
	e := newTestEngine(t)

	// Scenario 1: 10 ticks at 0.5s spacing with a fingertip 0.02 from the
	// mouth center. Activation fires by tick 3 and the alert stays active.
	var lastResult Result
	for i := 0; i < 10; i++ {
		ts := engineStart.Add(time.Duration(i) * 500 * time.Millisecond)
		lastResult = e.Tick(bitingSnapshot(ts, 0.02))

		switch {
		case i < 2:
			if lastResult.NailBiting.Active {
				t.Errorf("tick %d: active before activation window", i+1)
			}
		case i == 2:
			if lastResult.NailBiting.Transition != Entered {
				t.Errorf("tick 3: transition = %v, want entered", lastResult.NailBiting.Transition)
			}
		default:
			if !lastResult.NailBiting.Active || lastResult.NailBiting.Transition != Unchanged {
				t.Errorf("tick %d: active = %v transition = %v, want active/unchanged",
					i+1, lastResult.NailBiting.Active, lastResult.NailBiting.Transition)
			}
		}
	}

	if lastResult.NailBiting.Raw != ObservedTrue {
		t.Errorf("raw = %v, want true", lastResult.NailBiting.Raw)
	}
	if !e.Active(NailBiting) {
		t.Error("Active(NailBiting) = false after sustained detection")
	}
	if got := e.ActiveAlerts(); !reflect.DeepEqual(got, []Habit{NailBiting}) {
		t.Errorf("ActiveAlerts() = %v, want [nail_biting]", got)
	}

	// Scenario 2: the fingertip moves away. 2s of false keeps the alert
	// active (hysteresis); 3s of false clears it.
	lastTrue := engineStart.Add(9 * 500 * time.Millisecond)
	for i := 1; i <= 4; i++ {
		r := e.Tick(bitingSnapshot(lastTrue.Add(time.Duration(i)*500*time.Millisecond), 0.2))
		if !r.NailBiting.Active {
			t.Fatalf("false tick %d: alert cleared after only %v", i, time.Duration(i)*500*time.Millisecond)
		}
	}

	e.Tick(bitingSnapshot(lastTrue.Add(2500*time.Millisecond), 0.2))
	r := e.Tick(bitingSnapshot(lastTrue.Add(3*time.Second), 0.2))
	if r.NailBiting.Transition != Exited {
		t.Errorf("transition = %v after 3s of false, want exited", r.NailBiting.Transition)
	}
	if r.NailBiting.Active {
		t.Error("active = true after clear duration elapsed")
	}
}

func TestEngine_NoHandsNeverAlerts(t *testing.T) {
	e := newTestEngine(t)

	for i := 0; i < 20; i++ {
		snap := snapshotAt(engineStart.Add(time.Duration(i) * 500 * time.Millisecond))
		r := e.Tick(snap)

		if r.NailBiting.Raw == ObservedTrue || r.HairPulling.Raw == ObservedTrue {
			t.Fatalf("tick %d: raw true without hands", i+1)
		}
		if r.NailBiting.Active || r.HairPulling.Active {
			t.Fatalf("tick %d: alert active without hands", i+1)
		}
	}
}

func TestEngine_SlouchRequiresCalibration(t *testing.T) {
	e := newTestEngine(t)

	r := e.Tick(poseSnapshot(engineStart, uprightPose()))
	if r.Slouching.Raw != Unavailable {
		t.Fatalf("slouch raw = %v before calibration, want unavailable", r.Slouching.Raw)
	}

	if err := e.Calibrate(engineStart, uprightPose()); err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}

	// Evaluable on the immediately following tick
	r = e.Tick(poseSnapshot(engineStart.Add(500*time.Millisecond), uprightPose()))
	if r.Slouching.Raw != ObservedFalse {
		t.Errorf("slouch raw = %v after calibration, want false for upright pose", r.Slouching.Raw)
	}

	e.ClearCalibration()
	r = e.Tick(poseSnapshot(engineStart.Add(time.Second), uprightPose()))
	if r.Slouching.Raw != Unavailable {
		t.Errorf("slouch raw = %v after ClearCalibration, want unavailable", r.Slouching.Raw)
	}
}

func TestEngine_CalibrateInsufficientLandmarksLeavesStateUnchanged(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Calibrate(engineStart, uprightPose()); err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}
	before := e.Baseline()

	// Scenario 3: pose missing the shoulder landmarks (no neck derivable)
	incomplete := map[landmark.PoseLandmark]landmark.Point3D{
		landmark.Nose: {X: 0.5, Y: 0.3},
	}
	err := e.Calibrate(engineStart.Add(time.Minute), incomplete)
	if !errors.Is(err, ErrInsufficientLandmarks) {
		t.Fatalf("Calibrate() error = %v, want ErrInsufficientLandmarks", err)
	}

	if e.Baseline() != before {
		t.Error("baseline changed after failed calibration")
	}
	if at, ok := e.CalibratedAt(); !ok || !at.Equal(engineStart) {
		t.Errorf("CalibratedAt() = %v %v, want original capture time", at, ok)
	}
}

func TestEngine_RecalibrationResetsDebounce(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Calibrate(engineStart, uprightPose()); err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}

	// Drive a slouching alert active
	slouched := map[landmark.PoseLandmark]landmark.Point3D{
		landmark.LeftShoulder:  {X: 0.40, Y: 0.75},
		landmark.RightShoulder: {X: 0.60, Y: 0.75},
		landmark.Nose:          {X: 0.50, Y: 0.55},
	}
	for i := 0; i < 5; i++ {
		e.Tick(poseSnapshot(engineStart.Add(time.Duration(i)*500*time.Millisecond), slouched))
	}
	if !e.Active(Slouching) {
		t.Fatal("slouching alert should be active before recalibration")
	}

	// Recalibrating to the slouched pose must clear the stale alert within
	// the same call
	if err := e.Calibrate(engineStart.Add(time.Minute), slouched); err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}
	if e.Active(Slouching) {
		t.Error("slouching alert survived recalibration")
	}
}

func TestEngine_ResetAlerts(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 5; i++ {
		e.Tick(bitingSnapshot(engineStart.Add(time.Duration(i)*500*time.Millisecond), 0.02))
	}
	if !e.Active(NailBiting) {
		t.Fatal("nail-biting alert should be active")
	}

	e.ResetAlerts()
	if len(e.ActiveAlerts()) != 0 {
		t.Errorf("ActiveAlerts() = %v after reset, want none", e.ActiveAlerts())
	}
}

func TestEngine_Deterministic(t *testing.T) {
	run := func() []Result {
		e, err := NewEngine(DefaultThresholds())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if err := e.Calibrate(engineStart, uprightPose()); err != nil {
			t.Fatalf("Calibrate() error = %v", err)
		}

		var results []Result
		for i := 0; i < 30; i++ {
			ts := engineStart.Add(time.Duration(i) * 400 * time.Millisecond)
			var snap *landmark.Snapshot
			switch {
			case i%7 == 0:
				snap = snapshotAt(ts) // tracking dropout
			case i < 15:
				snap = bitingSnapshot(ts, 0.02)
			default:
				snap = bitingSnapshot(ts, 0.2)
			}
			snap.Pose = uprightPose()
			results = append(results, e.Tick(snap))
		}
		return results
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Error("identical snapshot sequences produced different result sequences")
	}
}

func TestResult_Transitions(t *testing.T) {
	r := Result{
		NailBiting:  HabitResult{Habit: NailBiting, Transition: Entered, Active: true},
		HairPulling: HabitResult{Habit: HairPulling},
		Slouching:   HabitResult{Habit: Slouching, Transition: Exited},
	}

	got := r.Transitions()
	if len(got) != 2 || got[0].Habit != NailBiting || got[1].Habit != Slouching {
		t.Errorf("Transitions() = %v, want nail_biting entered and slouching exited", got)
	}
}
