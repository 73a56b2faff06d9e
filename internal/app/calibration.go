package app

import (
	"log"
	"time"

	"github.com/ayusman/habitkicker/internal/landmark"
)

// calibrationSession accumulates pose samples over the calibration window.
type calibrationSession struct {
	samples    []map[landmark.PoseLandmark]landmark.Point3D
	startedAt  time.Time
	lastSample time.Time
}

// StartCalibration begins a calibration session. For the next
// CalibrationWindow the pipeline collects pose samples roughly every
// CalibrationInterval and averages them into a new posture baseline.
// Returns ErrCalibrationRunning if a session is already active.
func (a *App) StartCalibration() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.calibration != nil {
		return ErrCalibrationRunning
	}

	a.calibration = &calibrationSession{startedAt: time.Now()}
	a.lastCalErr = nil
	log.Println("Calibration session started")
	return nil
}

// CalibrationError returns the error from the most recent calibration
// session, or nil if it succeeded or none has run.
func (a *App) CalibrationError() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastCalErr
}

// collectCalibration feeds one snapshot into the running session, finishing
// the session once the window has elapsed. Returns true while a session is
// active (the tick is consumed by calibration, not detection).
func (a *App) collectCalibration(snap *landmark.Snapshot, now time.Time) bool {
	a.mu.Lock()
	session := a.calibration
	a.mu.Unlock()

	if session == nil {
		return false
	}

	if snap != nil && len(snap.Pose) > 0 && now.Sub(session.lastSample) >= CalibrationInterval {
		session.samples = append(session.samples, snap.Pose)
		session.lastSample = now
	}

	if now.Sub(session.startedAt) < CalibrationWindow {
		return true
	}

	a.finishCalibration(session, now)
	return true
}

// finishCalibration averages the collected samples into a baseline. On
// failure the engine keeps whatever calibration it had before.
func (a *App) finishCalibration(session *calibrationSession, capturedAt time.Time) {
	a.engineMu.Lock()
	err := a.engine.Calibrate(capturedAt, session.samples...)
	baseline := a.engine.Baseline()
	a.engineMu.Unlock()

	a.mu.Lock()
	a.calibration = nil
	a.lastCalErr = err
	a.mu.Unlock()

	if err != nil {
		log.Printf("Calibration failed after %d samples: %v", len(session.samples), err)
		return
	}

	log.Printf("Calibration complete, %d samples averaged", len(session.samples))

	if a.config.Store != nil && baseline != nil {
		if err := a.config.Store.Calibrations().Save(baseline); err != nil {
			log.Printf("Failed to persist calibration: %v", err)
		}
	}
}
