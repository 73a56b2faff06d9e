package app

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/habitkicker/internal/capture"
	"github.com/ayusman/habitkicker/internal/habit"
	"github.com/ayusman/habitkicker/internal/notify"
	"github.com/ayusman/habitkicker/internal/store"
)

// runPipeline is the main detection loop that processes frames from the
// camera.
//
// Pipeline logic:
// 1. Start in idle mode (capture.IdleFPS)
// 2. On motion, the presence gate switches to active mode (capture.ActiveFPS)
// 3. Run landmark tracking on the frame
// 4. During a calibration session, collect pose samples instead of detecting
// 5. Feed the snapshot to the habit engine and act on alert transitions
// 6. After IdleTimeout without motion, drop back to idle mode
//
// Tracking is skipped in idle mode unless a calibration session needs
// samples, bounding tracker CPU when nobody is at the desk.
func (a *App) runPipeline(stopCh chan struct{}) {
	defer a.wg.Done()

	activeMode := false
	frameInterval := time.Second / time.Duration(capture.IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			now := time.Now()
			present, _ := a.gate.Observe(frame, now)

			if present != activeMode {
				activeMode = present
				fps := capture.IdleFPS
				if activeMode {
					fps = capture.ActiveFPS
				}
				a.camera.SetFPS(fps)
				frameInterval = time.Second / time.Duration(fps)
				ticker.Reset(frameInterval)
				if activeMode {
					log.Println("Switched to active mode")
				} else {
					log.Println("Switched to idle mode")
				}
			}

			tracker := a.Tracker()
			calibrating := a.Status().Calibrating

			// Idle frames are not worth a tracker round trip unless a
			// calibration session is waiting on pose samples
			if (!activeMode && !calibrating) || tracker == nil {
				frame.Close()
				continue
			}

			snap, err := tracker.Track(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error tracking landmarks: %v", err)
				continue
			}

			if a.collectCalibration(snap, now) {
				continue
			}

			if snap == nil {
				continue
			}

			a.engineMu.Lock()
			result := a.engine.Tick(snap)
			a.engineMu.Unlock()

			a.mu.Lock()
			a.lastResult = &result
			a.mu.Unlock()
			for _, hr := range result.Transitions() {
				a.RecordTransition(hr, result.Timestamp)
			}
		}
	}
}

// RecordTransition logs, persists, and fans out one alert transition. The
// pipeline calls it for every transition the engine reports.
func (a *App) RecordTransition(hr habit.HabitResult, occurredAt time.Time) {
	log.Printf("Alert %s: %s (score %.3f)", hr.Transition, hr.Habit, hr.Score)

	a.engineMu.Lock()
	active := a.engine.ActiveAlerts()
	a.engineMu.Unlock()

	notice := AlertNotice{
		Habit:      hr.Habit,
		Event:      hr.Transition.String(),
		Score:      hr.Score,
		Active:     active,
		OccurredAt: occurredAt,
	}

	if a.config.Store != nil {
		event := &store.AlertEvent{
			ID:         uuid.New().String(),
			Habit:      hr.Habit,
			Event:      notice.Event,
			Score:      hr.Score,
			OccurredAt: occurredAt,
		}
		if err := a.config.Store.Events().Create(event); err != nil {
			log.Printf("Failed to persist alert event: %v", err)
		}
	}

	a.mu.Lock()
	a.lastAlert = &notice
	for ch := range a.subscribers {
		select {
		case ch <- notice:
		default: // Drop rather than stall the pipeline
		}
	}
	a.mu.Unlock()

	go a.runNotifiers(notice)
}

// runNotifiers delivers an alert transition to every discovered notifier.
func (a *App) runNotifiers(notice AlertNotice) {
	notifiers := a.notifyMgr.List()
	if len(notifiers) == 0 {
		return
	}

	active := make([]string, len(notice.Active))
	for i, h := range notice.Active {
		active[i] = string(h)
	}

	req := &notify.Request{
		Habit:      string(notice.Habit),
		Event:      notice.Event,
		Active:     active,
		Score:      notice.Score,
		OccurredAt: notice.OccurredAt,
	}

	for _, n := range notifiers {
		resp, err := a.notifyExec.Execute(n, req)
		if err != nil {
			log.Printf("Notifier %s failed: %v", n.Manifest.Name, err)
			continue
		}
		if !resp.Success {
			log.Printf("Notifier %s reported error: %s", n.Manifest.Name, resp.Error)
		}
	}
}
