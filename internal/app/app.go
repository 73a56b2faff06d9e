// Package app provides the main application logic for the HabitKicker habit
// detection system: it owns the camera pipeline, the habit engine, the
// notifier plugins, and persistence of thresholds, calibration, and alert
// history.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayusman/habitkicker/internal/capture"
	"github.com/ayusman/habitkicker/internal/habit"
	"github.com/ayusman/habitkicker/internal/notify"
	"github.com/ayusman/habitkicker/internal/store"
	"github.com/ayusman/habitkicker/internal/tracker"
)

// Pipeline timing constants.
const (
	// IdleTimeout is how long without motion before the pipeline drops back
	// to the idle frame rate.
	IdleTimeout = 2 * time.Second
	// CalibrationWindow is how long a calibration session samples the pose.
	CalibrationWindow = 3 * time.Second
	// CalibrationInterval is the spacing between calibration pose samples.
	CalibrationInterval = 100 * time.Millisecond
	// NotifierTimeoutMs bounds a single notifier execution.
	NotifierTimeoutMs = 5000
)

// ErrCalibrationRunning is returned when a calibration session is requested
// while one is already in progress.
var ErrCalibrationRunning = errors.New("calibration already in progress")

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	NotifierDir  string
	CameraID     int
	MotionThresh float64
}

// AlertNotice is one alert transition fanned out to subscribers (WebSocket
// clients, the tray) and handed to notifiers.
type AlertNotice struct {
	Habit      habit.Habit   `json:"habit"`
	Event      string        `json:"event"` // "entered" or "exited"
	Score      float64       `json:"score,omitempty"`
	Active     []habit.Habit `json:"active"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Status is a point-in-time summary of the application state.
type Status struct {
	Running      bool             `json:"running"`
	Enabled      bool             `json:"enabled"`
	Present      bool             `json:"present"`
	Calibrated   bool             `json:"calibrated"`
	CalibratedAt *time.Time       `json:"calibrated_at,omitempty"`
	Calibrating  bool             `json:"calibrating"`
	ActiveAlerts []habit.Habit    `json:"active_alerts"`
	Thresholds   habit.Thresholds `json:"thresholds"`
	// LastResult carries the raw observations of the most recent engine tick,
	// nil before the first tick.
	LastResult *habit.Result `json:"last_result,omitempty"`
}

// App is the main application that orchestrates habit detection and alert
// delivery.
type App struct {
	config     Config
	camera     capture.Camera
	gate       *capture.PresenceGate
	tracker    tracker.Tracker
	engine     *habit.Engine
	notifyMgr  *notify.Manager
	notifyExec *notify.Executor

	enabled bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.RWMutex

	// engineMu serializes every engine call: the engine itself is
	// single-threaded, and the pipeline goroutine ticks it while HTTP
	// handlers read and mutate it.
	engineMu sync.Mutex

	calibration *calibrationSession
	lastCalErr  error

	subscribers map[chan AlertNotice]bool
	lastAlert   *AlertNotice
	lastResult  *habit.Result
}

// New creates a new App instance with the given configuration.
// Persisted thresholds and calibration are loaded from the store; a missing
// row of either just leaves the defaults in place.
func New(config Config) (*App, error) {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	engine, err := habit.NewEngine(habit.DefaultThresholds())
	if err != nil {
		return nil, err
	}

	a := &App{
		config:      config,
		camera:      capture.NewCamera(config.CameraID),
		gate:        capture.NewPresenceGate(motionThreshold, IdleTimeout),
		engine:      engine,
		notifyMgr:   notify.NewManager(config.NotifierDir),
		notifyExec:  notify.NewExecutor(NotifierTimeoutMs),
		enabled:     false,
		subscribers: make(map[chan AlertNotice]bool),
	}

	if config.Store != nil {
		if t, err := config.Store.Settings().LoadThresholds(); err == nil {
			if err := a.engine.SetThresholds(t); err != nil {
				log.Printf("Ignoring persisted thresholds: %v", err)
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to load thresholds: %v", err)
		}

		if b, err := config.Store.Calibrations().Latest(); err == nil {
			a.engine.SetBaseline(b)
			log.Printf("Loaded posture calibration from %s", b.CapturedAt.Format(time.RFC3339))
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to load calibration: %v", err)
		}
	}

	// Try MediaPipe first, fall back to mock tracker
	if mp, err := tracker.NewMediaPipeTracker(tracker.DefaultConfig()); err == nil {
		a.tracker = mp
		log.Println("Using MediaPipe landmark tracking")
	} else {
		log.Printf("MediaPipe not available (%v), using mock tracker", err)
		a.tracker = tracker.NewMockTracker()
	}

	return a, nil
}

// SetEnabled enables or disables habit detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether habit detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetTracker sets the landmark tracker implementation to use.
func (a *App) SetTracker(t tracker.Tracker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracker = t
}

// SetCamera sets the camera implementation to use. Must be called before
// Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// DiscoverNotifiers scans the notifier directory and loads available notifiers.
func (a *App) DiscoverNotifiers() error {
	return a.notifyMgr.Discover()
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	a.mu.Unlock()

	a.wg.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.gate.Close()

	if a.tracker != nil {
		if err := a.tracker.Close(); err != nil {
			log.Printf("Error closing tracker: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// IsRunning returns whether the pipeline is currently running.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Status returns a snapshot of the current application state.
func (a *App) Status() Status {
	a.mu.RLock()
	running := a.stopCh != nil
	enabled := a.enabled
	calibrating := a.calibration != nil
	lastResult := a.lastResult
	a.mu.RUnlock()

	s := Status{
		Running:     running,
		Enabled:     enabled,
		Present:     a.gate.Active(),
		Calibrating: calibrating,
		LastResult:  lastResult,
	}

	a.engineMu.Lock()
	s.ActiveAlerts = a.engine.ActiveAlerts()
	s.Thresholds = a.engine.Thresholds()
	if at, ok := a.engine.CalibratedAt(); ok {
		s.Calibrated = true
		s.CalibratedAt = &at
	}
	a.engineMu.Unlock()

	return s
}

// SetThresholds validates and applies new detection thresholds, persisting
// them on success.
func (a *App) SetThresholds(t habit.Thresholds) error {
	a.engineMu.Lock()
	err := a.engine.SetThresholds(t)
	a.engineMu.Unlock()
	if err != nil {
		return err
	}

	if a.config.Store != nil {
		if err := a.config.Store.Settings().SaveThresholds(t); err != nil {
			log.Printf("Failed to persist thresholds: %v", err)
		}
	}

	return nil
}

// Thresholds returns the current detection thresholds.
func (a *App) Thresholds() habit.Thresholds {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.engine.Thresholds()
}

// ResetAlerts clears all alert state without touching calibration.
func (a *App) ResetAlerts() {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	a.engine.ResetAlerts()
}

// ClearCalibration removes the posture baseline from the engine and the
// store. Slouch detection reports unavailable until recalibrated.
func (a *App) ClearCalibration() error {
	a.engineMu.Lock()
	a.engine.ClearCalibration()
	a.engineMu.Unlock()

	if a.config.Store != nil {
		return a.config.Store.Calibrations().Clear()
	}
	return nil
}

// Engine returns the habit engine. Direct engine access bypasses the
// serialization the App methods provide; callers must not drive it while the
// pipeline is running.
func (a *App) Engine() *habit.Engine {
	return a.engine
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// PresenceGate returns the presence gate.
func (a *App) PresenceGate() *capture.PresenceGate {
	return a.gate
}

// NotifierManager returns the notifier manager.
func (a *App) NotifierManager() *notify.Manager {
	return a.notifyMgr
}

// Tracker returns the landmark tracker.
func (a *App) Tracker() tracker.Tracker {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tracker
}

// Subscribe registers a channel that receives every alert transition.
// Slow subscribers miss notices rather than blocking the pipeline.
func (a *App) Subscribe() chan AlertNotice {
	ch := make(chan AlertNotice, 16)
	a.mu.Lock()
	a.subscribers[ch] = true
	a.mu.Unlock()
	return ch
}

// Unsubscribe removes a previously subscribed channel and closes it.
func (a *App) Unsubscribe(ch chan AlertNotice) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.subscribers[ch] {
		delete(a.subscribers, ch)
		close(ch)
	}
}

// LastAlert returns the most recent alert transition, or nil if none has
// occurred since startup.
func (a *App) LastAlert() *AlertNotice {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastAlert
}
