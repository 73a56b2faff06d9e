package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Presence gate constants.
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
	// DefaultIdleTimeout is how long after the last motion the gate drops
	// back to idle.
	DefaultIdleTimeout = 2 * time.Second
)

// PresenceGate decides whether someone is at the desk, using frame
// differencing with Gaussian blur for noise reduction, and holds the
// active/idle mode with a timeout. The pipeline uses it to throttle the
// tracker: snapshots are analyzed at ActiveFPS while the gate is active and
// at IdleFPS otherwise, bounding tracker CPU when the desk is empty.
type PresenceGate struct {
	threshold   float64
	idleTimeout time.Duration
	prevGray    gocv.Mat
	initialized bool
	active      bool
	lastMotion  time.Time
	mu          sync.Mutex
}

// NewPresenceGate creates a gate with the given motion threshold (percentage
// of pixels that must change between frames) and idle timeout.
func NewPresenceGate(threshold float64, idleTimeout time.Duration) *PresenceGate {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &PresenceGate{
		threshold:   threshold,
		idleTimeout: idleTimeout,
		prevGray:    gocv.NewMat(),
	}
}

// Observe analyzes a frame and updates the active/idle mode.
// Returns whether the gate is active after this frame and the percentage of
// pixels that changed.
//
// Algorithm (per frame):
// 1. Convert to grayscale and blur (21x21) to reduce noise
// 2. First frame becomes the baseline, gate stays idle
// 3. Absolute difference with the previous frame, thresholded at 25
// 4. changePercent = non-zero pixels / total pixels
// 5. Motion above threshold marks presence; absence of motion for the idle
//    timeout drops the gate back to idle
func (g *PresenceGate) Observe(frame *gocv.Mat, now time.Time) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return g.active, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return g.active, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&g.prevGray)

	if changePercent > g.threshold {
		g.lastMotion = now
		g.active = true
	} else if g.active && now.Sub(g.lastMotion) > g.idleTimeout {
		g.active = false
	}

	return g.active, changePercent
}

// Active returns whether the gate currently considers someone present.
func (g *PresenceGate) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// SetThreshold sets the motion threshold. Values <= 0 are ignored.
func (g *PresenceGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.threshold = threshold
}

// Reset clears the gate state, allowing reuse with a new baseline frame.
func (g *PresenceGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
	g.active = false
	g.lastMotion = time.Time{}
}

// Close releases resources used by the gate.
func (g *PresenceGate) Close() {
	g.Reset()
}
