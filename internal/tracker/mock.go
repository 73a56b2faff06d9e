package tracker

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/habitkicker/internal/landmark"
)

// MockTracker is a test implementation of the Tracker interface.
// It allows tests to control the tracking results.
type MockTracker struct {
	snapshot *landmark.Snapshot
	err      error
}

// NewMockTracker creates a new MockTracker instance.
func NewMockTracker() *MockTracker {
	return &MockTracker{}
}

// SetSnapshot sets the snapshot that will be returned by Track.
func (m *MockTracker) SetSnapshot(snap *landmark.Snapshot) {
	m.snapshot = snap
}

// SetError sets the error that will be returned by Track.
func (m *MockTracker) SetError(err error) {
	m.err = err
}

// Track returns the pre-configured snapshot or error. The snapshot's
// timestamp is stamped with the current time on each call so it can drive
// the engine's debounce clocks in integration tests.
func (m *MockTracker) Track(frame *gocv.Mat) (*landmark.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.snapshot == nil {
		return &landmark.Snapshot{Timestamp: time.Now()}, nil
	}
	snap := *m.snapshot
	snap.Timestamp = time.Now()
	return &snap, nil
}

// Close is a no-op for the mock tracker.
func (m *MockTracker) Close() error {
	return nil
}

// Fixture snapshots for tests. Coordinates are normalized image space with
// the face around (0.5, 0.35) and shoulders around y=0.6, roughly what the
// tracker reports for a person seated at a webcam.

// faceFixture returns the face landmark set used by all fixtures.
func faceFixture() map[landmark.FaceLandmark]landmark.Point3D {
	return map[landmark.FaceLandmark]landmark.Point3D{
		landmark.MouthCenter:   {X: 0.50, Y: 0.45, Z: -0.02},
		landmark.HairlineLeft:  {X: 0.38, Y: 0.22, Z: 0.01},
		landmark.HairlineRight: {X: 0.62, Y: 0.22, Z: 0.01},
		landmark.NoseTip:       {X: 0.50, Y: 0.38, Z: -0.03},
	}
}

// uprightPoseFixture returns an upright seated pose.
func uprightPoseFixture() map[landmark.PoseLandmark]landmark.Point3D {
	return map[landmark.PoseLandmark]landmark.Point3D{
		landmark.LeftShoulder:  {X: 0.38, Y: 0.62, Z: -0.1},
		landmark.RightShoulder: {X: 0.62, Y: 0.62, Z: -0.1},
		landmark.Nose:          {X: 0.50, Y: 0.36, Z: -0.25},
	}
}

// UprightSnapshot returns a snapshot of an upright person with a visible
// face and no hands in frame.
func UprightSnapshot() *landmark.Snapshot {
	return &landmark.Snapshot{
		Face: faceFixture(),
		Pose: uprightPoseFixture(),
	}
}

// SlouchedSnapshot returns a snapshot of the same person collapsed forward:
// shoulders risen in the frame, head dropped toward the camera.
func SlouchedSnapshot() *landmark.Snapshot {
	return &landmark.Snapshot{
		Face: faceFixture(),
		Pose: map[landmark.PoseLandmark]landmark.Point3D{
			landmark.LeftShoulder:  {X: 0.38, Y: 0.74, Z: -0.1},
			landmark.RightShoulder: {X: 0.62, Y: 0.74, Z: -0.1},
			landmark.Nose:          {X: 0.50, Y: 0.56, Z: -0.15},
		},
	}
}

// BitingSnapshot returns a snapshot with an index fingertip touching the
// mouth center.
func BitingSnapshot() *landmark.Snapshot {
	snap := UprightSnapshot()
	snap.Hands = []landmark.HandLandmarks{
		{
			Tips: map[landmark.Fingertip]landmark.Point3D{
				landmark.ThumbTip:  {X: 0.46, Y: 0.52, Z: -0.01},
				landmark.IndexTip:  {X: 0.50, Y: 0.46, Z: -0.02},
				landmark.MiddleTip: {X: 0.52, Y: 0.53, Z: -0.01},
			},
			Handedness: "Right",
			Score:      0.93,
		},
	}
	return snap
}

// PullingSnapshot returns a snapshot with a thumb-index pinch at the left
// hairline.
func PullingSnapshot() *landmark.Snapshot {
	snap := UprightSnapshot()
	snap.Hands = []landmark.HandLandmarks{
		{
			Tips: map[landmark.Fingertip]landmark.Point3D{
				landmark.ThumbTip: {X: 0.39, Y: 0.23, Z: 0.0},
				landmark.IndexTip: {X: 0.40, Y: 0.21, Z: 0.0},
				landmark.RingTip:  {X: 0.44, Y: 0.30, Z: 0.0},
			},
			Handedness: "Left",
			Score:      0.91,
		},
	}
	return snap
}

// IdleSnapshot returns a snapshot with hands in frame but away from the
// face, the resting position between habit episodes.
func IdleSnapshot() *landmark.Snapshot {
	snap := UprightSnapshot()
	snap.Hands = []landmark.HandLandmarks{
		{
			Tips: map[landmark.Fingertip]landmark.Point3D{
				landmark.ThumbTip: {X: 0.25, Y: 0.85, Z: 0.0},
				landmark.IndexTip: {X: 0.28, Y: 0.88, Z: 0.0},
			},
			Handedness: "Right",
			Score:      0.9,
		},
	}
	return snap
}

// EmptySnapshot returns a snapshot with nothing detected, as produced when
// the desk is empty or tracking drops out.
func EmptySnapshot() *landmark.Snapshot {
	return &landmark.Snapshot{}
}
