package tracker

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/habitkicker/internal/landmark"
)

// MediaPipeTracker implements Tracker using a Python MediaPipe subprocess
// running the holistic face/hands/pose models.
type MediaPipeTracker struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewMediaPipeTracker creates a new MediaPipe tracker.
// The Python process is started lazily on the first Track call.
func NewMediaPipeTracker(config Config) (*MediaPipeTracker, error) {
	scriptPath := findMediaPipeScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("mediapipe_service.py not found")
	}

	return &MediaPipeTracker{
		config: config,
	}, nil
}

// Track analyzes a frame and returns the landmark snapshot.
func (t *MediaPipeTracker) Track(frame *gocv.Mat) (*landmark.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureStarted(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := t.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := t.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := t.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response jsonSnapshot
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	t.lastUsed = time.Now()
	t.resetIdleTimer()

	return response.toSnapshot(time.Now()), nil
}

// Close shuts down the Python process.
func (t *MediaPipeTracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shutdown()
}

func (t *MediaPipeTracker) ensureStarted() error {
	if t.started {
		return nil
	}

	scriptPath := findMediaPipeScript()
	if scriptPath == "" {
		return fmt.Errorf("mediapipe_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	t.cmd = exec.Command(pythonPath, scriptPath)

	stdin, err := t.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := t.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	t.cmd.Stderr = os.Stderr

	if err := t.cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	t.stdin = stdin
	t.stdout = bufio.NewReader(stdout)
	t.started = true
	t.lastUsed = time.Now()

	return nil
}

func (t *MediaPipeTracker) shutdown() error {
	if !t.started {
		return nil
	}

	if t.idleTimer != nil {
		t.idleTimer.Stop()
		t.idleTimer = nil
	}

	if t.stdin != nil {
		t.stdin.Close()
	}

	err := t.cmd.Wait()
	t.started = false
	t.cmd = nil
	t.stdin = nil
	t.stdout = nil

	return err
}

func (t *MediaPipeTracker) resetIdleTimer() {
	if t.idleTimer != nil {
		t.idleTimer.Stop()
	}
	t.idleTimer = time.AfterFunc(30*time.Second, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.shutdown()
	})
}

func findMediaPipeScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/mediapipe_service.py",
		"../scripts/mediapipe_service.py",
		filepath.Join(execDir, "scripts/mediapipe_service.py"),
		filepath.Join(os.Getenv("HOME"), ".habitkicker/scripts/mediapipe_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".habitkicker/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonSnapshot represents the JSON structure from the Python service. Each
// section is omitted entirely when the corresponding model detected nothing.
type jsonSnapshot struct {
	Face  map[string]jsonPoint `json:"face,omitempty"`
	Hands []jsonHand           `json:"hands,omitempty"`
	Pose  map[string]jsonPoint `json:"pose,omitempty"`
}

type jsonHand struct {
	Tips       map[string]jsonPoint `json:"tips"`
	Handedness string               `json:"handedness"`
	Score      float64              `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// fingertipIDs maps the wire names of the Python service to fingertip ids.
var fingertipIDs = map[string]landmark.Fingertip{
	"thumb_tip":  landmark.ThumbTip,
	"index_tip":  landmark.IndexTip,
	"middle_tip": landmark.MiddleTip,
	"ring_tip":   landmark.RingTip,
	"pinky_tip":  landmark.PinkyTip,
}

func (s jsonSnapshot) toSnapshot(ts time.Time) *landmark.Snapshot {
	snap := &landmark.Snapshot{Timestamp: ts}

	if len(s.Face) > 0 {
		snap.Face = make(map[landmark.FaceLandmark]landmark.Point3D, len(s.Face))
		for id, p := range s.Face {
			snap.Face[landmark.FaceLandmark(id)] = p.toPoint()
		}
	}

	for _, h := range s.Hands {
		hand := landmark.HandLandmarks{
			Tips:       make(map[landmark.Fingertip]landmark.Point3D, len(h.Tips)),
			Handedness: h.Handedness,
			Score:      h.Score,
		}
		for name, p := range h.Tips {
			if id, ok := fingertipIDs[name]; ok {
				hand.Tips[id] = p.toPoint()
			}
		}
		snap.Hands = append(snap.Hands, hand)
	}

	if len(s.Pose) > 0 {
		snap.Pose = make(map[landmark.PoseLandmark]landmark.Point3D, len(s.Pose))
		for id, p := range s.Pose {
			snap.Pose[landmark.PoseLandmark(id)] = p.toPoint()
		}
	}

	return snap
}

func (p jsonPoint) toPoint() landmark.Point3D {
	return landmark.Point3D{X: p.X, Y: p.Y, Z: p.Z}
}
