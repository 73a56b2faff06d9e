package habit

import (
	"errors"
	"time"

	"github.com/ayusman/habitkicker/internal/landmark"
)

// ErrInsufficientLandmarks is returned when calibration is requested without
// the required pose points (both shoulders and nose; the neck is derived).
// The calibration state is left unchanged.
var ErrInsufficientLandmarks = errors.New("insufficient pose landmarks for calibration")

// Baseline is the calibrated reference posture slouch detection compares
// against. It is replaced wholesale on recalibration, never partially updated.
type Baseline struct {
	// Pose holds the averaged reference pose points.
	Pose map[landmark.PoseLandmark]landmark.Point3D

	// ShoulderHeight is the mean shoulder Y coordinate.
	ShoulderHeight float64
	// NoseNeckDistance is the reference neck-to-nose distance.
	NoseNeckDistance float64
	// TorsoReference is the vertical nose-to-shoulder-line distance, used
	// to normalize shoulder movement.
	TorsoReference float64

	CapturedAt time.Time
}

// NewBaseline derives a baseline from one or more pose readouts, averaging
// them when a sampling window was captured. Samples missing a required
// landmark are skipped; if none are usable, or the usable average is
// geometrically degenerate, it fails with ErrInsufficientLandmarks.
func NewBaseline(capturedAt time.Time, samples ...map[landmark.PoseLandmark]landmark.Point3D) (*Baseline, error) {
	var (
		sumLeft, sumRight, sumNose landmark.Point3D
		n                          float64
	)

	for _, pose := range samples {
		if pose == nil {
			continue
		}
		left, okL := pose[landmark.LeftShoulder]
		right, okR := pose[landmark.RightShoulder]
		nose, okN := pose[landmark.Nose]
		if !okL || !okR || !okN {
			continue
		}
		sumLeft = addPoint(sumLeft, left)
		sumRight = addPoint(sumRight, right)
		sumNose = addPoint(sumNose, nose)
		n++
	}

	if n == 0 {
		return nil, ErrInsufficientLandmarks
	}

	left := scalePoint(sumLeft, 1/n)
	right := scalePoint(sumRight, 1/n)
	nose := scalePoint(sumNose, 1/n)

	pose := map[landmark.PoseLandmark]landmark.Point3D{
		landmark.LeftShoulder:  left,
		landmark.RightShoulder: right,
		landmark.Nose:          nose,
	}
	neck, _ := landmark.DeriveNeck(pose)
	pose[landmark.Neck] = neck

	b := &Baseline{
		Pose:             pose,
		ShoulderHeight:   (left.Y + right.Y) / 2,
		NoseNeckDistance: landmark.Distance(nose, neck),
		TorsoReference:   abs(nose.Y - (left.Y+right.Y)/2),
		CapturedAt:       capturedAt,
	}

	// A collapsed pose cannot serve as a reference for deviation
	if b.NoseNeckDistance < 1e-10 || b.TorsoReference < 1e-10 {
		return nil, ErrInsufficientLandmarks
	}

	return b, nil
}

// NeckNoseVector returns the reference neck-to-nose direction.
func (b *Baseline) NeckNoseVector() landmark.Point3D {
	neck := b.Pose[landmark.Neck]
	nose := b.Pose[landmark.Nose]
	return landmark.Point3D{X: nose.X - neck.X, Y: nose.Y - neck.Y, Z: nose.Z - neck.Z}
}

func addPoint(p, q landmark.Point3D) landmark.Point3D {
	return landmark.Point3D{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

func scalePoint(p landmark.Point3D, f float64) landmark.Point3D {
	return landmark.Point3D{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
