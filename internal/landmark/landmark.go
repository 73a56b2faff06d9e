// Package landmark defines the landmark snapshot data model shared by the
// tracker and the habit engine, plus the geometric metrics computed over it.
package landmark

import "time"

// FaceLandmark identifies a named face landmark used for habit detection.
type FaceLandmark string

// Face landmarks. MouthCenter corresponds to the MediaPipe lip center points,
// the hairline landmarks to the head circumference points on either side.
const (
	MouthCenter   FaceLandmark = "mouth_center"
	HairlineLeft  FaceLandmark = "hairline_left"
	HairlineRight FaceLandmark = "hairline_right"
	NoseTip       FaceLandmark = "nose_tip"
)

// Fingertip identifies one of the five fingertip landmarks of a hand,
// following the MediaPipe hand landmark convention.
type Fingertip int

const (
	ThumbTip  Fingertip = 4
	IndexTip  Fingertip = 8
	MiddleTip Fingertip = 12
	RingTip   Fingertip = 16
	PinkyTip  Fingertip = 20
)

// Fingertips lists all fingertip ids in a fixed order.
var Fingertips = []Fingertip{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// PoseLandmark identifies a named upper-body pose landmark.
type PoseLandmark string

const (
	LeftShoulder  PoseLandmark = "left_shoulder"
	RightShoulder PoseLandmark = "right_shoulder"
	Neck          PoseLandmark = "neck"
	Nose          PoseLandmark = "nose"
)

// Point3D represents a 3D point in normalized image space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks holds the fingertip points of one detected hand.
type HandLandmarks struct {
	Tips       map[Fingertip]Point3D `json:"tips"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Snapshot is the complete landmark readout for one analyzed frame.
// Any of Face, Hands, and Pose may be absent: tracking drops in and out,
// and consumers must treat missing landmarks as "cannot evaluate", never
// as an error.
type Snapshot struct {
	Timestamp time.Time
	Face      map[FaceLandmark]Point3D
	Hands     []HandLandmarks
	Pose      map[PoseLandmark]Point3D
}

// FacePoint returns the named face landmark, if present.
func (s *Snapshot) FacePoint(id FaceLandmark) (Point3D, bool) {
	if s == nil || s.Face == nil {
		return Point3D{}, false
	}
	p, ok := s.Face[id]
	return p, ok
}

// PosePoint returns the named pose landmark, if present. The neck point is
// derived from the shoulder midpoint when the tracker did not supply it.
func (s *Snapshot) PosePoint(id PoseLandmark) (Point3D, bool) {
	if s == nil || s.Pose == nil {
		return Point3D{}, false
	}
	if p, ok := s.Pose[id]; ok {
		return p, ok
	}
	if id == Neck {
		return DeriveNeck(s.Pose)
	}
	return Point3D{}, false
}

// FingertipPoints collects every detected fingertip across all hands.
func (s *Snapshot) FingertipPoints() []Point3D {
	if s == nil {
		return nil
	}
	var points []Point3D
	for _, hand := range s.Hands {
		for _, id := range Fingertips {
			if p, ok := hand.Tips[id]; ok {
				points = append(points, p)
			}
		}
	}
	return points
}

// DeriveNeck computes the neck point as the shoulder midpoint.
// Returns false if either shoulder is missing.
func DeriveNeck(pose map[PoseLandmark]Point3D) (Point3D, bool) {
	left, okL := pose[LeftShoulder]
	right, okR := pose[RightShoulder]
	if !okL || !okR {
		return Point3D{}, false
	}
	return Point3D{
		X: (left.X + right.X) / 2,
		Y: (left.Y + right.Y) / 2,
		Z: (left.Z + right.Z) / 2,
	}, true
}
