package landmark

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		p, q Point3D
		want float64
	}{
		{"same point", Point3D{X: 0.5, Y: 0.5}, Point3D{X: 0.5, Y: 0.5}, 0},
		{"unit x", Point3D{}, Point3D{X: 1}, 1},
		{"3-4-5 triangle", Point3D{}, Point3D{X: 3, Y: 4}, 5},
		{"with depth", Point3D{}, Point3D{X: 1, Y: 2, Z: 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.p, tt.q)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name         string
		a, vertex, b Point3D
		want         float64
	}{
		{"right angle", Point3D{X: 1}, Point3D{}, Point3D{Y: 1}, 90},
		{"straight line", Point3D{X: -1}, Point3D{}, Point3D{X: 1}, 180},
		{"collinear rays", Point3D{X: 1}, Point3D{}, Point3D{X: 2}, 0},
		{"45 degrees", Point3D{X: 1}, Point3D{}, Point3D{X: 1, Y: 1}, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Angle(tt.a, tt.vertex, tt.b)
			if !ok {
				t.Fatal("Angle() not ok, want ok")
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Angle() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAngle_DegenerateRay(t *testing.T) {
	// Ray to a has zero length: the angle is undefined
	if _, ok := Angle(Point3D{X: 0.3, Y: 0.3}, Point3D{X: 0.3, Y: 0.3}, Point3D{X: 1}); ok {
		t.Error("Angle() ok for zero-length ray, want not ok")
	}
}

func TestVectorAngle(t *testing.T) {
	// Vertical vector vs one tilted 90 degrees
	got, ok := VectorAngle(
		Point3D{}, Point3D{Y: 1},
		Point3D{}, Point3D{X: 1},
	)
	if !ok {
		t.Fatal("VectorAngle() not ok, want ok")
	}
	if math.Abs(got-90) > 1e-6 {
		t.Errorf("VectorAngle() = %f, want 90", got)
	}
}

func TestDeriveNeck(t *testing.T) {
	pose := map[PoseLandmark]Point3D{
		LeftShoulder:  {X: 0.4, Y: 0.6, Z: 0.1},
		RightShoulder: {X: 0.6, Y: 0.7, Z: 0.3},
	}

	neck, ok := DeriveNeck(pose)
	if !ok {
		t.Fatal("DeriveNeck() not ok, want ok")
	}

	want := Point3D{X: 0.5, Y: 0.65, Z: 0.2}
	if math.Abs(neck.X-want.X) > 1e-9 || math.Abs(neck.Y-want.Y) > 1e-9 || math.Abs(neck.Z-want.Z) > 1e-9 {
		t.Errorf("DeriveNeck() = %+v, want %+v", neck, want)
	}
}

func TestDeriveNeck_MissingShoulder(t *testing.T) {
	pose := map[PoseLandmark]Point3D{
		LeftShoulder: {X: 0.4, Y: 0.6},
	}

	if _, ok := DeriveNeck(pose); ok {
		t.Error("DeriveNeck() ok with one shoulder, want not ok")
	}
}

func TestSnapshot_PosePoint_DerivesNeck(t *testing.T) {
	snap := &Snapshot{
		Pose: map[PoseLandmark]Point3D{
			LeftShoulder:  {X: 0.4, Y: 0.6},
			RightShoulder: {X: 0.6, Y: 0.6},
		},
	}

	neck, ok := snap.PosePoint(Neck)
	if !ok {
		t.Fatal("PosePoint(Neck) not ok, want derived neck")
	}
	if math.Abs(neck.X-0.5) > 1e-9 || math.Abs(neck.Y-0.6) > 1e-9 {
		t.Errorf("PosePoint(Neck) = %+v, want midpoint", neck)
	}
}

func TestSnapshot_NilSafety(t *testing.T) {
	var snap *Snapshot

	if _, ok := snap.FacePoint(MouthCenter); ok {
		t.Error("FacePoint() on nil snapshot returned ok")
	}
	if _, ok := snap.PosePoint(Nose); ok {
		t.Error("PosePoint() on nil snapshot returned ok")
	}
	if pts := snap.FingertipPoints(); pts != nil {
		t.Errorf("FingertipPoints() on nil snapshot = %v, want nil", pts)
	}
}

func TestSnapshot_FingertipPoints(t *testing.T) {
	snap := &Snapshot{
		Hands: []HandLandmarks{
			{Tips: map[Fingertip]Point3D{
				ThumbTip: {X: 0.1},
				IndexTip: {X: 0.2},
			}},
			{Tips: map[Fingertip]Point3D{
				MiddleTip: {X: 0.3},
			}},
		},
	}

	pts := snap.FingertipPoints()
	if len(pts) != 3 {
		t.Errorf("FingertipPoints() returned %d points, want 3", len(pts))
	}
}
