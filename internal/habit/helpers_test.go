package habit

import (
	"time"

	"github.com/ayusman/habitkicker/internal/landmark"
)

// Test snapshot builders. Coordinates are normalized image space with Y
// growing downward, matching the tracker output.

func faceAt(mouth, hairLeft, hairRight landmark.Point3D) map[landmark.FaceLandmark]landmark.Point3D {
	return map[landmark.FaceLandmark]landmark.Point3D{
		landmark.MouthCenter:   mouth,
		landmark.HairlineLeft:  hairLeft,
		landmark.HairlineRight: hairRight,
		landmark.NoseTip:       {X: 0.5, Y: 0.45},
	}
}

func handWith(tips map[landmark.Fingertip]landmark.Point3D) landmark.HandLandmarks {
	return landmark.HandLandmarks{Tips: tips, Handedness: "Right", Score: 0.9}
}

func uprightPose() map[landmark.PoseLandmark]landmark.Point3D {
	return map[landmark.PoseLandmark]landmark.Point3D{
		landmark.LeftShoulder:  {X: 0.40, Y: 0.60},
		landmark.RightShoulder: {X: 0.60, Y: 0.60},
		landmark.Nose:          {X: 0.50, Y: 0.30},
	}
}

func snapshotAt(ts time.Time) *landmark.Snapshot {
	return &landmark.Snapshot{Timestamp: ts}
}

// bitingSnapshot places a fingertip at the given distance below the mouth
// center at (0.5, 0.5).
func bitingSnapshot(ts time.Time, dist float64) *landmark.Snapshot {
	snap := snapshotAt(ts)
	snap.Face = faceAt(
		landmark.Point3D{X: 0.5, Y: 0.5},
		landmark.Point3D{X: 0.35, Y: 0.2},
		landmark.Point3D{X: 0.65, Y: 0.2},
	)
	snap.Hands = []landmark.HandLandmarks{
		handWith(map[landmark.Fingertip]landmark.Point3D{
			landmark.IndexTip: {X: 0.5, Y: 0.5 + dist},
		}),
	}
	return snap
}

func poseSnapshot(ts time.Time, pose map[landmark.PoseLandmark]landmark.Point3D) *landmark.Snapshot {
	snap := snapshotAt(ts)
	snap.Pose = pose
	return snap
}
