package habit

import (
	"github.com/ayusman/habitkicker/internal/landmark"
)

// ClassifyNailBiting reports whether any detected fingertip is within the
// nail-bite distance of the mouth center. Unavailable when no hands or no
// mouth landmark are present in the snapshot.
func ClassifyNailBiting(snap *landmark.Snapshot, t Thresholds) Observation {
	mouth, ok := snap.FacePoint(landmark.MouthCenter)
	if !ok {
		return Unavailable
	}

	tips := snap.FingertipPoints()
	if len(tips) == 0 {
		return Unavailable
	}

	for _, tip := range tips {
		if landmark.Distance(tip, mouth) <= t.NailBiteDistance {
			return ObservedTrue
		}
	}
	return ObservedFalse
}

// ClassifyHairPulling reports whether a fingertip is at the hairline while
// the hand forms a pinching shape. Two conditions must hold: some fingertip
// within the hair-pull distance of either hairline landmark, and at least two
// fingertips within the finger-proximity threshold of each other — a single
// finger resting near the head is not a pull. Unavailable when no hands or
// no hairline landmarks are present.
func ClassifyHairPulling(snap *landmark.Snapshot, t Thresholds) Observation {
	var hairline []landmark.Point3D
	if p, ok := snap.FacePoint(landmark.HairlineLeft); ok {
		hairline = append(hairline, p)
	}
	if p, ok := snap.FacePoint(landmark.HairlineRight); ok {
		hairline = append(hairline, p)
	}
	if len(hairline) == 0 {
		return Unavailable
	}

	tips := snap.FingertipPoints()
	if len(tips) == 0 {
		return Unavailable
	}

	atHairline := false
	for _, tip := range tips {
		for _, h := range hairline {
			if landmark.Distance(tip, h) <= t.HairPullDistance {
				atHairline = true
				break
			}
		}
		if atHairline {
			break
		}
	}
	if !atHairline {
		return ObservedFalse
	}

	// Pinching shape: any two fingertips close together, across all hands
	for i := 0; i < len(tips); i++ {
		for j := i + 1; j < len(tips); j++ {
			if landmark.Distance(tips[i], tips[j]) <= t.FingerProximity {
				return ObservedTrue
			}
		}
	}
	return ObservedFalse
}

// ClassifySlouching compares the current pose against the calibrated baseline
// and returns the observation together with the weighted deviation score.
// Unavailable (score 0) without a baseline or without the required pose
// landmarks.
//
// The score combines three normalized factors, each clamped to [0, 1]:
// shoulder drop against the baseline torso height (weight 0.40), neck-to-nose
// direction change against a 90 degree scale (0.30), and neck-to-nose
// distance change against the baseline distance (0.30).
func ClassifySlouching(snap *landmark.Snapshot, t Thresholds, base *Baseline) (Observation, float64) {
	if base == nil {
		return Unavailable, 0
	}

	left, okL := snap.PosePoint(landmark.LeftShoulder)
	right, okR := snap.PosePoint(landmark.RightShoulder)
	nose, okN := snap.PosePoint(landmark.Nose)
	neck, okK := snap.PosePoint(landmark.Neck)
	if !okL || !okR || !okN || !okK {
		return Unavailable, 0
	}

	shoulderHeight := (left.Y + right.Y) / 2
	shoulderDev := clamp01(abs(shoulderHeight-base.ShoulderHeight) / base.TorsoReference)

	ref := base.NeckNoseVector()
	angle, ok := landmark.Angle(
		ref,
		landmark.Point3D{},
		landmark.Point3D{X: nose.X - neck.X, Y: nose.Y - neck.Y, Z: nose.Z - neck.Z},
	)
	if !ok {
		return Unavailable, 0
	}
	angleDev := clamp01(angle / 90)

	distDev := clamp01(abs(landmark.Distance(nose, neck)-base.NoseNeckDistance) / base.NoseNeckDistance)

	score := slouchShoulderWeight*shoulderDev + slouchAngleWeight*angleDev + slouchDistanceWeight*distDev
	if score >= t.SlouchDeviation {
		return ObservedTrue, score
	}
	return ObservedFalse, score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
