package headpose

import (
	"math"

	"SmartCapture/pkg/facemesh"
)

const (
	// ratioEpsilon keeps the denominators nonzero when landmarks coincide.
	ratioEpsilon float32 = 0.001

	yawScaleDegrees   float32 = 45.0
	pitchScaleDegrees float32 = 30.0
)

// RatioEstimator derives yaw from the horizontal nose-to-eye distance
// imbalance and pitch from the vertical forehead/chin distance imbalance
// around the nose bridge, each scaled to a fixed degree range. Roll is the
// angle of the line between the two eye outer corners. The scale constants
// and epsilon are part of the contract.
type RatioEstimator struct{}

func NewRatioEstimator() RatioEstimator {
	return RatioEstimator{}
}

func (RatioEstimator) Estimate(set facemesh.Set) Pose {
	if !set.Complete() {
		return Pose{}
	}

	nose, ok := set.At(facemesh.NoseTip)
	if !ok {
		return Pose{}
	}
	leftEye, ok := set.At(facemesh.LeftEyeOuter)
	if !ok {
		return Pose{}
	}
	rightEye, ok := set.At(facemesh.RightEyeOuter)
	if !ok {
		return Pose{}
	}
	forehead, ok := set.At(facemesh.Forehead)
	if !ok {
		return Pose{}
	}
	noseBridge, ok := set.At(facemesh.NoseBridge)
	if !ok {
		return Pose{}
	}
	chin, ok := set.At(facemesh.Chin)
	if !ok {
		return Pose{}
	}

	leftDist := abs32(nose.X - leftEye.X)
	rightDist := abs32(rightEye.X - nose.X)
	yaw := (leftDist - rightDist) / (leftDist + rightDist + ratioEpsilon) * yawScaleDegrees

	topDist := abs32(forehead.Y - noseBridge.Y)
	bottomDist := abs32(chin.Y - noseBridge.Y)
	pitch := (topDist - bottomDist) / (topDist + bottomDist + ratioEpsilon) * pitchScaleDegrees

	roll := degrees(math.Atan2(float64(rightEye.Y-leftEye.Y), float64(rightEye.X-leftEye.X)))

	return Pose{Yaw: float64(yaw), Pitch: float64(pitch), Roll: roll}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
