package headpose

import (
	"math"

	"SmartCapture/pkg/facemesh"
)

// DepthEstimator derives yaw from the depth asymmetry between the two ear
// landmarks and pitch from the nose position against the ear midline. Both
// are 2D/Z heuristics, not a true 3D solve; the exact formulas, including
// sign convention and the unscaled z axis, are the contract. Roll is not
// estimated by this strategy.
type DepthEstimator struct{}

func NewDepthEstimator() DepthEstimator {
	return DepthEstimator{}
}

func (DepthEstimator) Estimate(set facemesh.Set) Pose {
	if !set.Complete() {
		return Pose{}
	}

	nose, ok := set.At(facemesh.NoseTip)
	if !ok {
		return Pose{}
	}
	leftEar, ok := set.At(facemesh.LeftEar)
	if !ok {
		return Pose{}
	}
	rightEar, ok := set.At(facemesh.RightEar)
	if !ok {
		return Pose{}
	}

	yaw := degrees(math.Atan2(float64(leftEar.Z-rightEar.Z), float64(leftEar.X-rightEar.X)))

	earMidY := (leftEar.Y + rightEar.Y) / 2
	pitch := degrees(math.Atan2(float64(nose.Y-earMidY), float64(nose.Z)))

	return Pose{Yaw: yaw, Pitch: pitch}
}
