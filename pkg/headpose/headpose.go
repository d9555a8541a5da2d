package headpose

import (
	"math"

	"SmartCapture/pkg/facemesh"
)

// Pose holds head rotation in degrees. Yaw is the left/right turn, pitch the
// up/down tilt, roll the sideways tilt.
type Pose struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// Estimator derives a Pose from one frame's landmarks. Implementations must
// return the zero Pose for sets with fewer than 468 points instead of
// failing; an incomplete set is a normal no-face condition.
type Estimator interface {
	Estimate(set facemesh.Set) Pose
}

func degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
