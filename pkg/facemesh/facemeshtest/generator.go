// Package facemeshtest generates synthetic landmark sets for tests and demo
// clients. The circular arrangement stands in for a real face-mesh model and
// must never feed production decisions.
package facemeshtest

import (
	"math"

	"SmartCapture/pkg/facemesh"
)

const (
	minWidth  = 320
	minHeight = 240
)

// Circular produces a full 468-point set arranged on an ellipse around the
// frame center. The horizontal semi-axis tightens from 0.3 to 0.24 for the
// second half of the indices, the vertical one stays at 0.4. Frame dimensions
// below 320x240 yield nil, the same as a failed detection. The width/height
// modulo offsets give each frame size a slightly different synthetic pose, so
// demo streams are not completely static.
func Circular(width, height int) facemesh.Set {
	if width < minWidth || height < minHeight {
		return nil
	}

	yawOffset := float32(width%30-15) / 1000
	pitchOffset := float32(height%20-10) / 1000

	set := make(facemesh.Set, facemesh.PointCount)
	for i := range set {
		angle := float64(i) / float64(facemesh.PointCount) * 2 * math.Pi

		xRadius := 0.3
		if i >= facemesh.LeftEar {
			xRadius = 0.3 * 0.8
		}

		set[i] = facemesh.Point{
			X: 0.5 + float32(xRadius*math.Cos(angle)) + yawOffset,
			Y: 0.5 + float32(0.4*math.Sin(angle)) + pitchOffset,
			Z: -0.05 + float32(i%10)*0.001,
		}
	}

	return set
}

// Frontal produces a level, centered face that both pose estimators score at
// roughly zero degrees, so it passes the quality gate at any sane threshold.
// The semantic landmarks sit symmetric around the frame center with the ears
// on a shared depth plane and the nose tip closer to the camera. Frame
// dimensions below 320x240 yield nil, matching Circular.
func Frontal(width, height int) facemesh.Set {
	if width < minWidth || height < minHeight {
		return nil
	}

	yawOffset := float32(width%30-15) / 1000
	pitchOffset := float32(height%20-10) / 1000

	set := make(facemesh.Set, facemesh.PointCount)
	for i := range set {
		angle := float64(i) / float64(facemesh.PointCount) * 2 * math.Pi
		set[i] = facemesh.Point{
			X: 0.5 + float32(0.2*math.Cos(angle)),
			Y: 0.5 + float32(0.25*math.Sin(angle)),
			Z: -0.05,
		}
	}

	set[facemesh.NoseTip] = facemesh.Point{X: 0.5, Y: 0.5, Z: 0.06}
	set[facemesh.LeftEar] = facemesh.Point{X: 0.72, Y: 0.5, Z: -0.05}
	set[facemesh.RightEar] = facemesh.Point{X: 0.28, Y: 0.5, Z: -0.05}
	set[facemesh.LeftEyeOuter] = facemesh.Point{X: 0.35, Y: 0.42, Z: -0.04}
	set[facemesh.RightEyeOuter] = facemesh.Point{X: 0.65, Y: 0.42, Z: -0.04}
	set[facemesh.Forehead] = facemesh.Point{X: 0.5, Y: 0.30, Z: -0.04}
	set[facemesh.NoseBridge] = facemesh.Point{X: 0.5, Y: 0.45, Z: -0.02}
	set[facemesh.Chin] = facemesh.Point{X: 0.5, Y: 0.60, Z: -0.04}

	// The offsets shift every point equally, so the pose differences they
	// feed stay zero while frames of different sizes remain distinct.
	for i := range set {
		set[i].X += yawOffset
		set[i].Y += pitchOffset
	}

	return set
}
