package facemeshtest

import (
	"math"
	"testing"

	"SmartCapture/pkg/facemesh"
	"SmartCapture/pkg/headpose"
)

func TestCircularRejectsSmallFrames(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero", 0, 0},
		{"narrow", 319, 240},
		{"short", 320, 239},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if set := Circular(tc.width, tc.height); set != nil {
				t.Errorf("Circular(%d, %d) returned %d points, want nil", tc.width, tc.height, len(set))
			}
		})
	}
}

func TestCircularProducesCompleteSet(t *testing.T) {
	set := Circular(320, 240)
	if !set.Complete() {
		t.Fatalf("set has %d points, want %d", len(set), facemesh.PointCount)
	}

	// 320%30 = 20 and 240%20 = 0 give offsets +0.005 and -0.010.
	first := set[0]
	if math.Abs(float64(first.X)-0.805) > 1e-6 {
		t.Errorf("point 0 X = %.6f, want 0.805", first.X)
	}
	if math.Abs(float64(first.Y)-0.49) > 1e-6 {
		t.Errorf("point 0 Y = %.6f, want 0.49", first.Y)
	}
	if math.Abs(float64(first.Z)+0.05) > 1e-6 {
		t.Errorf("point 0 Z = %.6f, want -0.05", first.Z)
	}

	if math.Abs(float64(set[9].Z)+0.041) > 1e-6 {
		t.Errorf("point 9 Z = %.6f, want -0.041", set[9].Z)
	}
}

// TestCircularEllipseAxes probes the four axis crossings: the horizontal
// semi-axis shrinks at the left-ear landmark, the vertical one does not.
func TestCircularEllipseAxes(t *testing.T) {
	const yawOffset, pitchOffset = 0.005, -0.010
	set := Circular(320, 240)

	// Indices 0, 117, 234 and 351 land exactly on angles 0, pi/2, pi, 3pi/2.
	if dx := float64(set[0].X) - 0.5 - yawOffset; math.Abs(dx-0.3) > 1e-4 {
		t.Errorf("outer x semi-axis = %.6f, want 0.3", dx)
	}
	if dx := float64(set[facemesh.LeftEar].X) - 0.5 - yawOffset; math.Abs(dx+0.24) > 1e-4 {
		t.Errorf("inner x semi-axis = %.6f, want -0.24", dx)
	}
	if dy := float64(set[117].Y) - 0.5 - pitchOffset; math.Abs(dy-0.4) > 1e-4 {
		t.Errorf("upper y semi-axis = %.6f, want 0.4", dy)
	}
	if dy := float64(set[351].Y) - 0.5 - pitchOffset; math.Abs(dy+0.4) > 1e-4 {
		t.Errorf("lower y semi-axis = %.6f, want -0.4", dy)
	}
}

func TestCircularVariesWithFrameSize(t *testing.T) {
	a := Circular(320, 240)
	b := Circular(321, 240)

	if a[0].X == b[0].X {
		t.Error("different widths produced identical yaw offsets")
	}

	c := Circular(320, 240)
	for i := range a {
		if a[i] != c[i] {
			t.Fatalf("same dimensions disagree at point %d", i)
		}
	}
}

func TestFrontalRejectsSmallFrames(t *testing.T) {
	if set := Frontal(319, 239); set != nil {
		t.Errorf("Frontal(319, 239) returned %d points, want nil", len(set))
	}
}

// TestFrontalScoresLevelUnderBothEstimators locks the fixture's contract:
// whatever strategy a session uses, a Frontal frame must clear the gate.
func TestFrontalScoresLevelUnderBothEstimators(t *testing.T) {
	set := Frontal(640, 480)
	if !set.Complete() {
		t.Fatalf("set has %d points, want %d", len(set), facemesh.PointCount)
	}

	estimators := map[string]headpose.Estimator{
		"depth": headpose.NewDepthEstimator(),
		"ratio": headpose.NewRatioEstimator(),
	}
	for name, estimator := range estimators {
		pose := estimator.Estimate(set)
		if math.Abs(pose.Yaw) > 0.01 {
			t.Errorf("%s yaw = %.5f, want ~0", name, pose.Yaw)
		}
		if math.Abs(pose.Pitch) > 0.01 {
			t.Errorf("%s pitch = %.5f, want ~0", name, pose.Pitch)
		}
	}
}
