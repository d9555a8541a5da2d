package smartcapture

import (
	"testing"

	"SmartCapture/pkg/facemesh"
	"SmartCapture/pkg/headpose"
)

func fullSet() facemesh.Set {
	return make(facemesh.Set, facemesh.PointCount)
}

func TestGateRejectsIncompleteSets(t *testing.T) {
	gate := NewGate(Config{MaxYawDegrees: 15, MaxPitchDegrees: 15, PitchMultiplier: PitchStrict})

	for _, set := range []facemesh.Set{nil, {}, make(facemesh.Set, 100)} {
		d := gate.Evaluate(set, headpose.Pose{})
		if d != RejectNoFace {
			t.Errorf("set of %d points: decision = %s, want %s", len(set), d, RejectNoFace)
		}
	}
}

// TestGateDecisionOrder verifies yaw is checked before pitch: a frame that
// violates both ceilings reports the yaw rejection.
func TestGateDecisionOrder(t *testing.T) {
	gate := NewGate(Config{MaxYawDegrees: 10, MaxPitchDegrees: 10, PitchMultiplier: PitchStrict})

	d := gate.Evaluate(fullSet(), headpose.Pose{Yaw: 50, Pitch: 50})
	if d != RejectYaw {
		t.Errorf("decision = %s, want %s", d, RejectYaw)
	}
}

func TestGateEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		multiplier float64
		pose       headpose.Pose
		want       Decision
	}{
		{"neutral accepted", PitchStrict, headpose.Pose{}, Accept},
		{"yaw at ceiling accepted", PitchStrict, headpose.Pose{Yaw: 10}, Accept},
		{"yaw above ceiling rejected", PitchStrict, headpose.Pose{Yaw: 10.01}, RejectYaw},
		{"negative yaw above ceiling rejected", PitchStrict, headpose.Pose{Yaw: -11}, RejectYaw},
		{"strict pitch above ceiling rejected", PitchStrict, headpose.Pose{Pitch: 10.01}, RejectPitch},
		{"strict negative pitch rejected", PitchStrict, headpose.Pose{Pitch: -12}, RejectPitch},
		{"relaxed pitch below doubled ceiling accepted", PitchRelaxed, headpose.Pose{Pitch: 18}, Accept},
		{"relaxed pitch at doubled ceiling accepted", PitchRelaxed, headpose.Pose{Pitch: 20}, Accept},
		{"relaxed pitch above doubled ceiling rejected", PitchRelaxed, headpose.Pose{Pitch: 20.5}, RejectPitch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gate := NewGate(Config{MaxYawDegrees: 10, MaxPitchDegrees: 10, PitchMultiplier: tc.multiplier})
			d := gate.Evaluate(fullSet(), tc.pose)
			if d != tc.want {
				t.Errorf("decision = %s, want %s", d, tc.want)
			}
		})
	}
}

func TestGateNormalizesMultiplier(t *testing.T) {
	gate := NewGate(Config{MaxYawDegrees: 10, MaxPitchDegrees: 10})
	if got := gate.Config().PitchMultiplier; got != PitchStrict {
		t.Fatalf("zero multiplier normalized to %.1f, want %.1f", got, PitchStrict)
	}

	d := gate.Evaluate(fullSet(), headpose.Pose{Pitch: 10.5})
	if d != RejectPitch {
		t.Errorf("decision = %s, want %s", d, RejectPitch)
	}
}

func TestDecisionStatus(t *testing.T) {
	tests := []struct {
		decision Decision
		status   string
	}{
		{Accept, "Captured!"},
		{RejectNoFace, "No face detected"},
		{RejectYaw, "Face turned too much (Yaw)"},
		{RejectPitch, "Face tilted up/down too much (Pitch)"},
	}

	for _, tc := range tests {
		if got := tc.decision.Status(); got != tc.status {
			t.Errorf("%s.Status() = %q, want %q", tc.decision, got, tc.status)
		}
	}
}
