package smartcapture

import (
	"math"

	"SmartCapture/pkg/facemesh"
	"SmartCapture/pkg/headpose"
)

// Status strings reported per processed frame. Host applications display
// them verbatim, so they must not change.
const (
	StatusCaptured  = "Captured!"
	StatusNoFace    = "No face detected"
	StatusYawTurn   = "Face turned too much (Yaw)"
	StatusPitchTilt = "Face tilted up/down too much (Pitch)"
)

// Pitch threshold policies. The production capture path historically
// compares pitch against twice the configured ceiling while the preview
// path compares it directly. Both are deliberate tunings and callers must
// pick one explicitly instead of relying on a merged default.
const (
	PitchRelaxed = 2.0
	PitchStrict  = 1.0
)

type Decision int

const (
	Accept Decision = iota
	RejectNoFace
	RejectYaw
	RejectPitch
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case RejectNoFace:
		return "reject_no_face"
	case RejectYaw:
		return "reject_yaw"
	case RejectPitch:
		return "reject_pitch"
	default:
		return "unknown"
	}
}

// Status returns the human-readable reason string for the decision.
func (d Decision) Status() string {
	switch d {
	case Accept:
		return StatusCaptured
	case RejectNoFace:
		return StatusNoFace
	case RejectYaw:
		return StatusYawTurn
	case RejectPitch:
		return StatusPitchTilt
	default:
		return StatusNoFace
	}
}

type Config struct {
	MaxCaptures     int
	MaxYawDegrees   float64
	MaxPitchDegrees float64
	Padding         float64
	PitchMultiplier float64
}

// Gate compares an estimated pose against configured angular ceilings.
type Gate struct {
	cfg Config
}

func NewGate(cfg Config) Gate {
	if cfg.PitchMultiplier <= 0 {
		cfg.PitchMultiplier = PitchStrict
	}
	return Gate{cfg: cfg}
}

func (g Gate) Config() Config {
	return g.cfg
}

// Evaluate decides whether a frame passes. The order is fixed: incomplete
// landmark sets reject first, then yaw magnitude, then pitch magnitude
// against the effective ceiling (configured ceiling times the multiplier).
func (g Gate) Evaluate(set facemesh.Set, pose headpose.Pose) Decision {
	if !set.Complete() {
		return RejectNoFace
	}

	if math.Abs(pose.Yaw) > g.cfg.MaxYawDegrees {
		return RejectYaw
	}

	if math.Abs(pose.Pitch) > g.cfg.MaxPitchDegrees*g.cfg.PitchMultiplier {
		return RejectPitch
	}

	return Accept
}
