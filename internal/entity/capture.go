package entity

import "time"

type CaptureSessionStatus string

const (
	CaptureSessionActive    CaptureSessionStatus = "active"
	CaptureSessionCompleted CaptureSessionStatus = "completed"
)

// Estimator names accepted on session creation and stored per session.
const (
	EstimatorDepth = "depth"
	EstimatorRatio = "ratio"
)

type CaptureSession struct {
	ID              string
	MaxCaptures     int
	MaxYawDegrees   float64
	MaxPitchDegrees float64
	PitchMultiplier float64
	Padding         float64
	Estimator       string
	CaptureCount    int
	Status          CaptureSessionStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s CaptureSession) Completed() bool {
	return s.Status == CaptureSessionCompleted || s.CaptureCount >= s.MaxCaptures
}

type CaptureRecord struct {
	ID        string
	SessionID string
	ObjectKey string
	Yaw       float64
	Pitch     float64
	Roll      float64
	Width     int
	Height    int
	CreatedAt time.Time
}

// StreamSessionData is what the stream-token middleware stores in the
// request locals after verifying a token.
type StreamSessionData struct {
	SessionID string
}
