package capture

import (
	"time"

	"SmartCapture/pkg/facemesh"
)

type CreateSessionRequest struct {
	MaxCaptures     int     `json:"max_captures" validate:"omitempty,min=1,max=20"`
	MaxYawDegrees   float64 `json:"max_yaw_degrees" validate:"omitempty,min=0,max=90"`
	MaxPitchDegrees float64 `json:"max_pitch_degrees" validate:"omitempty,min=0,max=90"`
	Padding         float64 `json:"padding" validate:"omitempty,min=0,max=1"`
	Estimator       string  `json:"estimator" validate:"omitempty,oneof=depth ratio"`
}

type SessionResponse struct {
	ID              string    `json:"id"`
	MaxCaptures     int       `json:"max_captures"`
	MaxYawDegrees   float64   `json:"max_yaw_degrees"`
	MaxPitchDegrees float64   `json:"max_pitch_degrees"`
	PitchMultiplier float64   `json:"pitch_multiplier"`
	Padding         float64   `json:"padding"`
	Estimator       string    `json:"estimator"`
	CaptureCount    int       `json:"capture_count"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateSessionResponse struct {
	Session     SessionResponse `json:"session"`
	StreamToken string          `json:"stream_token"`
	ExpiresAt   int64           `json:"expires_at"`
}

// FrameRequest carries one frame over HTTP or the stream. Image and
// landmarks are both optional on the wire: frames without an image are
// skipped silently, frames with too few landmarks are rejected as no-face.
type FrameRequest struct {
	ImageBase64 string           `json:"image_base64"`
	Landmarks   []facemesh.Point `json:"landmarks"`
}

type FrameResponse struct {
	Processed    bool    `json:"processed"`
	Completed    bool    `json:"completed"`
	Status       string  `json:"status,omitempty"`
	Decision     string  `json:"decision,omitempty"`
	Yaw          float64 `json:"yaw"`
	Pitch        float64 `json:"pitch"`
	Roll         float64 `json:"roll"`
	CaptureCount int     `json:"capture_count"`
	MaxCaptures  int     `json:"max_captures"`
	RecordID     string  `json:"record_id,omitempty"`
	ObjectKey    string  `json:"object_key,omitempty"`
}

type CaptureRecordResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ImageURL  string    `json:"image_url"`
	Yaw       float64   `json:"yaw"`
	Pitch     float64   `json:"pitch"`
	Roll      float64   `json:"roll"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

type ListCapturesResponse struct {
	SessionID string                  `json:"session_id"`
	Captures  []CaptureRecordResponse `json:"captures"`
}
