package preview

import (
	"time"

	"SmartCapture/pkg/facemesh"
)

type CreateSessionRequest struct {
	MaxYawDegrees   float64 `json:"max_yaw_degrees" validate:"omitempty,min=0,max=90"`
	MaxPitchDegrees float64 `json:"max_pitch_degrees" validate:"omitempty,min=0,max=90"`
	MaxCaptures     int     `json:"max_captures" validate:"omitempty,min=1,max=50"`
}

type SessionResponse struct {
	ID              string    `json:"id"`
	MaxYawDegrees   float64   `json:"max_yaw_degrees"`
	MaxPitchDegrees float64   `json:"max_pitch_degrees"`
	MaxCaptures     int       `json:"max_captures"`
	CaptureCount    int       `json:"capture_count"`
	StatusLine      string    `json:"status_line"`
	CreatedAt       time.Time `json:"created_at"`
}

// AnalyzeRequest is one preview frame. The mesh runs client-side, so only
// frame dimensions and landmarks travel; no pixels. The ceiling overrides
// apply to the stateless analyze check only; session-bound captures always
// judge against the session config.
type AnalyzeRequest struct {
	Width           int              `json:"width" validate:"required,min=1"`
	Height          int              `json:"height" validate:"required,min=1"`
	Landmarks       []facemesh.Point `json:"landmarks"`
	MaxYawDegrees   *float64         `json:"max_yaw_degrees" validate:"omitempty,min=0,max=90"`
	MaxPitchDegrees *float64         `json:"max_pitch_degrees" validate:"omitempty,min=0,max=90"`
}

type AnalyzeResponse struct {
	Detected      bool    `json:"detected"`
	LandmarkCount int     `json:"landmark_count"`
	Message       string  `json:"message"`
	Yaw           float64 `json:"yaw"`
	Pitch         float64 `json:"pitch"`
	Roll          float64 `json:"roll"`
	QualityGood   bool    `json:"quality_good"`
}

type CaptureFrameResponse struct {
	AnalyzeResponse
	Captured     bool   `json:"captured"`
	CaptureCount int    `json:"capture_count"`
	MaxCaptures  int    `json:"max_captures"`
	StatusLine   string `json:"status_line"`
}

type ConfigResponse struct {
	MaxYawDegrees   float64 `json:"max_yaw_degrees"`
	MaxPitchDegrees float64 `json:"max_pitch_degrees"`
	MaxCaptures     int     `json:"max_captures"`
	Summary         string  `json:"summary"`
}

type UpdateConfigRequest struct {
	MaxYawDegrees   *float64 `json:"max_yaw_degrees" validate:"omitempty,min=0,max=90"`
	MaxPitchDegrees *float64 `json:"max_pitch_degrees" validate:"omitempty,min=0,max=90"`
	MaxCaptures     *int     `json:"max_captures" validate:"omitempty,min=1,max=50"`
}
