package entity

import "time"

// PreviewSession lives in Redis only, JSON-marshalled, expiring with its
// key. There is no database row behind it.
type PreviewSession struct {
	ID              string    `json:"id"`
	MaxYawDegrees   float64   `json:"max_yaw_degrees"`
	MaxPitchDegrees float64   `json:"max_pitch_degrees"`
	MaxCaptures     int       `json:"max_captures"`
	CaptureCount    int       `json:"capture_count"`
	CreatedAt       time.Time `json:"created_at"`
}
