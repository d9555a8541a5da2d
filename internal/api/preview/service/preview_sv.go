package previewService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SmartCapture/internal/api/preview"
	"SmartCapture/internal/entity"
	contextPkg "SmartCapture/pkg/context"
	"SmartCapture/pkg/facemesh"
	redisPkg "SmartCapture/pkg/redis"
	"SmartCapture/pkg/smartcapture"

	"github.com/sirupsen/logrus"
)

const sessionKeyPrefix = "preview_session:"

// Frames smaller than this on either side carry too little face to judge.
const minFrameDim = 100

// Preview messages are displayed verbatim by host applications.
const (
	msgImageTooSmall = "Image too small"
	msgNoFace        = "No face detected"
	msgGoodQuality   = "Good quality face detected!"
	msgYawFormat     = "Face turned too much (Yaw: %d°)"
	msgPitchFormat   = "Face tilted too much (Pitch: %d°)"
	msgCaptureLimit  = "Capture limit reached"
	statusLineFormat = "Ready - Captured: %d/%d"
	configLineFormat = "Max Yaw: %d°, Max Pitch: %d°, Max Captures: %d"
)

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *previewService) CreateSession(ctx context.Context, req preview.CreateSessionRequest) (preview.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate preview session ID")
		return preview.SessionResponse{}, err
	}

	session := entity.PreviewSession{
		ID:              id,
		MaxYawDegrees:   s.defaults.MaxYawDegrees,
		MaxPitchDegrees: s.defaults.MaxPitchDegrees,
		MaxCaptures:     s.defaults.MaxCaptures,
		CaptureCount:    0,
		CreatedAt:       time.Now(),
	}

	if req.MaxYawDegrees > 0 {
		session.MaxYawDegrees = req.MaxYawDegrees
	}
	if req.MaxPitchDegrees > 0 {
		session.MaxPitchDegrees = req.MaxPitchDegrees
	}
	if req.MaxCaptures > 0 {
		session.MaxCaptures = req.MaxCaptures
	}

	if err := s.redis.SetJSON(ctx, sessionKey(id), session, s.defaults.SessionTTL); err != nil {
		return preview.SessionResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"session_id":   id,
		"max_captures": session.MaxCaptures,
	}).Info("Preview session created")

	return makeSessionResponse(session), nil
}

func (s *previewService) GetSession(ctx context.Context, id string) (preview.SessionResponse, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return preview.SessionResponse{}, err
	}

	return makeSessionResponse(session), nil
}

// Analyze checks one frame without touching any session state. Ceilings
// come from the service defaults unless the request overrides them for
// this single check.
func (s *previewService) Analyze(ctx context.Context, req preview.AnalyzeRequest) (preview.AnalyzeResponse, error) {
	maxYaw := s.defaults.MaxYawDegrees
	if req.MaxYawDegrees != nil {
		maxYaw = *req.MaxYawDegrees
	}

	maxPitch := s.defaults.MaxPitchDegrees
	if req.MaxPitchDegrees != nil {
		maxPitch = *req.MaxPitchDegrees
	}

	return s.analyzeFrame(req, maxYaw, maxPitch), nil
}

// CaptureFrame counts a frame against the session when it passes the
// quality checks. Sessions at their limit answer without analyzing.
func (s *previewService) CaptureFrame(ctx context.Context, sessionID string, req preview.AnalyzeRequest) (preview.CaptureFrameResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return preview.CaptureFrameResponse{}, err
	}

	if session.CaptureCount >= session.MaxCaptures {
		return preview.CaptureFrameResponse{
			AnalyzeResponse: preview.AnalyzeResponse{Message: msgCaptureLimit},
			Captured:        false,
			CaptureCount:    session.CaptureCount,
			MaxCaptures:     session.MaxCaptures,
			StatusLine:      statusLine(session),
		}, nil
	}

	analysis := s.analyzeFrame(req, session.MaxYawDegrees, session.MaxPitchDegrees)

	resp := preview.CaptureFrameResponse{
		AnalyzeResponse: analysis,
		CaptureCount:    session.CaptureCount,
		MaxCaptures:     session.MaxCaptures,
	}

	if analysis.Detected && analysis.QualityGood {
		session.CaptureCount++
		if err := s.saveSession(ctx, session); err != nil {
			return preview.CaptureFrameResponse{}, err
		}

		resp.Captured = true
		resp.CaptureCount = session.CaptureCount

		s.log.WithFields(logrus.Fields{
			"request_id":    requestID,
			"session_id":    sessionID,
			"capture_count": session.CaptureCount,
			"max_captures":  session.MaxCaptures,
		}).Info("Preview frame captured")
	}

	resp.StatusLine = statusLine(session)

	return resp, nil
}

func (s *previewService) GetConfig(ctx context.Context, sessionID string) (preview.ConfigResponse, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return preview.ConfigResponse{}, err
	}

	return makeConfigResponse(session), nil
}

func (s *previewService) UpdateConfig(ctx context.Context, sessionID string, req preview.UpdateConfigRequest) (preview.ConfigResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return preview.ConfigResponse{}, err
	}

	if req.MaxYawDegrees != nil {
		session.MaxYawDegrees = *req.MaxYawDegrees
	}
	if req.MaxPitchDegrees != nil {
		session.MaxPitchDegrees = *req.MaxPitchDegrees
	}
	if req.MaxCaptures != nil {
		session.MaxCaptures = *req.MaxCaptures
	}

	if err := s.saveSession(ctx, session); err != nil {
		return preview.ConfigResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Preview session config updated")

	return makeConfigResponse(session), nil
}

func (s *previewService) ResetSession(ctx context.Context, id string) (preview.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	session, err := s.loadSession(ctx, id)
	if err != nil {
		return preview.SessionResponse{}, err
	}

	session.CaptureCount = 0
	if err := s.saveSession(ctx, session); err != nil {
		return preview.SessionResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": id,
	}).Info("Preview session reset")

	return makeSessionResponse(session), nil
}

// analyzeFrame applies the preview checks in their fixed order: frame size,
// landmark completeness, yaw, then pitch. The first failed check decides
// the message.
func (s *previewService) analyzeFrame(req preview.AnalyzeRequest, maxYaw, maxPitch float64) preview.AnalyzeResponse {
	if req.Width < minFrameDim || req.Height < minFrameDim {
		return preview.AnalyzeResponse{Message: msgImageTooSmall}
	}

	set := facemesh.Set(req.Landmarks)
	if !set.Complete() {
		return preview.AnalyzeResponse{
			LandmarkCount: len(set),
			Message:       msgNoFace,
		}
	}

	pose := s.estimator.Estimate(set)

	resp := preview.AnalyzeResponse{
		Detected:      true,
		LandmarkCount: len(set),
		Yaw:           pose.Yaw,
		Pitch:         pose.Pitch,
		Roll:          pose.Roll,
	}

	gate := smartcapture.NewGate(smartcapture.Config{
		MaxYawDegrees:   maxYaw,
		MaxPitchDegrees: maxPitch,
		PitchMultiplier: smartcapture.PitchStrict,
	})

	switch gate.Evaluate(set, pose) {
	case smartcapture.Accept:
		resp.QualityGood = true
		resp.Message = msgGoodQuality
	case smartcapture.RejectYaw:
		resp.Message = fmt.Sprintf(msgYawFormat, int(pose.Yaw))
	case smartcapture.RejectPitch:
		resp.Message = fmt.Sprintf(msgPitchFormat, int(pose.Pitch))
	}

	return resp
}

func (s *previewService) loadSession(ctx context.Context, id string) (entity.PreviewSession, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var session entity.PreviewSession
	if err := s.redis.GetJSON(ctx, sessionKey(id), &session); err != nil {
		if errors.Is(err, redisPkg.Nil) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
			}).Debug("Preview session missing or expired")
			return entity.PreviewSession{}, preview.ErrSessionNotFound
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to load preview session")
		return entity.PreviewSession{}, err
	}

	return session, nil
}

// saveSession writes the session back under its remaining TTL so progress
// updates never extend the expiry window.
func (s *previewService) saveSession(ctx context.Context, session entity.PreviewSession) error {
	ttl := s.defaults.SessionTTL
	if remaining, err := s.redis.TTL(ctx, sessionKey(session.ID)); err == nil && remaining > 0 {
		ttl = remaining
	}

	return s.redis.SetJSON(ctx, sessionKey(session.ID), session, ttl)
}

func statusLine(session entity.PreviewSession) string {
	return fmt.Sprintf(statusLineFormat, session.CaptureCount, session.MaxCaptures)
}

func makeSessionResponse(session entity.PreviewSession) preview.SessionResponse {
	return preview.SessionResponse{
		ID:              session.ID,
		MaxYawDegrees:   session.MaxYawDegrees,
		MaxPitchDegrees: session.MaxPitchDegrees,
		MaxCaptures:     session.MaxCaptures,
		CaptureCount:    session.CaptureCount,
		StatusLine:      statusLine(session),
		CreatedAt:       session.CreatedAt,
	}
}

func makeConfigResponse(session entity.PreviewSession) preview.ConfigResponse {
	return preview.ConfigResponse{
		MaxYawDegrees:   session.MaxYawDegrees,
		MaxPitchDegrees: session.MaxPitchDegrees,
		MaxCaptures:     session.MaxCaptures,
		Summary: fmt.Sprintf(configLineFormat,
			int(session.MaxYawDegrees), int(session.MaxPitchDegrees), session.MaxCaptures),
	}
}
