package captureService

import (
	"context"
	"time"

	"SmartCapture/internal/api/capture"
	"SmartCapture/internal/entity"
	contextPkg "SmartCapture/pkg/context"
	jwtPkg "SmartCapture/pkg/jwt"

	"github.com/sirupsen/logrus"
)

func (s *captureService) CreateSession(ctx context.Context, req capture.CreateSessionRequest) (capture.CreateSessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session ID")
		return capture.CreateSessionResponse{}, err
	}

	now := time.Now()
	session := entity.CaptureSession{
		ID:              id,
		MaxCaptures:     s.defaults.MaxCaptures,
		MaxYawDegrees:   s.defaults.MaxYawDegrees,
		MaxPitchDegrees: s.defaults.MaxPitchDegrees,
		PitchMultiplier: s.defaults.PitchMultiplier,
		Padding:         s.defaults.Padding,
		Estimator:       s.defaults.Estimator,
		CaptureCount:    0,
		Status:          entity.CaptureSessionActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if req.MaxCaptures > 0 {
		session.MaxCaptures = req.MaxCaptures
	}
	if req.MaxYawDegrees > 0 {
		session.MaxYawDegrees = req.MaxYawDegrees
	}
	if req.MaxPitchDegrees > 0 {
		session.MaxPitchDegrees = req.MaxPitchDegrees
	}
	if req.Padding > 0 {
		session.Padding = req.Padding
	}
	if req.Estimator != "" {
		session.Estimator = req.Estimator
	}

	repo, err := s.captureRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return capture.CreateSessionResponse{}, err
	}

	if err := repo.Sessions.CreateSession(ctx, session); err != nil {
		return capture.CreateSessionResponse{}, err
	}

	token, expiredAt, err := jwtPkg.Sign(map[string]interface{}{
		"session_id": session.ID,
	}, s.defaults.StreamTokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign stream token")
		return capture.CreateSessionResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"session_id":   session.ID,
		"max_captures": session.MaxCaptures,
		"estimator":    session.Estimator,
	}).Info("Capture session created")

	return capture.CreateSessionResponse{
		Session:     makeSessionResponse(session),
		StreamToken: token,
		ExpiresAt:   expiredAt,
	}, nil
}

func (s *captureService) GetSession(ctx context.Context, id string) (capture.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.captureRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return capture.SessionResponse{}, err
	}

	session, err := repo.Sessions.GetSessionByID(ctx, id)
	if err != nil {
		return capture.SessionResponse{}, err
	}

	return makeSessionResponse(session), nil
}

// ResetSession clears the accepted count and removes stored captures so the
// session can run again from zero.
func (s *captureService) ResetSession(ctx context.Context, id string) (capture.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.captureRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return capture.SessionResponse{}, err
	}
	defer repo.Rollback()

	session, err := repo.Sessions.GetSessionByID(ctx, id)
	if err != nil {
		return capture.SessionResponse{}, err
	}

	objectKeys, err := repo.Records.DeleteRecordsBySessionID(ctx, id)
	if err != nil {
		return capture.SessionResponse{}, err
	}

	if err := repo.Sessions.ResetSession(ctx, id); err != nil {
		return capture.SessionResponse{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit session reset")
		return capture.SessionResponse{}, err
	}

	// Storage cleanup happens after commit. A leftover object is harmless;
	// a dangling database row would not be.
	for _, key := range objectKeys {
		if err := s.s3Client.DeleteFile(key); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"object_key": key,
				"error":      err.Error(),
			}).Warn("Failed to delete stored capture")
		}
	}

	session.CaptureCount = 0
	session.Status = entity.CaptureSessionActive

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": id,
	}).Info("Capture session reset")

	return makeSessionResponse(session), nil
}

func (s *captureService) ListCaptures(ctx context.Context, sessionID string) (capture.ListCapturesResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.captureRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return capture.ListCapturesResponse{}, err
	}

	if _, err := repo.Sessions.GetSessionByID(ctx, sessionID); err != nil {
		return capture.ListCapturesResponse{}, err
	}

	records, err := repo.Records.GetRecordsBySessionID(ctx, sessionID)
	if err != nil {
		return capture.ListCapturesResponse{}, err
	}

	captures := make([]capture.CaptureRecordResponse, 0, len(records))
	for _, record := range records {
		imageURL, err := s.s3Client.PresignUrl(record.ObjectKey)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"object_key": record.ObjectKey,
				"error":      err.Error(),
			}).Warn("Failed to presign capture URL")
			imageURL = ""
		}

		captures = append(captures, capture.CaptureRecordResponse{
			ID:        record.ID,
			SessionID: record.SessionID,
			ImageURL:  imageURL,
			Yaw:       record.Yaw,
			Pitch:     record.Pitch,
			Roll:      record.Roll,
			Width:     record.Width,
			Height:    record.Height,
			CreatedAt: record.CreatedAt,
		})
	}

	return capture.ListCapturesResponse{
		SessionID: sessionID,
		Captures:  captures,
	}, nil
}

func makeSessionResponse(session entity.CaptureSession) capture.SessionResponse {
	return capture.SessionResponse{
		ID:              session.ID,
		MaxCaptures:     session.MaxCaptures,
		MaxYawDegrees:   session.MaxYawDegrees,
		MaxPitchDegrees: session.MaxPitchDegrees,
		PitchMultiplier: session.PitchMultiplier,
		Padding:         session.Padding,
		Estimator:       session.Estimator,
		CaptureCount:    session.CaptureCount,
		Status:          string(session.Status),
		CreatedAt:       session.CreatedAt,
	}
}
