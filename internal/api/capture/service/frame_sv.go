package captureService

import (
	"context"
	"fmt"
	"time"

	"SmartCapture/internal/api/capture"
	"SmartCapture/internal/entity"
	contextPkg "SmartCapture/pkg/context"
	"SmartCapture/pkg/facemesh"
	"SmartCapture/pkg/headpose"
	"SmartCapture/pkg/smartcapture"

	"github.com/sirupsen/logrus"
)

const jpegQuality = 85

// ProcessFrame runs one frame through the session's quality gate. Frames
// without a decodable image are skipped without a status so streams stay
// quiet while the camera warms up; frames at the capture limit are dropped
// the same way, with Completed set so clients know to stop sending.
func (s *captureService) ProcessFrame(ctx context.Context, sessionID string, req capture.FrameRequest) (capture.FrameResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.captureRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return capture.FrameResponse{}, err
	}

	session, err := repo.Sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return capture.FrameResponse{}, err
	}

	resp := capture.FrameResponse{
		CaptureCount: session.CaptureCount,
		MaxCaptures:  session.MaxCaptures,
	}

	if session.Completed() {
		resp.Completed = true
		return resp, nil
	}

	if req.ImageBase64 == "" {
		return resp, nil
	}

	img, err := s.utils.DecodeBase64Image(req.ImageBase64)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Dropping frame with undecodable image")
		return resp, nil
	}

	processor := smartcapture.NewProcessorAt(smartcapture.Config{
		MaxCaptures:     session.MaxCaptures,
		MaxYawDegrees:   session.MaxYawDegrees,
		MaxPitchDegrees: session.MaxPitchDegrees,
		Padding:         session.Padding,
		PitchMultiplier: session.PitchMultiplier,
	}, estimatorFor(session.Estimator), session.CaptureCount)

	outcome := processor.ProcessFrame(img, facemesh.Set(req.Landmarks))

	resp.Processed = true
	resp.Status = outcome.Status
	resp.Decision = outcome.Decision.String()
	resp.Yaw = outcome.Pose.Yaw
	resp.Pitch = outcome.Pose.Pitch
	resp.Roll = outcome.Pose.Roll
	resp.CaptureCount = outcome.CaptureCount

	if !outcome.Accepted {
		return resp, nil
	}

	session.CaptureCount = outcome.CaptureCount
	if session.CaptureCount >= session.MaxCaptures {
		session.Status = entity.CaptureSessionCompleted
		resp.Completed = true
	}

	record, uploaded, err := s.storeCrop(ctx, session, outcome)
	if err != nil {
		return capture.FrameResponse{}, err
	}

	txRepo, err := s.captureRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		s.cleanupUpload(requestID, uploaded)
		return capture.FrameResponse{}, err
	}
	defer txRepo.Rollback()

	if uploaded != "" {
		if err := txRepo.Records.CreateRecord(ctx, record); err != nil {
			s.cleanupUpload(requestID, uploaded)
			return capture.FrameResponse{}, err
		}
	}

	if err := txRepo.Sessions.UpdateSessionProgress(ctx, session); err != nil {
		s.cleanupUpload(requestID, uploaded)
		return capture.FrameResponse{}, err
	}

	if err := txRepo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit capture progress")
		s.cleanupUpload(requestID, uploaded)
		return capture.FrameResponse{}, err
	}

	if uploaded != "" {
		resp.RecordID = record.ID
		resp.ObjectKey = record.ObjectKey
	}

	s.log.WithFields(logrus.Fields{
		"request_id":    requestID,
		"session_id":    sessionID,
		"capture_count": session.CaptureCount,
		"max_captures":  session.MaxCaptures,
		"record_id":     record.ID,
	}).Info("Frame captured")

	return resp, nil
}

// storeCrop encodes and uploads the accepted crop. Accepted frames whose
// padded rectangle collapsed to zero area still count but have nothing to
// store; those return an empty key.
func (s *captureService) storeCrop(ctx context.Context, session entity.CaptureSession, outcome smartcapture.Outcome) (entity.CaptureRecord, string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if outcome.Cropped == nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
		}).Warn("Accepted frame produced an empty crop region")
		return entity.CaptureRecord{}, "", nil
	}

	recordID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate record ID")
		return entity.CaptureRecord{}, "", err
	}

	encoded, err := s.utils.EncodeJPEG(outcome.Cropped, jpegQuality)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode crop")
		return entity.CaptureRecord{}, "", err
	}

	objectKey := fmt.Sprintf("captures/%s/%s.jpg", session.ID, recordID)
	if _, err := s.s3Client.UploadBytes(objectKey, encoded, "image/jpeg"); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"object_key": objectKey,
			"error":      err.Error(),
		}).Error("Failed to upload crop")
		return entity.CaptureRecord{}, "", capture.ErrStorageUnavailable
	}

	record := entity.CaptureRecord{
		ID:        recordID,
		SessionID: session.ID,
		ObjectKey: objectKey,
		Yaw:       outcome.Pose.Yaw,
		Pitch:     outcome.Pose.Pitch,
		Roll:      outcome.Pose.Roll,
		Width:     outcome.CropRect.Dx(),
		Height:    outcome.CropRect.Dy(),
		CreatedAt: time.Now(),
	}

	return record, objectKey, nil
}

// cleanupUpload removes an uploaded object after its database write failed.
func (s *captureService) cleanupUpload(requestID, objectKey string) {
	if objectKey == "" {
		return
	}
	if err := s.s3Client.DeleteFile(objectKey); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"object_key": objectKey,
			"error":      err.Error(),
		}).Warn("Failed to delete orphaned upload")
	}
}

func estimatorFor(name string) headpose.Estimator {
	if name == entity.EstimatorRatio {
		return headpose.NewRatioEstimator()
	}
	return headpose.NewDepthEstimator()
}
