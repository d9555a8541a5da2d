package captureService

import (
	"os"
	"strconv"
	"time"

	"SmartCapture/internal/api/capture"
	captureRepository "SmartCapture/internal/api/capture/repository"
	"SmartCapture/internal/entity"
	"SmartCapture/pkg/s3"
	"SmartCapture/pkg/smartcapture"
	"SmartCapture/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type ICaptureService interface {
	CreateSession(ctx context.Context, req capture.CreateSessionRequest) (capture.CreateSessionResponse, error)
	GetSession(ctx context.Context, id string) (capture.SessionResponse, error)
	ProcessFrame(ctx context.Context, sessionID string, req capture.FrameRequest) (capture.FrameResponse, error)
	ResetSession(ctx context.Context, id string) (capture.SessionResponse, error)
	ListCaptures(ctx context.Context, sessionID string) (capture.ListCapturesResponse, error)
}

type captureService struct {
	log         *logrus.Logger
	captureRepo captureRepository.Repository
	s3Client    s3.ItfS3
	utils       utils.IUtils
	defaults    SessionDefaults
}

// SessionDefaults fills CreateSession fields the client left zero. The
// pitch multiplier is not client-tunable; the capture path always runs
// with the relaxed pitch policy unless the deployment overrides it.
type SessionDefaults struct {
	MaxCaptures     int
	MaxYawDegrees   float64
	MaxPitchDegrees float64
	Padding         float64
	PitchMultiplier float64
	Estimator       string
	StreamTokenTTL  time.Duration
}

func NewCaptureService(
	log *logrus.Logger,
	captureRepo captureRepository.Repository,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) ICaptureService {
	return &captureService{
		log:         log,
		captureRepo: captureRepo,
		s3Client:    s3Client,
		utils:       utils,
		defaults:    defaultsFromEnv(),
	}
}

func defaultsFromEnv() SessionDefaults {
	return SessionDefaults{
		MaxCaptures:     envInt("CAPTURE_MAX_CAPTURES", 3),
		MaxYawDegrees:   envFloat("CAPTURE_MAX_YAW_DEGREES", 15),
		MaxPitchDegrees: envFloat("CAPTURE_MAX_PITCH_DEGREES", 10),
		Padding:         envFloat("CAPTURE_PADDING", 0.25),
		PitchMultiplier: envFloat("CAPTURE_PITCH_MULTIPLIER", smartcapture.PitchRelaxed),
		Estimator:       envString("CAPTURE_ESTIMATOR", entity.EstimatorDepth),
		StreamTokenTTL:  envDuration("STREAM_TOKEN_EXPIRY", time.Hour),
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
