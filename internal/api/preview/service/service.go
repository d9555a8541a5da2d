package previewService

import (
	"os"
	"strconv"
	"time"

	"SmartCapture/internal/api/preview"
	"SmartCapture/pkg/headpose"
	redisPkg "SmartCapture/pkg/redis"
	"SmartCapture/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IPreviewService interface {
	CreateSession(ctx context.Context, req preview.CreateSessionRequest) (preview.SessionResponse, error)
	GetSession(ctx context.Context, id string) (preview.SessionResponse, error)
	Analyze(ctx context.Context, req preview.AnalyzeRequest) (preview.AnalyzeResponse, error)
	CaptureFrame(ctx context.Context, sessionID string, req preview.AnalyzeRequest) (preview.CaptureFrameResponse, error)
	GetConfig(ctx context.Context, sessionID string) (preview.ConfigResponse, error)
	UpdateConfig(ctx context.Context, sessionID string, req preview.UpdateConfigRequest) (preview.ConfigResponse, error)
	ResetSession(ctx context.Context, id string) (preview.SessionResponse, error)
}

// PreviewDefaults seed new sessions and back the stateless analyze
// endpoint. Preview checks pitch strictly, unlike the capture path.
type PreviewDefaults struct {
	MaxYawDegrees   float64
	MaxPitchDegrees float64
	MaxCaptures     int
	SessionTTL      time.Duration
}

type previewService struct {
	log       *logrus.Logger
	redis     redisPkg.IRedis
	utils     utils.IUtils
	estimator headpose.Estimator
	defaults  PreviewDefaults
}

func NewPreviewService(
	log *logrus.Logger,
	redis redisPkg.IRedis,
	utils utils.IUtils,
) IPreviewService {
	return &previewService{
		log:       log,
		redis:     redis,
		utils:     utils,
		estimator: headpose.NewRatioEstimator(),
		defaults:  previewDefaultsFromEnv(),
	}
}

func previewDefaultsFromEnv() PreviewDefaults {
	return PreviewDefaults{
		MaxYawDegrees:   envFloat("PREVIEW_MAX_YAW_DEGREES", 15),
		MaxPitchDegrees: envFloat("PREVIEW_MAX_PITCH_DEGREES", 15),
		MaxCaptures:     envInt("PREVIEW_MAX_CAPTURES", 5),
		SessionTTL:      envDuration("PREVIEW_SESSION_TTL", 30*time.Minute),
	}
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
