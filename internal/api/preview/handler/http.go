package previewHandler

import (
	previewService "SmartCapture/internal/api/preview/service"
	"SmartCapture/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PreviewHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	previewService previewService.IPreviewService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ps previewService.IPreviewService,
) *PreviewHandler {
	return &PreviewHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		previewService: ps,
	}
}

func (h *PreviewHandler) Start(srv fiber.Router) {
	previewGroup := srv.Group("/preview")
	previewGroup.Post("/analyze", h.middleware.NewRateLimiter, h.Analyze)

	previewGroup.Post("/sessions", h.CreateSession)
	previewGroup.Get("/sessions/:session_id", h.GetSession)
	previewGroup.Post("/sessions/:session_id/frames", h.middleware.NewRateLimiter, h.CaptureFrame)
	previewGroup.Get("/sessions/:session_id/config", h.GetConfig)
	previewGroup.Patch("/sessions/:session_id/config", h.UpdateConfig)
	previewGroup.Post("/sessions/:session_id/reset", h.ResetSession)
}
