package captureHandler

import (
	captureService "SmartCapture/internal/api/capture/service"
	"SmartCapture/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type CaptureHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	captureService captureService.ICaptureService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	cs captureService.ICaptureService,
) *CaptureHandler {
	return &CaptureHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		captureService: cs,
	}
}

func (h *CaptureHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	captureGroup := srv.Group("/capture")
	captureGroup.Post("/sessions", h.middleware.NewAPIKeyMiddleware, h.CreateSession)
	captureGroup.Get("/sessions/:session_id", h.middleware.NewStreamTokenMiddleware, h.GetSession)
	captureGroup.Post("/sessions/:session_id/frames", h.middleware.NewStreamTokenMiddleware, h.ProcessFrame)
	captureGroup.Post("/sessions/:session_id/reset", h.middleware.NewStreamTokenMiddleware, h.ResetSession)
	captureGroup.Get("/sessions/:session_id/captures", h.middleware.NewStreamTokenMiddleware, h.ListCaptures)

	captureGroup.Use("/sessions/:session_id/stream", h.middleware.NewStreamTokenMiddleware, wsMiddleware)
	captureGroup.Get("/sessions/:session_id/stream", websocket.New(h.handleStream))
}
