package middleware

import (
	"strings"

	"SmartCapture/internal/entity"
	jwtPkg "SmartCapture/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// NewStreamTokenMiddleware guards session-scoped routes. The token is
// issued at session creation and carries the session id; handlers compare
// it against the :session_id path parameter themselves.
func (m *middleware) NewStreamTokenMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")

	if authHeader == "" {
		m.log.WithFields(logrus.Fields{
			"path":   ctx.Path(),
			"method": ctx.Method(),
		}).Warn("Authorization header is missing")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, stream token invalid or expired",
		})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		m.log.WithFields(logrus.Fields{
			"error": "Authorization header format is invalid",
		}).Warn("Authorization header check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, stream token invalid or expired",
		})
	}

	streamToken, err := jwtPkg.VerifyTokenHeader(ctx, jwtPkg.StreamTokenSecretEnv)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Stream token verification failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, stream token invalid or expired",
		})
	}

	claims, ok := streamToken.Claims.(jwt.MapClaims)
	if !ok {
		m.log.WithFields(logrus.Fields{
			"error": "Invalid token claims",
		}).Warn("Stream token claims check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, stream token invalid or expired",
		})
	}

	sessionID, _ := claims["session_id"].(string)
	if sessionID == "" {
		m.log.WithFields(logrus.Fields{
			"error": "Token claims are missing session_id",
		}).Warn("Stream token claims check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, stream token invalid or expired",
		})
	}

	ctx.Locals("stream_session", entity.StreamSessionData{
		SessionID: sessionID,
	})

	return ctx.Next()
}
