package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const apiKeyHeader = "X-API-Key"

// NewAPIKeyMiddleware guards service-to-service routes (session creation).
// Only the bcrypt hash of the key is kept in the environment.
func (m *middleware) NewAPIKeyMiddleware(ctx *fiber.Ctx) error {
	apiKeyHash := os.Getenv("API_KEY_HASH")
	if apiKeyHash == "" {
		m.log.Error("API_KEY_HASH is not configured")
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Service is not configured for API access",
		})
	}

	apiKey := ctx.Get(apiKeyHeader)
	if apiKey == "" {
		m.log.WithFields(logrus.Fields{
			"path":   ctx.Path(),
			"method": ctx.Method(),
		}).Warn("Missing API key")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, API key required",
		})
	}

	if err := m.bcryptUtils.CompareSecret(apiKeyHash, apiKey); err != nil {
		m.log.WithFields(logrus.Fields{
			"path": ctx.Path(),
			"ip":   ctx.IP(),
		}).Warn("Invalid API key")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, API key invalid",
		})
	}

	return ctx.Next()
}
