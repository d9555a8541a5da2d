package jwtPkg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"SmartCapture/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const StreamTokenSecretEnv = "JWT_STREAM_TOKEN_SECRET"

// Sign issues a stream token carrying the given claims. Stream tokens are
// session-scoped: callers put the session id under "session_id".
func Sign(data map[string]interface{}, expiresIn time.Duration) (string, int64, error) {
	expiredAt := time.Now().Add(expiresIn).Unix()

	secret := os.Getenv(StreamTokenSecretEnv)
	if secret == "" {
		return "", 0, fmt.Errorf("%s not set", StreamTokenSecretEnv)
	}

	claims := jwt.MapClaims{}
	claims["exp"] = expiredAt
	claims["authorization"] = true

	for k, v := range data {
		claims[k] = v
	}

	to := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := to.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign stream token")
		return "", 0, err
	}

	return token, expiredAt, nil
}

func VerifyTokenHeader(c *fiber.Ctx, secretEnvKey string) (*jwt.Token, error) {
	log := logrus.WithField("func", "VerifyTokenHeader")

	header := c.Get("Authorization")
	if header == "" {
		return nil, errors.New("empty Authorization header")
	}

	parts := strings.Split(header, "Bearer ")
	if len(parts) != 2 {
		log.WithField("header_parts", len(parts)).Error("Invalid Authorization format")
		return nil, errors.New("invalid Authorization format")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return nil, errors.New("empty token")
	}

	secret := os.Getenv(secretEnvKey)
	if secret == "" {
		log.Errorf("%s environment variable not set", secretEnvKey)
		return nil, errors.New("JWT secret not configured")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			log.WithField("method", t.Header["alg"]).Error("Unexpected signing method")
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to parse stream token")
		return nil, err
	}

	return parsed, nil
}

// GetStreamSessionData returns the session scope the token middleware
// stored for this request.
func GetStreamSessionData(c *fiber.Ctx) (entity.StreamSessionData, error) {
	data := c.Locals("stream_session")

	session, ok := data.(entity.StreamSessionData)
	if !ok {
		return entity.StreamSessionData{}, fiber.ErrUnauthorized
	}

	return session, nil
}
