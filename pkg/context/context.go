// Package context carries the request ID assigned by the HTTP middleware
// down to the services and repositories, which attach it to their log
// fields. The ID travels as a context value so the signal survives the
// hop from fiber handlers into plain context.Context call chains.
package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const RequestIDKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID reads the request ID back out of ctx. Callers log the
// result unconditionally, so a missing value comes back as "unknown"
// rather than an empty field.
func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// FromFiberCtx seeds a context for one HTTP request. The request ID
// middleware stores the ID in Locals; the header is the fallback for
// routes mounted without it.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	ctx := context.Background()

	requestID, ok := c.Locals("X-Request-ID").(string)
	if !ok || requestID == "" {
		requestID = c.Get("X-Request-ID")

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(ctx, requestID)
}

// FromStreamConn seeds a context from an upgraded websocket connection.
// Fiber copies Locals onto the connection at upgrade time, so the request
// ID assigned to the HTTP upgrade stays attached to every frame the
// stream processes afterwards.
func FromStreamConn(c *websocket.Conn) context.Context {
	requestID, ok := c.Locals("X-Request-ID").(string)
	if !ok || requestID == "" {
		requestID = "unknown"
	}

	return WithRequestID(context.Background(), requestID)
}
