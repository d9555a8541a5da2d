package captureHandler

import (
	"time"

	"SmartCapture/internal/api/capture"
	"SmartCapture/internal/entity"
	contextPkg "SmartCapture/pkg/context"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/context"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// handleStream drives one capture session over a websocket. Each inbound
// message is a JSON frame; each gets one JSON result back. Frames arriving
// after the session completed are still answered so the client can see
// Completed and stop on its own.
func (h *CaptureHandler) handleStream(c *websocket.Conn) {
	h.log.Info("Capture stream client connected")
	defer h.log.Info("Capture stream client disconnected")

	sessionID := c.Params("session_id")
	scope, ok := c.Locals("stream_session").(entity.StreamSessionData)
	if !ok || scope.SessionID != sessionID {
		if err := c.WriteJSON(map[string]string{"error": capture.ErrSessionMismatch.Error()}); err != nil {
			h.log.Errorf("Error sending scope error: %v", err)
		}
		return
	}

	baseCtx := contextPkg.FromStreamConn(c)

	c.SetPingHandler(func(data string) error {
		h.log.Debug("Received ping, sending pong")
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Capture stream error: %v", err)
			} else {
				h.log.Info("Capture stream connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		var req capture.FrameRequest
		if err := json.Unmarshal(message, &req); err != nil {
			h.log.Errorf("Error decoding frame message: %v", err)
			if writeErr := c.WriteJSON(map[string]string{"error": "invalid frame payload"}); writeErr != nil {
				h.log.Errorf("Error sending error response: %v", writeErr)
				break
			}
			continue
		}

		frameCtx, cancel := context.WithTimeout(baseCtx, 10*time.Second)
		result, err := h.captureService.ProcessFrame(frameCtx, sessionID, req)
		cancel()
		if err != nil {
			h.log.Errorf("Error processing frame: %v", err)
			if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
				h.log.Errorf("Error sending error response: %v", writeErr)
				break
			}
			continue
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(result); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			h.log.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}
