package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"net/http"
	"os"
	"time"

	"SmartCapture/internal/api/capture"
	"SmartCapture/pkg/facemesh"
	"SmartCapture/pkg/facemesh/facemeshtest"
	"SmartCapture/pkg/log"
	utilsPkg "SmartCapture/pkg/utils"
	websocketPkg "SmartCapture/pkg/websocket"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	frameWidth  = 640
	frameHeight = 480
	frameDelay  = 200 * time.Millisecond
)

// main drives one capture session end to end against a running server:
// create the session over HTTP, dial the stream, feed synthetic frames
// until the session fills up, then list the stored captures.
func main() {
	logger := log.NewLogger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, relying on the process environment")
	}

	baseURL := envOr("DEMO_BASE_URL", "http://localhost:3000")
	wsBaseURL := envOr("DEMO_WS_BASE_URL", "ws://localhost:3000")
	apiKey := os.Getenv("DEMO_API_KEY")
	if apiKey == "" {
		logger.Fatal("DEMO_API_KEY is required to create a capture session")
	}

	session, err := createSession(baseURL, apiKey)
	if err != nil {
		logger.Fatalf("Failed to create capture session: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"session_id":   session.Session.ID,
		"max_captures": session.Session.MaxCaptures,
		"estimator":    session.Session.Estimator,
	}).Info("Capture session created")

	streamURL := fmt.Sprintf("%s/api/v1/capture/sessions/%s/stream", wsBaseURL, session.Session.ID)
	client := websocketPkg.NewStreamClient(streamURL, session.StreamToken)
	if err := client.Connect(); err != nil {
		logger.Fatalf("Failed to connect to capture stream: %v", err)
	}
	defer client.Close()

	frameImage, err := flatJPEGBase64(frameWidth, frameHeight)
	if err != nil {
		logger.Fatalf("Failed to encode the demo frame image: %v", err)
	}

	for i := 0; ; i++ {
		result, err := client.SendFrame(capture.FrameRequest{
			ImageBase64: frameImage,
			Landmarks:   landmarksFor(i),
		})
		if err != nil {
			logger.Fatalf("Frame %d failed: %v", i, err)
		}

		logger.WithFields(logrus.Fields{
			"frame":    i,
			"status":   result.Status,
			"decision": result.Decision,
			"captured": fmt.Sprintf("%d/%d", result.CaptureCount, result.MaxCaptures),
			"yaw":      fmt.Sprintf("%.1f", result.Yaw),
			"pitch":    fmt.Sprintf("%.1f", result.Pitch),
		}).Info("Frame result")

		if result.Completed {
			break
		}

		time.Sleep(frameDelay)
	}

	captures, err := listCaptures(baseURL, session.Session.ID, session.StreamToken)
	if err != nil {
		logger.Fatalf("Failed to list captures: %v", err)
	}

	for _, record := range captures.Captures {
		logger.WithFields(logrus.Fields{
			"record_id": record.ID,
			"size":      fmt.Sprintf("%dx%d", record.Width, record.Height),
			"image_url": record.ImageURL,
		}).Info("Stored capture")
	}

	logger.Info("Capture session completed")
}

// landmarksFor scripts the stream: one frame without a face, one with the
// head turned away, then level frames until the session fills up.
func landmarksFor(i int) []facemesh.Point {
	switch i {
	case 0:
		return nil
	case 1:
		return facemeshtest.Circular(frameWidth, frameHeight)
	default:
		return facemeshtest.Frontal(frameWidth, frameHeight)
	}
}

func createSession(baseURL, apiKey string) (*capture.CreateSessionResponse, error) {
	payload, err := json.Marshal(capture.CreateSessionRequest{})
	if err != nil {
		return nil, fmt.Errorf("error marshaling session request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/capture/sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error building session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	body, err := doJSON(req, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	var session capture.CreateSessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("error unmarshaling session response: %w", err)
	}

	return &session, nil
}

func listCaptures(baseURL, sessionID, token string) (*capture.ListCapturesResponse, error) {
	url := fmt.Sprintf("%s/api/v1/capture/sessions/%s/captures", baseURL, sessionID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building captures request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := doJSON(req, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var captures capture.ListCapturesResponse
	if err := json.Unmarshal(body, &captures); err != nil {
		return nil, fmt.Errorf("error unmarshaling captures response: %w", err)
	}

	return &captures, nil
}

func doJSON(req *http.Request, wantStatus int) ([]byte, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("%s returned %d: %s", req.URL.Path, resp.StatusCode, body)
	}

	return body, nil
}

// flatJPEGBase64 renders a uniform gray frame. The quality gate reads only
// landmarks; the image just has to decode and crop.
func flatJPEGBase64(width, height int) (string, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: 128, G: 128, B: 128, A: 255}), image.Point{}, draw.Src)

	encoded, err := utilsPkg.New().EncodeJPEG(img, 80)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(encoded), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
