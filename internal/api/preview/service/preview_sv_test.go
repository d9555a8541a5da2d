package previewService

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"testing"
	"time"

	"SmartCapture/internal/api/preview"
	"SmartCapture/internal/entity"
	"SmartCapture/pkg/facemesh"
	"SmartCapture/pkg/facemesh/facemeshtest"
	"SmartCapture/pkg/headpose"
	redisPkg "SmartCapture/pkg/redis"
	"SmartCapture/pkg/utils"

	"github.com/sirupsen/logrus"
)

// fakeRedis keeps marshalled values and their last written TTL in memory.
// Expiry never actually elapses; tests set ttls directly to simulate time.
type fakeRedis struct {
	values map[string][]byte
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values: make(map[string][]byte),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeRedis) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = payload
	f.ttls[key] = expiration
	return nil
}

func (f *fakeRedis) GetJSON(ctx context.Context, key string, dest interface{}) error {
	payload, ok := f.values[key]
	if !ok {
		return redisPkg.Nil
	}
	return json.Unmarshal(payload, dest)
}

func (f *fakeRedis) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	delete(f.ttls, key)
	return nil
}

func (f *fakeRedis) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, ok := f.ttls[key]
	if !ok {
		return -2 * time.Second, nil
	}
	return ttl, nil
}

func newTestService(redis *fakeRedis) *previewService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &previewService{
		log:       logger,
		redis:     redis,
		utils:     utils.New(),
		estimator: headpose.NewRatioEstimator(),
		defaults: PreviewDefaults{
			MaxYawDegrees:   15,
			MaxPitchDegrees: 15,
			MaxCaptures:     5,
			SessionTTL:      30 * time.Minute,
		},
	}
}

func seedSession(t *testing.T, redis *fakeRedis, session entity.PreviewSession) {
	t.Helper()
	if err := redis.SetJSON(context.Background(), sessionKey(session.ID), session, 30*time.Minute); err != nil {
		t.Fatalf("seeding session: %v", err)
	}
}

// tiltedSet bends a level face down by pulling the chin toward the nose
// bridge, which drives the ratio pitch past the strict ceiling.
func tiltedSet() []facemesh.Point {
	set := facemeshtest.Frontal(640, 480)
	set[facemesh.Chin] = facemesh.Point{X: 0.5, Y: 0.47, Z: -0.04}
	return set
}

func TestAnalyzeMessages(t *testing.T) {
	svc := newTestService(newFakeRedis())

	tests := []struct {
		name          string
		req           preview.AnalyzeRequest
		wantDetected  bool
		wantGood      bool
		wantMessage   string
		wantLandmarks int
	}{
		{
			name:        "narrow frame",
			req:         preview.AnalyzeRequest{Width: 99, Height: 480},
			wantMessage: "Image too small",
		},
		{
			name:        "short frame",
			req:         preview.AnalyzeRequest{Width: 640, Height: 99},
			wantMessage: "Image too small",
		},
		{
			name:          "missing landmarks",
			req:           preview.AnalyzeRequest{Width: 640, Height: 480},
			wantMessage:   "No face detected",
			wantLandmarks: 0,
		},
		{
			name: "partial landmarks",
			req: preview.AnalyzeRequest{
				Width: 640, Height: 480,
				Landmarks: make([]facemesh.Point, 100),
			},
			wantMessage:   "No face detected",
			wantLandmarks: 100,
		},
		{
			name: "level face",
			req: preview.AnalyzeRequest{
				Width: 640, Height: 480,
				Landmarks: facemeshtest.Frontal(640, 480),
			},
			wantDetected:  true,
			wantGood:      true,
			wantMessage:   "Good quality face detected!",
			wantLandmarks: facemesh.PointCount,
		},
		{
			name: "turned face",
			req: preview.AnalyzeRequest{
				Width: 640, Height: 480,
				Landmarks: facemeshtest.Circular(640, 480),
			},
			wantDetected:  true,
			wantMessage:   "Face turned too much (Yaw: -40°)",
			wantLandmarks: facemesh.PointCount,
		},
		{
			name: "tilted face",
			req: preview.AnalyzeRequest{
				Width: 640, Height: 480,
				Landmarks: tiltedSet(),
			},
			wantDetected:  true,
			wantMessage:   "Face tilted too much (Pitch: 19°)",
			wantLandmarks: facemesh.PointCount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.Analyze(context.Background(), tc.req)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}

			if resp.Detected != tc.wantDetected {
				t.Errorf("Detected = %v, want %v", resp.Detected, tc.wantDetected)
			}
			if resp.QualityGood != tc.wantGood {
				t.Errorf("QualityGood = %v, want %v", resp.QualityGood, tc.wantGood)
			}
			if resp.Message != tc.wantMessage {
				t.Errorf("Message = %q, want %q", resp.Message, tc.wantMessage)
			}
			if resp.LandmarkCount != tc.wantLandmarks {
				t.Errorf("LandmarkCount = %d, want %d", resp.LandmarkCount, tc.wantLandmarks)
			}
		})
	}
}

// TestAnalyzeThresholdOverrides pins two things at once: the per-request
// ceiling overrides and the inclusive boundary (an angle exactly at the
// ceiling passes; the check only fails beyond it).
func TestAnalyzeThresholdOverrides(t *testing.T) {
	svc := newTestService(newFakeRedis())

	landmarks := facemeshtest.Circular(640, 480)
	pose := headpose.NewRatioEstimator().Estimate(landmarks)
	yawMag := math.Abs(pose.Yaw)
	pitchMag := math.Abs(pose.Pitch)

	// Yaw ceiling exactly at the measured angle: the yaw check passes
	// inclusively and the untouched pitch ceiling takes over.
	resp, err := svc.Analyze(context.Background(), preview.AnalyzeRequest{
		Width: 640, Height: 480,
		Landmarks:     landmarks,
		MaxYawDegrees: &yawMag,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.QualityGood {
		t.Error("QualityGood = true with the pitch ceiling still at its default")
	}
	if want := fmt.Sprintf("Face tilted too much (Pitch: %d°)", int(pose.Pitch)); resp.Message != want {
		t.Errorf("Message = %q, want %q", resp.Message, want)
	}

	// Both ceilings at the measured angles: the frame passes.
	resp, err = svc.Analyze(context.Background(), preview.AnalyzeRequest{
		Width: 640, Height: 480,
		Landmarks:       landmarks,
		MaxYawDegrees:   &yawMag,
		MaxPitchDegrees: &pitchMag,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !resp.QualityGood {
		t.Errorf("QualityGood = false at the exact ceilings, message %q", resp.Message)
	}

	// A ceiling just under the measured angle rejects again.
	tightYaw := yawMag - 0.5
	resp, err = svc.Analyze(context.Background(), preview.AnalyzeRequest{
		Width: 640, Height: 480,
		Landmarks:     landmarks,
		MaxYawDegrees: &tightYaw,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if want := fmt.Sprintf("Face turned too much (Yaw: %d°)", int(pose.Yaw)); resp.Message != want {
		t.Errorf("Message = %q, want %q", resp.Message, want)
	}
}

func TestCreateSessionDefaultsAndOverrides(t *testing.T) {
	redis := newFakeRedis()
	svc := newTestService(redis)

	resp, err := svc.CreateSession(context.Background(), preview.CreateSessionRequest{MaxCaptures: 3})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if len(resp.ID) != 26 {
		t.Errorf("ID = %q, want a 26-char ULID", resp.ID)
	}
	if resp.MaxCaptures != 3 {
		t.Errorf("MaxCaptures = %d, want 3", resp.MaxCaptures)
	}
	if resp.MaxYawDegrees != 15 {
		t.Errorf("MaxYawDegrees = %v, want default 15", resp.MaxYawDegrees)
	}
	if resp.StatusLine != "Ready - Captured: 0/3" {
		t.Errorf("StatusLine = %q", resp.StatusLine)
	}

	if _, ok := redis.values[sessionKey(resp.ID)]; !ok {
		t.Error("session was not written to redis")
	}
	if got := redis.ttls[sessionKey(resp.ID)]; got != 30*time.Minute {
		t.Errorf("session TTL = %v, want 30m", got)
	}
}

func TestGetSessionExpired(t *testing.T) {
	svc := newTestService(newFakeRedis())

	_, err := svc.GetSession(context.Background(), "gone")
	if !errors.Is(err, preview.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestCaptureFrameCountsOnlyGoodFrames(t *testing.T) {
	redis := newFakeRedis()
	svc := newTestService(redis)
	seedSession(t, redis, entity.PreviewSession{
		ID: "pv-1", MaxYawDegrees: 15, MaxPitchDegrees: 15, MaxCaptures: 2,
	})

	badReq := preview.AnalyzeRequest{
		Width: 640, Height: 480,
		Landmarks: facemeshtest.Circular(640, 480),
	}
	resp, err := svc.CaptureFrame(context.Background(), "pv-1", badReq)
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	if resp.Captured {
		t.Error("Captured = true for a turned face")
	}
	if resp.CaptureCount != 0 {
		t.Errorf("CaptureCount = %d, want 0", resp.CaptureCount)
	}
	if resp.StatusLine != "Ready - Captured: 0/2" {
		t.Errorf("StatusLine = %q", resp.StatusLine)
	}

	goodReq := preview.AnalyzeRequest{
		Width: 640, Height: 480,
		Landmarks: facemeshtest.Frontal(640, 480),
	}
	resp, err = svc.CaptureFrame(context.Background(), "pv-1", goodReq)
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	if !resp.Captured {
		t.Fatal("Captured = false for a level face")
	}
	if resp.CaptureCount != 1 {
		t.Errorf("CaptureCount = %d, want 1", resp.CaptureCount)
	}
	if resp.StatusLine != "Ready - Captured: 1/2" {
		t.Errorf("StatusLine = %q", resp.StatusLine)
	}

	var stored entity.PreviewSession
	if err := redis.GetJSON(context.Background(), sessionKey("pv-1"), &stored); err != nil {
		t.Fatalf("reading stored session: %v", err)
	}
	if stored.CaptureCount != 1 {
		t.Errorf("stored CaptureCount = %d, want 1", stored.CaptureCount)
	}
}

func TestCaptureFrameAtLimitSkipsAnalysis(t *testing.T) {
	redis := newFakeRedis()
	svc := newTestService(redis)
	seedSession(t, redis, entity.PreviewSession{
		ID: "pv-1", MaxYawDegrees: 15, MaxPitchDegrees: 15, MaxCaptures: 2, CaptureCount: 2,
	})

	resp, err := svc.CaptureFrame(context.Background(), "pv-1", preview.AnalyzeRequest{
		Width: 640, Height: 480,
		Landmarks: facemeshtest.Frontal(640, 480),
	})
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}

	if resp.Captured {
		t.Error("Captured = true past the limit")
	}
	if resp.Message != "Capture limit reached" {
		t.Errorf("Message = %q, want capture limit message", resp.Message)
	}
	if resp.Detected {
		t.Error("Detected = true, want analysis skipped at the limit")
	}
	if resp.CaptureCount != 2 {
		t.Errorf("CaptureCount = %d, want 2", resp.CaptureCount)
	}
	if resp.StatusLine != "Ready - Captured: 2/2" {
		t.Errorf("StatusLine = %q", resp.StatusLine)
	}
}

// TestCaptureFramePreservesRemainingTTL guards the expiry rule: counting a
// capture must not push the session's expiry further out.
func TestCaptureFramePreservesRemainingTTL(t *testing.T) {
	redis := newFakeRedis()
	svc := newTestService(redis)
	seedSession(t, redis, entity.PreviewSession{
		ID: "pv-1", MaxYawDegrees: 15, MaxPitchDegrees: 15, MaxCaptures: 5,
	})
	redis.ttls[sessionKey("pv-1")] = 7 * time.Minute

	_, err := svc.CaptureFrame(context.Background(), "pv-1", preview.AnalyzeRequest{
		Width: 640, Height: 480,
		Landmarks: facemeshtest.Frontal(640, 480),
	})
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}

	if got := redis.ttls[sessionKey("pv-1")]; got != 7*time.Minute {
		t.Errorf("session TTL after capture = %v, want the remaining 7m", got)
	}
}

func TestUpdateConfigAppliesOnlyProvidedFields(t *testing.T) {
	redis := newFakeRedis()
	svc := newTestService(redis)
	seedSession(t, redis, entity.PreviewSession{
		ID: "pv-1", MaxYawDegrees: 15, MaxPitchDegrees: 15, MaxCaptures: 5,
	})

	newYaw := 25.0
	resp, err := svc.UpdateConfig(context.Background(), "pv-1", preview.UpdateConfigRequest{
		MaxYawDegrees: &newYaw,
	})
	if err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}

	if resp.MaxYawDegrees != 25 {
		t.Errorf("MaxYawDegrees = %v, want 25", resp.MaxYawDegrees)
	}
	if resp.MaxPitchDegrees != 15 {
		t.Errorf("MaxPitchDegrees = %v, want unchanged 15", resp.MaxPitchDegrees)
	}
	if resp.MaxCaptures != 5 {
		t.Errorf("MaxCaptures = %d, want unchanged 5", resp.MaxCaptures)
	}
	if want := "Max Yaw: 25°, Max Pitch: 15°, Max Captures: 5"; resp.Summary != want {
		t.Errorf("Summary = %q, want %q", resp.Summary, want)
	}
}

func TestResetSessionClearsCount(t *testing.T) {
	redis := newFakeRedis()
	svc := newTestService(redis)
	seedSession(t, redis, entity.PreviewSession{
		ID: "pv-1", MaxYawDegrees: 15, MaxPitchDegrees: 15, MaxCaptures: 5, CaptureCount: 4,
	})

	resp, err := svc.ResetSession(context.Background(), "pv-1")
	if err != nil {
		t.Fatalf("ResetSession: %v", err)
	}

	if resp.CaptureCount != 0 {
		t.Errorf("CaptureCount = %d, want 0", resp.CaptureCount)
	}
	if resp.StatusLine != "Ready - Captured: 0/5" {
		t.Errorf("StatusLine = %q", resp.StatusLine)
	}
}
