package captureService

import (
	"context"
	"errors"
	"testing"
	"time"

	"SmartCapture/internal/api/capture"
	"SmartCapture/internal/entity"
)

func TestCreateSessionAppliesDefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_STREAM_TOKEN_SECRET", "test-secret")

	tests := []struct {
		name          string
		req           capture.CreateSessionRequest
		wantCaptures  int
		wantYaw       float64
		wantEstimator string
	}{
		{
			name:          "all defaults",
			req:           capture.CreateSessionRequest{},
			wantCaptures:  3,
			wantYaw:       15,
			wantEstimator: entity.EstimatorDepth,
		},
		{
			name: "client overrides",
			req: capture.CreateSessionRequest{
				MaxCaptures:   5,
				MaxYawDegrees: 30,
				Estimator:     entity.EstimatorRatio,
			},
			wantCaptures:  5,
			wantYaw:       30,
			wantEstimator: entity.EstimatorRatio,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, newFakeS3())

			resp, err := svc.CreateSession(context.Background(), tc.req)
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			if len(resp.Session.ID) != 26 {
				t.Errorf("session ID = %q, want a 26-char ULID", resp.Session.ID)
			}
			if resp.Session.MaxCaptures != tc.wantCaptures {
				t.Errorf("MaxCaptures = %d, want %d", resp.Session.MaxCaptures, tc.wantCaptures)
			}
			if resp.Session.MaxYawDegrees != tc.wantYaw {
				t.Errorf("MaxYawDegrees = %v, want %v", resp.Session.MaxYawDegrees, tc.wantYaw)
			}
			if resp.Session.Estimator != tc.wantEstimator {
				t.Errorf("Estimator = %q, want %q", resp.Session.Estimator, tc.wantEstimator)
			}
			if resp.Session.Status != string(entity.CaptureSessionActive) {
				t.Errorf("Status = %q, want active", resp.Session.Status)
			}
			if resp.StreamToken == "" {
				t.Error("StreamToken is empty")
			}
			if resp.ExpiresAt <= time.Now().Unix() {
				t.Errorf("ExpiresAt = %d, want in the future", resp.ExpiresAt)
			}

			if _, ok := store.sessions[resp.Session.ID]; !ok {
				t.Error("session was not persisted")
			}
		})
	}
}

func TestGetSessionUnknownID(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeS3())

	_, err := svc.GetSession(context.Background(), "missing")
	if !errors.Is(err, capture.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestResetSessionClearsProgressAndStorage(t *testing.T) {
	store := newFakeStore()
	s3Client := newFakeS3()
	svc := newTestService(store, s3Client)

	session := seedSession(store, "ses-1", 2, 3)
	session.Status = entity.CaptureSessionCompleted
	store.sessions["ses-1"] = session
	store.records["ses-1"] = []entity.CaptureRecord{
		{ID: "rec-1", SessionID: "ses-1", ObjectKey: "captures/ses-1/rec-1.jpg"},
		{ID: "rec-2", SessionID: "ses-1", ObjectKey: "captures/ses-1/rec-2.jpg"},
	}

	resp, err := svc.ResetSession(context.Background(), "ses-1")
	if err != nil {
		t.Fatalf("ResetSession: %v", err)
	}

	if resp.CaptureCount != 0 {
		t.Errorf("CaptureCount = %d, want 0", resp.CaptureCount)
	}
	if resp.Status != string(entity.CaptureSessionActive) {
		t.Errorf("Status = %q, want active", resp.Status)
	}

	if got := store.sessions["ses-1"].CaptureCount; got != 0 {
		t.Errorf("stored CaptureCount = %d, want 0", got)
	}
	if got := len(store.records["ses-1"]); got != 0 {
		t.Errorf("stored records = %d, want 0", got)
	}
	if len(s3Client.deleted) != 2 {
		t.Fatalf("deleted objects = %d, want 2", len(s3Client.deleted))
	}
	if store.commits != 1 {
		t.Errorf("commits = %d, want 1", store.commits)
	}
}

func TestListCapturesPresignsStoredRecords(t *testing.T) {
	store := newFakeStore()
	s3Client := newFakeS3()
	svc := newTestService(store, s3Client)

	seedSession(store, "ses-1", 1, 3)
	store.records["ses-1"] = []entity.CaptureRecord{
		{ID: "rec-1", SessionID: "ses-1", ObjectKey: "captures/ses-1/rec-1.jpg", Yaw: 1.5, Width: 400, Height: 360},
	}

	resp, err := svc.ListCaptures(context.Background(), "ses-1")
	if err != nil {
		t.Fatalf("ListCaptures: %v", err)
	}

	if resp.SessionID != "ses-1" {
		t.Errorf("SessionID = %q, want ses-1", resp.SessionID)
	}
	if len(resp.Captures) != 1 {
		t.Fatalf("captures = %d, want 1", len(resp.Captures))
	}
	if want := "https://cdn.test/captures/ses-1/rec-1.jpg"; resp.Captures[0].ImageURL != want {
		t.Errorf("ImageURL = %q, want %q", resp.Captures[0].ImageURL, want)
	}
	if resp.Captures[0].Yaw != 1.5 {
		t.Errorf("Yaw = %v, want 1.5", resp.Captures[0].Yaw)
	}
}

func TestListCapturesPresignFailureLeavesURLEmpty(t *testing.T) {
	store := newFakeStore()
	s3Client := newFakeS3()
	s3Client.presignErr = errors.New("credential expired")
	svc := newTestService(store, s3Client)

	seedSession(store, "ses-1", 1, 3)
	store.records["ses-1"] = []entity.CaptureRecord{
		{ID: "rec-1", SessionID: "ses-1", ObjectKey: "captures/ses-1/rec-1.jpg"},
	}

	resp, err := svc.ListCaptures(context.Background(), "ses-1")
	if err != nil {
		t.Fatalf("ListCaptures: %v", err)
	}
	if resp.Captures[0].ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty on presign failure", resp.Captures[0].ImageURL)
	}
}
