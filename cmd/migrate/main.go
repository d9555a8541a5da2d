package main

import (
	"SmartCapture/database/postgres"
	"SmartCapture/pkg/log"

	"github.com/joho/godotenv"
)

// Schema is applied idempotently so the command can run on every deploy.
const schema = `
CREATE TABLE IF NOT EXISTS capture_sessions (
	id VARCHAR(26) PRIMARY KEY,
	max_captures INTEGER NOT NULL,
	max_yaw_degrees DOUBLE PRECISION NOT NULL,
	max_pitch_degrees DOUBLE PRECISION NOT NULL,
	pitch_multiplier DOUBLE PRECISION NOT NULL,
	padding DOUBLE PRECISION NOT NULL,
	estimator VARCHAR(16) NOT NULL,
	capture_count INTEGER NOT NULL DEFAULT 0,
	status VARCHAR(16) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS capture_records (
	id VARCHAR(26) PRIMARY KEY,
	session_id VARCHAR(26) NOT NULL REFERENCES capture_sessions(id) ON DELETE CASCADE,
	object_key TEXT NOT NULL,
	yaw DOUBLE PRECISION NOT NULL,
	pitch DOUBLE PRECISION NOT NULL,
	roll DOUBLE PRECISION NOT NULL,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_capture_records_session_id ON capture_records(session_id);
CREATE INDEX IF NOT EXISTS idx_capture_sessions_status ON capture_sessions(status);
`

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Fatalf("Error loading .env file: %v", err)
	}

	db, err := postgres.New()
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		logger.Fatalf("Failed to apply schema: %v", err)
	}

	logger.Info("Database schema is up to date")
}
