package captureRepository

const (
	queryCreateSession = `
		INSERT INTO capture_sessions (
			id, max_captures, max_yaw_degrees, max_pitch_degrees,
			pitch_multiplier, padding, estimator, capture_count,
			status, created_at, updated_at
		) VALUES (
			:id, :max_captures, :max_yaw_degrees, :max_pitch_degrees,
			:pitch_multiplier, :padding, :estimator, :capture_count,
			:status, :created_at, :updated_at
		)
	`

	queryGetSessionByID = `
		SELECT
			id, max_captures, max_yaw_degrees, max_pitch_degrees,
			pitch_multiplier, padding, estimator, capture_count,
			status, created_at, updated_at
		FROM capture_sessions
		WHERE id = :id
	`

	queryUpdateSessionProgress = `
		UPDATE capture_sessions
		SET
			capture_count = :capture_count,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryResetSession = `
		UPDATE capture_sessions
		SET
			capture_count = 0,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryCreateRecord = `
		INSERT INTO capture_records (
			id, session_id, object_key, yaw, pitch, roll,
			width, height, created_at
		) VALUES (
			:id, :session_id, :object_key, :yaw, :pitch, :roll,
			:width, :height, :created_at
		)
	`

	queryGetRecordsBySessionID = `
		SELECT
			id, session_id, object_key, yaw, pitch, roll,
			width, height, created_at
		FROM capture_records
		WHERE session_id = :session_id
		ORDER BY created_at ASC
	`

	queryDeleteRecordsBySessionID = `
		DELETE FROM capture_records
		WHERE session_id = :session_id
		RETURNING object_key
	`
)
