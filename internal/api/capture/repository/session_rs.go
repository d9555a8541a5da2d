package captureRepository

import (
	"SmartCapture/internal/api/capture"
	"SmartCapture/internal/entity"
	contextPkg "SmartCapture/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type CaptureSessionDB struct {
	ID              sql.NullString  `db:"id"`
	MaxCaptures     sql.NullInt64   `db:"max_captures"`
	MaxYawDegrees   sql.NullFloat64 `db:"max_yaw_degrees"`
	MaxPitchDegrees sql.NullFloat64 `db:"max_pitch_degrees"`
	PitchMultiplier sql.NullFloat64 `db:"pitch_multiplier"`
	Padding         sql.NullFloat64 `db:"padding"`
	Estimator       sql.NullString  `db:"estimator"`
	CaptureCount    sql.NullInt64   `db:"capture_count"`
	Status          sql.NullString  `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (r *sessionRepository) CreateSession(ctx context.Context, session entity.CaptureSession) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":                session.ID,
		"max_captures":      session.MaxCaptures,
		"max_yaw_degrees":   session.MaxYawDegrees,
		"max_pitch_degrees": session.MaxPitchDegrees,
		"pitch_multiplier":  session.PitchMultiplier,
		"padding":           session.Padding,
		"estimator":         session.Estimator,
		"capture_count":     session.CaptureCount,
		"status":            string(session.Status),
		"created_at":        session.CreatedAt,
		"updated_at":        session.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating capture session")
		return err
	}

	return nil
}

func (r *sessionRepository) GetSessionByID(ctx context.Context, id string) (entity.CaptureSession, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var sessionDB CaptureSessionDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetSessionByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByID named query preparation err")
		return entity.CaptureSession{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&sessionDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
			}).Debug("GetSessionByID no session found")
			return entity.CaptureSession{}, capture.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByID execution err")
		return entity.CaptureSession{}, err
	}

	return r.makeCaptureSession(sessionDB), nil
}

func (r *sessionRepository) UpdateSessionProgress(ctx context.Context, session entity.CaptureSession) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":            session.ID,
		"capture_count": session.CaptureCount,
		"status":        string(session.Status),
		"updated_at":    time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateSessionProgress, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSessionProgress named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSessionProgress execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSessionProgress rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         session.ID,
		}).Warn("UpdateSessionProgress no rows affected")
		return capture.ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepository) ResetSession(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":         id,
		"status":     string(entity.CaptureSessionActive),
		"updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryResetSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ResetSession named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ResetSession execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ResetSession rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         id,
		}).Warn("ResetSession no rows affected")
		return capture.ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepository) makeCaptureSession(sessionDB CaptureSessionDB) entity.CaptureSession {
	return entity.CaptureSession{
		ID:              sessionDB.ID.String,
		MaxCaptures:     int(sessionDB.MaxCaptures.Int64),
		MaxYawDegrees:   sessionDB.MaxYawDegrees.Float64,
		MaxPitchDegrees: sessionDB.MaxPitchDegrees.Float64,
		PitchMultiplier: sessionDB.PitchMultiplier.Float64,
		Padding:         sessionDB.Padding.Float64,
		Estimator:       sessionDB.Estimator.String,
		CaptureCount:    int(sessionDB.CaptureCount.Int64),
		Status:          entity.CaptureSessionStatus(sessionDB.Status.String),
		CreatedAt:       sessionDB.CreatedAt,
		UpdatedAt:       sessionDB.UpdatedAt,
	}
}
