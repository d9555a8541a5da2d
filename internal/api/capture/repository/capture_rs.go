package captureRepository

import (
	"SmartCapture/internal/entity"
	contextPkg "SmartCapture/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type CaptureRecordDB struct {
	ID        sql.NullString  `db:"id"`
	SessionID sql.NullString  `db:"session_id"`
	ObjectKey sql.NullString  `db:"object_key"`
	Yaw       sql.NullFloat64 `db:"yaw"`
	Pitch     sql.NullFloat64 `db:"pitch"`
	Roll      sql.NullFloat64 `db:"roll"`
	Width     sql.NullInt64   `db:"width"`
	Height    sql.NullInt64   `db:"height"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r *recordRepository) CreateRecord(ctx context.Context, record entity.CaptureRecord) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":         record.ID,
		"session_id": record.SessionID,
		"object_key": record.ObjectKey,
		"yaw":        record.Yaw,
		"pitch":      record.Pitch,
		"roll":       record.Roll,
		"width":      record.Width,
		"height":     record.Height,
		"created_at": record.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateRecord named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating capture record")
		return err
	}

	return nil
}

func (r *recordRepository) GetRecordsBySessionID(ctx context.Context, sessionID string) ([]entity.CaptureRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var recordsDB []CaptureRecordDB

	argsKV := map[string]interface{}{
		"session_id": sessionID,
	}

	query, args, err := sqlx.Named(queryGetRecordsBySessionID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecordsBySessionID named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &recordsDB, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecordsBySessionID execution err")
		return nil, err
	}

	records := make([]entity.CaptureRecord, 0, len(recordsDB))
	for _, recordDB := range recordsDB {
		records = append(records, r.makeCaptureRecord(recordDB))
	}

	return records, nil
}

// DeleteRecordsBySessionID removes the rows and returns the object keys so the
// caller can clean up the stored images as well.
func (r *recordRepository) DeleteRecordsBySessionID(ctx context.Context, sessionID string) ([]string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"session_id": sessionID,
	}

	query, args, err := sqlx.Named(queryDeleteRecordsBySessionID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteRecordsBySessionID named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	var objectKeys []string
	if err := r.q.SelectContext(ctx, &objectKeys, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteRecordsBySessionID execution err")
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"request_id":    requestID,
		"session_id":    sessionID,
		"rows_affected": len(objectKeys),
	}).Info("Deleted capture records for session")

	return objectKeys, nil
}

func (r *recordRepository) makeCaptureRecord(recordDB CaptureRecordDB) entity.CaptureRecord {
	return entity.CaptureRecord{
		ID:        recordDB.ID.String,
		SessionID: recordDB.SessionID.String,
		ObjectKey: recordDB.ObjectKey.String,
		Yaw:       recordDB.Yaw.Float64,
		Pitch:     recordDB.Pitch.Float64,
		Roll:      recordDB.Roll.Float64,
		Width:     int(recordDB.Width.Int64),
		Height:    int(recordDB.Height.Int64),
		CreatedAt: recordDB.CreatedAt,
	}
}
