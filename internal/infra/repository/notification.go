package repository

import (
	"context"
	"time"

	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"

	"github.com/jackc/pgx/v5/pgtype"
)

const jobStatusQueued = "queued"

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(db db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	query, args, err := psql.Insert("notification_jobs").
		Columns("kind", "topic", "payload", "run_at", "status").
		Values(kind, topic, payload, pgtype.Timestamptz{Time: runAt, Valid: true}, jobStatusQueued).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build notification job insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.ClassifyPgErr("failed to create notification job", err)
	}
	return nil
}
