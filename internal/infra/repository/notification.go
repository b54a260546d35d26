package repository

import (
	"context"
	"time"

	"tour-booking/internal/infra"
	"tour-booking/internal/infra/db"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	NotificationQueued = "queued"
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// NotificationJob is one outbox row waiting to be published.
type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
	RunAt    time.Time
}

const (
	createNotificationJobSQL = `
INSERT INTO notification_jobs (kind, topic, payload, status, run_at)
VALUES ($1, $2, $3, 'queued', $4)`

	// SKIP LOCKED lets several relays drain the outbox without blocking each other.
	claimDueJobsSQL = `
SELECT id, kind, topic, payload, attempts, run_at
FROM notification_jobs
WHERE status = 'queued' AND run_at <= $1
ORDER BY run_at, id
LIMIT $2
FOR UPDATE SKIP LOCKED`

	markJobSentSQL = `
UPDATE notification_jobs SET status = 'sent', attempts = attempts + 1, last_error = NULL, updated_at = now()
WHERE id = $1`

	// A failed job goes back to the queue with run_at pushed out until it
	// exhausts its attempts.
	markJobFailedSQL = `
UPDATE notification_jobs SET
	attempts = attempts + 1,
	last_error = $2,
	status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'queued' END,
	run_at = $4,
	updated_at = now()
WHERE id = $1`
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

var _ shared.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	if _, err := r.db.Exec(ctx, createNotificationJobSQL, kind, topic, payload, runAt); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

// ClaimDue locks up to limit queued jobs. Call it inside a transaction and
// mark each job before committing.
func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]NotificationJob, error) {
	rows, err := r.db.Query(ctx, claimDueJobsSQL, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var (
			j        NotificationJob
			attempts int32
		)
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &attempts, &j.RunAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		j.Attempts = int(attempts)
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, markJobSentSQL, id); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int, retryAt time.Time) error {
	if _, err := r.db.Exec(ctx, markJobFailedSQL, id, lastError, maxAttempts, retryAt); err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
