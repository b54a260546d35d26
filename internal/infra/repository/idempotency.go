package repository

import (
	"context"
	"time"

	"tour-booking/internal/infra"
	"tour-booking/internal/infra/db"
	"tour-booking/internal/pkg/pgconv"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// A conflicting live key leaves the row untouched and returns nothing.
	claimIdempotencyKeySQL = `
INSERT INTO idempotency_keys (key, user_id, endpoint, status, request_hash, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (key, user_id) DO UPDATE SET
	endpoint = EXCLUDED.endpoint,
	status = EXCLUDED.status,
	request_hash = EXCLUDED.request_hash,
	result_booking_id = NULL,
	expires_at = EXCLUDED.expires_at,
	created_at = now()
WHERE idempotency_keys.expires_at < $7
RETURNING key`

	getIdempotencyKeySQL = `
SELECT key, user_id, endpoint, status, request_hash, result_booking_id, expires_at
FROM idempotency_keys WHERE key = $1 AND user_id = $2`

	completeIdempotencyKeySQL = `
UPDATE idempotency_keys SET status = 'completed', result_booking_id = $3
WHERE key = $1 AND user_id = $2`

	deleteExpiredIdempotencyKeysSQL = `DELETE FROM idempotency_keys WHERE expires_at < $1`
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

var _ shared.IdempotencyRepository = (*IdempotencyRepository)(nil)

func (r *IdempotencyRepository) Claim(ctx context.Context, rec shared.IdempotencyRecord, now time.Time) (bool, error) {
	rows, err := r.db.Query(ctx, claimIdempotencyKeySQL,
		rec.Key, rec.UserID, rec.Endpoint, rec.Status, rec.RequestHash, rec.ExpiresAt, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	defer rows.Close()

	claimed := rows.Next()
	if err := rows.Err(); err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return claimed, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		rec       shared.IdempotencyRecord
		resultID  pgtype.UUID
		expiresAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getIdempotencyKeySQL, key, userID).Scan(
		&rec.Key, &rec.UserID, &rec.Endpoint, &rec.Status, &rec.RequestHash, &resultID, &expiresAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	rec.ResultID = pgconv.UUIDPtrFromPgtype(resultID)
	rec.ExpiresAt = expiresAt.Time
	return &rec, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, userID, resultID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, completeIdempotencyKeySQL, key, userID, resultID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key disappeared before completion", nil, infra.KindNotFound)
	}
	return nil
}

// DeleteExpired is run by the maintenance loop.
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredIdempotencyKeysSQL, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
