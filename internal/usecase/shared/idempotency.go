package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key         uuid.UUID
	UserID      uuid.UUID
	Endpoint    string
	Status      string
	RequestHash string
	ResultID    *uuid.UUID
	ExpiresAt   time.Time
}

// IdempotencyRepository stores client supplied request keys. Claim and
// Complete run inside the transaction that performs the request so a rolled
// back request leaves no key behind.
type IdempotencyRepository interface {
	// Claim inserts the key, or takes over a record that expired before now.
	// It reports false when a live record already exists.
	Claim(ctx context.Context, rec IdempotencyRecord, now time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	Complete(ctx context.Context, key, userID, resultID uuid.UUID) error
}
