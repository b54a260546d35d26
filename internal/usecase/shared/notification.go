package shared

import (
	"context"
	"encoding/json"
	"time"

	"tour-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventPaymentCompleted = "payment_completed"
	EventPaymentRefunded  = "payment_refunded"

	TopicBookings = "bookings"
	TopicPayments = "payments"
)

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}

type BookingEvent struct {
	BookingID         uuid.UUID `json:"booking_id"`
	Reference         string    `json:"reference"`
	UserID            uuid.UUID `json:"user_id"`
	ScheduleID        uuid.UUID `json:"schedule_id"`
	ParticipantsCount int       `json:"participants_count"`
	Status            string    `json:"status"`
	Reason            string    `json:"reason,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

type PaymentEvent struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	Reference     string    `json:"reference"`
	UserID        uuid.UUID `json:"user_id"`
	Method        string    `json:"method"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transaction_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Emit stores an event in the outbox of the current transaction.
func Emit(ctx context.Context, repo NotificationRepository, kind, topic string, event any, now time.Time) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Wrapf(err, "marshal %s event", kind)
	}
	return repo.CreateJob(ctx, kind, topic, payload, now)
}
