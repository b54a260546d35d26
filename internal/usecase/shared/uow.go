package shared

import (
	"context"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/domain/tour"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Ledger() SpotLedger
	Payments() PaymentRepository
	Notifications() NotificationRepository
	Idempotency() IdempotencyRepository
	Reads() CommandReads
}

// CommandReads loads write-side aggregates. Every lookup returns an error
// matching errs.ErrNotFound when the row does not exist.
type CommandReads interface {
	TourByID(ctx context.Context, id uuid.UUID) (*tour.Tour, error)
	ScheduleByID(ctx context.Context, id uuid.UUID) (*tour.Schedule, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	BookingsBySchedule(ctx context.Context, scheduleID uuid.UUID, status booking.Status) ([]*booking.Booking, error)
	PaymentByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
}

// BookingGuard is the status pair a booking was loaded with. Writes only
// apply while the stored row still carries it.
type BookingGuard struct {
	Status        booking.Status
	PaymentStatus booking.PaymentStatus
}

func GuardOf(b *booking.Booking) BookingGuard {
	return BookingGuard{Status: b.Status(), PaymentStatus: b.PaymentStatus()}
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	// Save fails with errs.ErrState when the stored status pair no longer
	// matches guard.
	Save(ctx context.Context, b *booking.Booking, guard BookingGuard) error
}

// SpotCounts is the schedule counter state after a ledger write.
type SpotCounts struct {
	AvailableSpots int
	BookedSpots    int
	Status         tour.ScheduleStatus
}

// SpotLedger is the only writer of booked spots. Each call is a single
// conditional statement against the schedule row.
type SpotLedger interface {
	Reserve(ctx context.Context, scheduleID uuid.UUID, n int) (SpotCounts, error)
	Release(ctx context.Context, scheduleID uuid.UUID, n int) (SpotCounts, error)
	Complete(ctx context.Context, scheduleID uuid.UUID) (SpotCounts, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	// Save fails with errs.ErrState when the stored status is not from.
	Save(ctx context.Context, p *payment.Payment, from payment.Status) error
}
