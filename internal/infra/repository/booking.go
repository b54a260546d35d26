package repository

import (
	"context"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/infra"
	"tour-booking/internal/infra/db"
	"tour-booking/internal/infra/repository/converter"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	insertBookingSQL = `
INSERT INTO bookings (
	id, reference, user_id, tour_id, tour_schedule_id, participants_count,
	price_per_person_cents, total_amount_cents, commission_rate_bps, commission_amount_cents,
	currency, status, payment_status, contact, emergency_contact, participants,
	special_requests, cancellation_reason, confirmed_at, cancelled_at, completed_at,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	// The trailing status pair is the guard: the row is only written while it
	// still carries the status the aggregate was loaded with.
	saveBookingSQL = `
UPDATE bookings SET
	participants_count = $2,
	price_per_person_cents = $3,
	total_amount_cents = $4,
	commission_rate_bps = $5,
	commission_amount_cents = $6,
	status = $7,
	payment_status = $8,
	contact = $9,
	emergency_contact = $10,
	participants = $11,
	special_requests = $12,
	cancellation_reason = $13,
	confirmed_at = $14,
	cancelled_at = $15,
	completed_at = $16,
	updated_at = $17
WHERE id = $1 AND status = $18 AND payment_status = $19`

	bookingByIDSQL = `SELECT ` + converter.BookingColumns + ` FROM bookings b WHERE b.id = $1`

	bookingsByScheduleSQL = `SELECT ` + converter.BookingColumns + `
FROM bookings b WHERE b.tour_schedule_id = $1 AND b.status = $2 ORDER BY b.created_at, b.id`
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

var _ shared.BookingRepository = (*BookingRepository)(nil)

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	if _, err := r.db.Exec(ctx, insertBookingSQL, converter.BookingInsertArgs(b.State())...); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) Save(ctx context.Context, b *booking.Booking, guard shared.BookingGuard) error {
	args := append(converter.BookingUpdateArgs(b.State()), string(guard.Status), string(guard.PaymentStatus))
	tag, err := r.db.Exec(ctx, saveBookingSQL, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to save booking", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	if _, err := r.FindByID(ctx, b.ID(), false); err != nil {
		return err
	}
	return errs.Statef("booking %s was modified concurrently", b.Reference())
}

// FindByID optionally locks the row until the surrounding transaction ends.
func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID, lock bool) (*booking.Booking, error) {
	query := bookingByIDSQL
	if lock {
		query += " FOR UPDATE"
	}
	st, err := converter.ScanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return booking.Reconstruct(st), nil
}

func (r *BookingRepository) FindBySchedule(ctx context.Context, scheduleID uuid.UUID, status booking.Status, lock bool) ([]*booking.Booking, error) {
	query := bookingsByScheduleSQL
	if lock {
		query += " FOR UPDATE"
	}
	rows, err := r.db.Query(ctx, query, scheduleID, string(status))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by schedule", err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		st, err := converter.ScanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		out = append(out, booking.Reconstruct(st))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return out, nil
}
