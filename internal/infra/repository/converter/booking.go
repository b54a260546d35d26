package converter

import (
	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/money"
	"tour-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

const BookingColumns = `b.id, b.reference, b.user_id, b.tour_id, b.tour_schedule_id, b.participants_count,
	b.price_per_person_cents, b.total_amount_cents, b.commission_rate_bps, b.commission_amount_cents,
	b.currency, b.status, b.payment_status, b.contact, b.emergency_contact, b.participants,
	b.special_requests, b.cancellation_reason, b.confirmed_at, b.cancelled_at, b.completed_at,
	b.created_at, b.updated_at`

// ScanBooking reads BookingColumns. Contact and participant documents are
// stored as JSONB and decoded by pgx.
func ScanBooking(row Scanner, extra ...any) (booking.State, error) {
	var (
		st                                  booking.State
		scheduleID                          pgtype.UUID
		count                               int32
		price, total, rateBps, commission   int64
		status, paymentStatus               string
		confirmedAt, cancelledAt, completed pgtype.Timestamptz
	)
	dest := []any{
		&st.ID, &st.Reference, &st.UserID, &st.TourID, &scheduleID, &count,
		&price, &total, &rateBps, &commission,
		&st.Currency, &status, &paymentStatus, &st.Contact, &st.EmergencyContact, &st.Participants,
		&st.SpecialRequests, &st.CancellationReason, &confirmedAt, &cancelledAt, &completed,
		&st.CreatedAt, &st.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return booking.State{}, err
	}

	st.ScheduleID = pgconv.UUIDPtrFromPgtype(scheduleID)
	st.ParticipantsCount = int(count)
	st.PricePerPerson = money.FromCents(price)
	st.TotalAmount = money.FromCents(total)
	st.CommissionRate = money.RateFromBasisPoints(rateBps)
	st.CommissionAmount = money.FromCents(commission)
	st.Status = booking.Status(status)
	st.PaymentStatus = booking.PaymentStatus(paymentStatus)
	st.ConfirmedAt = pgconv.TimePtrFromPgtype(confirmedAt)
	st.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	st.CompletedAt = pgconv.TimePtrFromPgtype(completed)
	return st, nil
}

// BookingInsertArgs matches the column order of the bookings INSERT.
func BookingInsertArgs(st booking.State) []any {
	return []any{
		st.ID, st.Reference, st.UserID, st.TourID, pgconv.UUIDPtrToPgtype(st.ScheduleID), st.ParticipantsCount,
		st.PricePerPerson.Cents(), st.TotalAmount.Cents(), st.CommissionRate.BasisPoints(), st.CommissionAmount.Cents(),
		st.Currency, string(st.Status), string(st.PaymentStatus), st.Contact, st.EmergencyContact, participants(st.Participants),
		st.SpecialRequests, st.CancellationReason,
		pgconv.TimePtrToPgtype(st.ConfirmedAt), pgconv.TimePtrToPgtype(st.CancelledAt), pgconv.TimePtrToPgtype(st.CompletedAt),
		st.CreatedAt, st.UpdatedAt,
	}
}

// BookingUpdateArgs holds the mutable columns after the id ($1).
func BookingUpdateArgs(st booking.State) []any {
	return []any{
		st.ID, st.ParticipantsCount,
		st.PricePerPerson.Cents(), st.TotalAmount.Cents(), st.CommissionRate.BasisPoints(), st.CommissionAmount.Cents(),
		string(st.Status), string(st.PaymentStatus), st.Contact, st.EmergencyContact, participants(st.Participants),
		st.SpecialRequests, st.CancellationReason,
		pgconv.TimePtrToPgtype(st.ConfirmedAt), pgconv.TimePtrToPgtype(st.CancelledAt), pgconv.TimePtrToPgtype(st.CompletedAt),
		st.UpdatedAt,
	}
}

func participants(p []booking.Participant) []booking.Participant {
	if p == nil {
		return []booking.Participant{}
	}
	return p
}
