package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/metrics"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingInput struct {
	ScheduleID        uuid.UUID
	ParticipantsCount int
	// Contact defaults to the caller's own details when nil.
	Contact          *booking.Contact
	EmergencyContact *booking.Contact
	Participants     []booking.Participant
	SpecialRequests  string
	CommissionRate   *float64
	// IdempotencyKey makes retries of the same request return the booking
	// created by the first attempt.
	IdempotencyKey *uuid.UUID `json:"-"`
}

type UpdateBookingInput struct {
	ParticipantsCount *int
	Contact           *booking.Contact
	EmergencyContact  *booking.Contact
	Participants      *[]booking.Participant
	SpecialRequests   *string
}

type BookingResult struct {
	ID        uuid.UUID
	Reference string
	Status    booking.Status
	Replayed  bool
}

const (
	createBookingEndpoint = "POST /api/bookings"
	idempotencyTTL        = 24 * time.Hour
)

type BookingCommands interface {
	Create(ctx context.Context, caller shared.Caller, in CreateBookingInput) (*BookingResult, error)
	Update(ctx context.Context, caller shared.Caller, bookingID uuid.UUID, in UpdateBookingInput) error
	Confirm(ctx context.Context, caller shared.Caller, bookingID uuid.UUID) error
	Cancel(ctx context.Context, caller shared.Caller, bookingID uuid.UUID, reason string) error
	MarkCompleted(ctx context.Context, caller shared.Caller, bookingID uuid.UUID) error
}

type bookingUseCaseImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	policy  booking.Policy
	calc    booking.PriceCalculator
	refs    booking.ReferenceGenerator
	metrics *metrics.Metrics
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	clk clock.Clock,
	policy booking.Policy,
	calc booking.PriceCalculator,
	refs booking.ReferenceGenerator,
	m *metrics.Metrics,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:     uow,
		clock:   clk,
		policy:  policy,
		calc:    calc,
		refs:    refs,
		metrics: m,
	}
}

func (uc *bookingUseCaseImpl) Create(ctx context.Context, caller shared.Caller, in CreateBookingInput) (*BookingResult, error) {
	now := uc.clock.Now()

	if in.CommissionRate != nil && !caller.IsAdmin() {
		return nil, errs.Forbiddenf("only administrators can set a commission rate")
	}

	contact := booking.Contact{Name: caller.Name, Email: caller.Email, Phone: caller.Phone}
	if in.Contact != nil {
		contact = *in.Contact
	}

	var result *BookingResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if in.IdempotencyKey != nil {
			replayed, err := uc.claimKey(ctx, tx, caller, in, now)
			if err != nil {
				return err
			}
			if replayed != nil {
				result = replayed
				return nil
			}
		}

		schedule, err := tx.Reads().ScheduleByID(ctx, in.ScheduleID)
		if err != nil {
			return errs.Wrap(err, "load schedule")
		}
		t, err := tx.Reads().TourByID(ctx, schedule.TourID())
		if err != nil {
			return errs.Wrap(err, "load tour")
		}

		b, err := booking.NewBooking(booking.Draft{
			UserID:            caller.UserID,
			Tour:              t,
			Schedule:          schedule,
			ParticipantsCount: in.ParticipantsCount,
			Contact:           contact,
			EmergencyContact:  in.EmergencyContact,
			Participants:      in.Participants,
			SpecialRequests:   in.SpecialRequests,
			CommissionRate:    in.CommissionRate,
		}, uc.policy, uc.calc, uc.refs.Next(), now)
		if err != nil {
			return err
		}
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return errs.Wrap(err, "create booking")
		}
		if in.IdempotencyKey != nil {
			if err := tx.Idempotency().Complete(ctx, *in.IdempotencyKey, caller.UserID, b.ID()); err != nil {
				return errs.Wrap(err, "complete idempotency key")
			}
		}
		result = &BookingResult{ID: b.ID(), Reference: b.Reference(), Status: b.Status()}
		return nil
	})
	if err != nil {
		if errs.Is(err, errs.ErrCapacity) {
			uc.metrics.CapacityRejected()
		}
		return nil, err
	}

	if !result.Replayed {
		uc.metrics.BookingTransition(string(booking.StatusPending))
	}
	return result, nil
}

// claimKey returns the earlier result when the key was already used for the
// same request.
func (uc *bookingUseCaseImpl) claimKey(ctx context.Context, tx shared.Tx, caller shared.Caller, in CreateBookingInput, now time.Time) (*BookingResult, error) {
	hash, err := requestHash(in)
	if err != nil {
		return nil, err
	}
	claimed, err := tx.Idempotency().Claim(ctx, shared.IdempotencyRecord{
		Key:         *in.IdempotencyKey,
		UserID:      caller.UserID,
		Endpoint:    createBookingEndpoint,
		Status:      shared.IdempotencyProcessing,
		RequestHash: hash,
		ExpiresAt:   now.Add(idempotencyTTL),
	}, now)
	if err != nil {
		return nil, errs.Wrap(err, "claim idempotency key")
	}
	if claimed {
		return nil, nil
	}

	existing, err := tx.Idempotency().Get(ctx, *in.IdempotencyKey, caller.UserID)
	if err != nil {
		return nil, errs.Wrap(err, "load idempotency key")
	}
	if existing.RequestHash != hash {
		return nil, errs.Statef("idempotency key was already used for a different request")
	}
	if existing.Status != shared.IdempotencyCompleted || existing.ResultID == nil {
		return nil, errs.Statef("a request with this idempotency key is still in progress")
	}

	b, err := tx.Reads().BookingByID(ctx, *existing.ResultID)
	if err != nil {
		return nil, errs.Wrap(err, "load replayed booking")
	}
	slog.Info("booking create replayed", "booking_id", b.ID(), "idempotency_key", existing.Key)
	return &BookingResult{ID: b.ID(), Reference: b.Reference(), Status: b.Status(), Replayed: true}, nil
}

func requestHash(in CreateBookingInput) (string, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return "", errs.Wrap(err, "hash request")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (uc *bookingUseCaseImpl) Update(ctx context.Context, caller shared.Caller, bookingID uuid.UUID, in UpdateBookingInput) error {
	now := uc.clock.Now()

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := loadAccessible(ctx, tx.Reads(), caller, bookingID)
		if err != nil {
			return err
		}
		scheduleID, err := b.RequireSchedule()
		if err != nil {
			return err
		}
		s, err := tx.Reads().ScheduleByID(ctx, scheduleID)
		if err != nil {
			return errs.Wrap(err, "load schedule")
		}
		t, err := tx.Reads().TourByID(ctx, s.TourID())
		if err != nil {
			return errs.Wrap(err, "load tour")
		}

		guard := shared.GuardOf(b)
		changes := booking.Changes{
			ParticipantsCount: in.ParticipantsCount,
			Contact:           in.Contact,
			EmergencyContact:  in.EmergencyContact,
			Participants:      in.Participants,
			SpecialRequests:   in.SpecialRequests,
		}
		if err := b.Update(changes, t, s, uc.policy, uc.calc, now); err != nil {
			return err
		}
		return tx.Bookings().Save(ctx, b, guard)
	})
}

// Confirm flips the booking and reserves its spots in one transaction; a
// capacity failure rolls both back.
func (uc *bookingUseCaseImpl) Confirm(ctx context.Context, caller shared.Caller, bookingID uuid.UUID) error {
	now := uc.clock.Now()
	today := civil.Today(now, uc.policy.Location)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := loadAccessible(ctx, tx.Reads(), caller, bookingID)
		if err != nil {
			return err
		}
		scheduleID, err := b.RequireSchedule()
		if err != nil {
			return err
		}
		s, err := tx.Reads().ScheduleByID(ctx, scheduleID)
		if err != nil {
			return errs.Wrap(err, "load schedule")
		}
		if !s.Date().After(today) {
			return errs.Statef("schedule on %s has already departed", s.Date())
		}

		guard := shared.GuardOf(b)
		if err := b.Confirm(now); err != nil {
			return err
		}
		if err := tx.Bookings().Save(ctx, b, guard); err != nil {
			return err
		}

		counts, err := tx.Ledger().Reserve(ctx, scheduleID, b.ParticipantsCount())
		if err != nil {
			return err
		}
		slog.Info("spots reserved",
			"booking_id", b.ID(),
			"schedule_id", scheduleID,
			"spots", b.ParticipantsCount(),
			"booked", counts.BookedSpots,
			"available", counts.AvailableSpots)

		return shared.Emit(ctx, tx.Notifications(), shared.EventBookingConfirmed, shared.TopicBookings,
			bookingEvent(b, scheduleID, "", now), now)
	})
	if err != nil {
		if errs.Is(err, errs.ErrCapacity) {
			uc.metrics.CapacityRejected()
			slog.Warn("confirm rejected for capacity", "booking_id", bookingID, "error", err.Error())
		}
		return err
	}

	uc.metrics.BookingTransition(string(booking.StatusConfirmed))
	return nil
}

// Cancel releases spots when the booking held them. Admins bypass the cutoff.
func (uc *bookingUseCaseImpl) Cancel(ctx context.Context, caller shared.Caller, bookingID uuid.UUID, reason string) error {
	now := uc.clock.Now()

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := loadAccessible(ctx, tx.Reads(), caller, bookingID)
		if err != nil {
			return err
		}
		scheduleID, err := b.RequireSchedule()
		if err != nil {
			return err
		}
		s, err := tx.Reads().ScheduleByID(ctx, scheduleID)
		if err != nil {
			return errs.Wrap(err, "load schedule")
		}

		guard := shared.GuardOf(b)
		held, err := b.Cancel(reason, uc.policy, s.StartsAt(uc.policy.Location), now, caller.IsAdmin())
		if err != nil {
			return err
		}
		if err := tx.Bookings().Save(ctx, b, guard); err != nil {
			return err
		}
		if held {
			if _, err := tx.Ledger().Release(ctx, scheduleID, b.ParticipantsCount()); err != nil {
				return err
			}
		}

		return shared.Emit(ctx, tx.Notifications(), shared.EventBookingCancelled, shared.TopicBookings,
			bookingEvent(b, scheduleID, b.State().CancellationReason, now), now)
	})
	if err != nil {
		return err
	}

	uc.metrics.BookingTransition(string(booking.StatusCancelled))
	return nil
}

func (uc *bookingUseCaseImpl) MarkCompleted(ctx context.Context, caller shared.Caller, bookingID uuid.UUID) error {
	if !caller.IsAdmin() {
		return errs.Forbiddenf("only administrators can complete bookings")
	}
	now := uc.clock.Now()

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			return errs.Wrap(err, "load booking")
		}
		scheduleID, err := b.RequireSchedule()
		if err != nil {
			return err
		}
		s, err := tx.Reads().ScheduleByID(ctx, scheduleID)
		if err != nil {
			return errs.Wrap(err, "load schedule")
		}
		guard := shared.GuardOf(b)
		if err := b.Complete(s.EndsAt(uc.policy.Location), now); err != nil {
			return err
		}
		return tx.Bookings().Save(ctx, b, guard)
	})
	if err != nil {
		return err
	}

	uc.metrics.BookingTransition(string(booking.StatusCompleted))
	return nil
}

func loadAccessible(ctx context.Context, reads shared.CommandReads, caller shared.Caller, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := reads.BookingByID(ctx, bookingID)
	if err != nil {
		return nil, errs.Wrap(err, "load booking")
	}
	if !caller.CanAccess(b.UserID()) {
		return nil, errs.Forbiddenf("booking %s belongs to another user", b.Reference())
	}
	return b, nil
}

func bookingEvent(b *booking.Booking, scheduleID uuid.UUID, reason string, now time.Time) shared.BookingEvent {
	return shared.BookingEvent{
		BookingID:         b.ID(),
		Reference:         b.Reference(),
		UserID:            b.UserID(),
		ScheduleID:        scheduleID,
		ParticipantsCount: b.ParticipantsCount(),
		Status:            string(b.Status()),
		Reason:            reason,
		OccurredAt:        now,
	}
}
