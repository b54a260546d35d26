package commands

import (
	"context"
	"log/slog"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/metrics"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ScheduleCompletion struct {
	ScheduleID        uuid.UUID
	CompletedBookings int
}

type ScheduleCommands interface {
	Complete(ctx context.Context, caller shared.Caller, scheduleID uuid.UUID) (*ScheduleCompletion, error)
}

type scheduleUseCaseImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	policy  booking.Policy
	metrics *metrics.Metrics
}

func NewScheduleUseCase(uow shared.UnitOfWork, clk clock.Clock, policy booking.Policy, m *metrics.Metrics) ScheduleCommands {
	return &scheduleUseCaseImpl{uow: uow, clock: clk, policy: policy, metrics: m}
}

// Complete closes a departure that has ended and completes its paid bookings.
func (uc *scheduleUseCaseImpl) Complete(ctx context.Context, caller shared.Caller, scheduleID uuid.UUID) (*ScheduleCompletion, error) {
	if !caller.IsAdmin() {
		return nil, errs.Forbiddenf("only administrators can complete schedules")
	}
	now := uc.clock.Now()
	result := &ScheduleCompletion{ScheduleID: scheduleID}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result.CompletedBookings = 0

		s, err := tx.Reads().ScheduleByID(ctx, scheduleID)
		if err != nil {
			return errs.Wrap(err, "load schedule")
		}
		endsAt := s.EndsAt(uc.policy.Location)
		if now.Before(endsAt) {
			return errs.Statef("schedule ends at %s and cannot be completed yet", endsAt.Format("2006-01-02 15:04"))
		}
		if _, err := tx.Ledger().Complete(ctx, scheduleID); err != nil {
			return err
		}

		paid, err := tx.Reads().BookingsBySchedule(ctx, scheduleID, booking.StatusPaid)
		if err != nil {
			return errs.Wrap(err, "load paid bookings")
		}
		for _, b := range paid {
			guard := shared.GuardOf(b)
			if err := b.Complete(endsAt, now); err != nil {
				return err
			}
			if err := tx.Bookings().Save(ctx, b, guard); err != nil {
				return err
			}
			result.CompletedBookings++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for range result.CompletedBookings {
		uc.metrics.BookingTransition(string(booking.StatusCompleted))
	}
	slog.Info("schedule completed", "schedule_id", scheduleID, "bookings", result.CompletedBookings)
	return result, nil
}
