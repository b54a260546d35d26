//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/shared"
	"tour-booking/tests/common/builder"
	"tour-booking/tests/common/memstore"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type BookingCommandsTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memstore.Store
	clock *clock.MockClock
	cmds  commands.BookingCommands
	base  *builder.BookingBuilder
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.clock = clock.NewMockClock(builder.Now)
	s.cmds = commands.NewBookingUseCase(s.store, s.clock, booking.DefaultPolicy(),
		booking.NewDefaultPriceCalculator(), booking.NewShortReferenceGenerator("TB"), nil)

	s.base = builder.NewBookingBuilder()
	s.store.AddTour(s.base.Tour.BuildDomain())
	s.store.AddSchedule(s.base.Schedule.BuildDomain())
}

// bookingOn seeds a booking for a new user on the shared schedule.
func (s *BookingCommandsTestSuite) bookingOn(n int, status booking.Status) booking.State {
	b := builder.NewBookingBuilder().WithParticipants(n)
	b.Tour = s.base.Tour
	b.Schedule = s.base.Schedule
	st := b.BuildState(status)
	s.store.AddBooking(st)
	return st
}

func (s *BookingCommandsTestSuite) setBooked(booked int) {
	s.base.Schedule.WithSpots(s.base.Schedule.AvailableSpots, booked)
	s.store.AddSchedule(s.base.Schedule.BuildDomain())
}

func (s *BookingCommandsTestSuite) booked() int {
	return s.store.Schedule(s.base.Schedule.ID).BookedSpots()
}

func ownerOf(st booking.State) shared.Caller {
	return shared.Caller{UserID: st.UserID, Role: shared.RoleCustomer, Name: st.Contact.Name, Email: st.Contact.Email}
}

func admin() shared.Caller {
	return shared.Caller{UserID: uuid.New(), Role: shared.RoleAdmin, Name: "Ops"}
}

func (s *BookingCommandsTestSuite) TestCreate() {
	caller := shared.Caller{UserID: uuid.New(), Role: shared.RoleCustomer, Name: "Ana Quispe", Email: "ana@example.com"}

	s.Run("persists a pending booking priced from the schedule", func() {
		res, err := s.cmds.Create(s.ctx, caller, commands.CreateBookingInput{
			ScheduleID:        s.base.Schedule.ID,
			ParticipantsCount: 2,
			Participants:      builder.Participants(2),
		})
		s.Require().NoError(err)
		s.Equal(booking.StatusPending, res.Status)
		s.Regexp(`^TB-[A-Za-z0-9]{10}$`, res.Reference)

		stored := s.store.Booking(res.ID)
		s.Equal(caller.UserID, stored.UserID)
		s.Equal("300.00", stored.TotalAmount.String())
		s.Equal("30.00", stored.CommissionAmount.String())
		s.Equal("Ana Quispe", stored.Contact.Name, "contact defaults to the caller")
		s.Equal(0, s.booked(), "creation never reserves spots")
	})

	s.Run("customers cannot set the commission rate", func() {
		rate := 5.0
		_, err := s.cmds.Create(s.ctx, caller, commands.CreateBookingInput{
			ScheduleID:        s.base.Schedule.ID,
			ParticipantsCount: 2,
			CommissionRate:    &rate,
		})
		s.True(errs.Is(err, errs.ErrForbidden))
	})

	s.Run("admins can set the commission rate", func() {
		rate := 5.0
		res, err := s.cmds.Create(s.ctx, admin(), commands.CreateBookingInput{
			ScheduleID:        s.base.Schedule.ID,
			ParticipantsCount: 2,
			Contact:           &booking.Contact{Name: "Walk-in", Phone: "+51 900 000 000"},
			CommissionRate:    &rate,
		})
		s.Require().NoError(err)
		s.Equal("15.00", s.store.Booking(res.ID).CommissionAmount.String())
	})

	s.Run("unknown schedule", func() {
		_, err := s.cmds.Create(s.ctx, caller, commands.CreateBookingInput{ScheduleID: uuid.New(), ParticipantsCount: 2})
		s.True(errs.Is(err, errs.ErrNotFound))
	})

	s.Run("soft capacity check persists nothing", func() {
		before := len(s.store.Bookings())
		_, err := s.cmds.Create(s.ctx, caller, commands.CreateBookingInput{
			ScheduleID:        s.base.Schedule.ID,
			ParticipantsCount: 11,
			EmergencyContact:  &booking.Contact{Name: "Luis", Phone: "+51 999 111 222"},
		})
		s.True(errs.Is(err, errs.ErrCapacity))
		s.Len(s.store.Bookings(), before)
	})
}

func (s *BookingCommandsTestSuite) TestCreateWithIdempotencyKey() {
	caller := shared.Caller{UserID: uuid.New(), Role: shared.RoleCustomer, Name: "Ana Quispe", Email: "ana@example.com"}
	key := uuid.New()
	in := commands.CreateBookingInput{
		ScheduleID:        s.base.Schedule.ID,
		ParticipantsCount: 2,
		IdempotencyKey:    &key,
	}

	first, err := s.cmds.Create(s.ctx, caller, in)
	s.Require().NoError(err)
	s.False(first.Replayed)

	second, err := s.cmds.Create(s.ctx, caller, in)
	s.Require().NoError(err)
	s.True(second.Replayed)
	s.Equal(first.ID, second.ID)
	s.Equal(first.Reference, second.Reference)
	s.Len(s.store.Bookings(), 1)

	s.Run("same key with a different body", func() {
		changed := in
		changed.ParticipantsCount = 3
		_, err := s.cmds.Create(s.ctx, caller, changed)
		s.True(errs.Is(err, errs.ErrState))
		s.Len(s.store.Bookings(), 1)
	})

	s.Run("keys are scoped per user", func() {
		other := shared.Caller{UserID: uuid.New(), Role: shared.RoleCustomer, Name: "Luis Rojas", Email: "luis@example.com"}
		res, err := s.cmds.Create(s.ctx, other, in)
		s.Require().NoError(err)
		s.False(res.Replayed)
		s.NotEqual(first.ID, res.ID)
	})

	s.Run("a failed attempt does not consume the key", func() {
		retryKey := uuid.New()
		bad := in
		bad.IdempotencyKey = &retryKey
		bad.ParticipantsCount = 0
		_, err := s.cmds.Create(s.ctx, caller, bad)
		s.True(errs.Is(err, errs.ErrValidation))

		bad.ParticipantsCount = 2
		res, err := s.cmds.Create(s.ctx, caller, bad)
		s.Require().NoError(err)
		s.False(res.Replayed)
	})
}

func (s *BookingCommandsTestSuite) TestConfirmRaceScenario() {
	a := s.bookingOn(6, booking.StatusPending)
	b := s.bookingOn(6, booking.StatusPending)

	s.Require().NoError(s.cmds.Confirm(s.ctx, ownerOf(a), a.ID))
	s.Equal(6, s.booked())
	s.Equal(booking.StatusConfirmed, s.store.Booking(a.ID).Status)

	err := s.cmds.Confirm(s.ctx, ownerOf(b), b.ID)
	s.True(errs.Is(err, errs.ErrCapacity))
	var ce *errs.CapacityError
	s.Require().True(errs.As(err, &ce))
	s.Equal(4, ce.Remaining)

	s.Equal(6, s.booked())
	s.Equal(booking.StatusPending, s.store.Booking(b.ID).Status)
	s.Nil(s.store.Booking(b.ID).ConfirmedAt)
}

func (s *BookingCommandsTestSuite) TestConfirmTwiceReservesOnce() {
	a := s.bookingOn(3, booking.StatusPending)

	s.Require().NoError(s.cmds.Confirm(s.ctx, ownerOf(a), a.ID))
	err := s.cmds.Confirm(s.ctx, ownerOf(a), a.ID)

	s.True(errs.Is(err, errs.ErrState))
	s.Equal(3, s.booked())

	jobs := s.store.Jobs()
	s.Require().Len(jobs, 1)
	s.Equal(shared.EventBookingConfirmed, jobs[0].Kind)
}

func (s *BookingCommandsTestSuite) TestConcurrentConfirmsNeverOverbook() {
	var ids []booking.State
	for range 5 {
		ids = append(ids, s.bookingOn(3, booking.StatusPending))
	}

	results := make([]error, len(ids))
	var g errgroup.Group
	for i, st := range ids {
		g.Go(func() error {
			results[i] = s.cmds.Confirm(s.ctx, ownerOf(st), st.ID)
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	ok, rejected := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errs.Is(err, errs.ErrCapacity):
			rejected++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(3, ok)
	s.Equal(2, rejected)
	s.Equal(9, s.booked())
	s.LessOrEqual(s.booked(), s.base.Schedule.AvailableSpots)
}

func (s *BookingCommandsTestSuite) TestConfirmRollsBackWhenOutboxFails() {
	a := s.bookingOn(2, booking.StatusPending)
	s.store.NotificationErr = errors.New("outbox unavailable")

	err := s.cmds.Confirm(s.ctx, ownerOf(a), a.ID)

	s.Error(err)
	s.Equal(0, s.booked())
	s.Empty(cmp.Diff(a, s.store.Booking(a.ID)))
}

func (s *BookingCommandsTestSuite) TestConfirmAccess() {
	a := s.bookingOn(2, booking.StatusPending)

	err := s.cmds.Confirm(s.ctx, shared.Caller{UserID: uuid.New(), Role: shared.RoleCustomer}, a.ID)
	s.True(errs.Is(err, errs.ErrForbidden))

	s.NoError(s.cmds.Confirm(s.ctx, admin(), a.ID))
}

func (s *BookingCommandsTestSuite) TestCancel() {
	s.Run("confirmed cancel releases its spots", func() {
		s.setBooked(5)
		a := s.bookingOn(3, booking.StatusConfirmed)

		s.Require().NoError(s.cmds.Cancel(s.ctx, ownerOf(a), a.ID, "weather"))

		stored := s.store.Booking(a.ID)
		s.Equal(booking.StatusCancelled, stored.Status)
		s.Equal("weather", stored.CancellationReason)
		s.Equal(2, s.booked())

		jobs := s.store.Jobs()
		s.Require().NotEmpty(jobs)
		s.Equal(shared.EventBookingCancelled, jobs[len(jobs)-1].Kind)
	})

	s.Run("pending cancel leaves the ledger alone", func() {
		s.setBooked(5)
		a := s.bookingOn(3, booking.StatusPending)

		s.Require().NoError(s.cmds.Cancel(s.ctx, ownerOf(a), a.ID, ""))
		s.Equal(5, s.booked())
	})

	s.Run("paid booking cannot be cancelled", func() {
		s.setBooked(5)
		a := s.bookingOn(3, booking.StatusPaid)

		err := s.cmds.Cancel(s.ctx, ownerOf(a), a.ID, "")

		s.True(errs.Is(err, errs.ErrState))
		s.Empty(cmp.Diff(a, s.store.Booking(a.ID)))
		s.Equal(5, s.booked())
	})

	s.Run("cutoff applies to customers but not admins", func() {
		s.setBooked(5)
		a := s.bookingOn(3, booking.StatusConfirmed)
		s.clock.Set(s.base.Schedule.StartsAt().Add(-(23*time.Hour + 59*time.Minute)))
		defer s.clock.Set(builder.Now)

		err := s.cmds.Cancel(s.ctx, ownerOf(a), a.ID, "")
		s.True(errs.Is(err, errs.ErrState))
		s.Equal(5, s.booked())

		s.Require().NoError(s.cmds.Cancel(s.ctx, admin(), a.ID, "operator override"))
		s.Equal(2, s.booked())
	})
}

func (s *BookingCommandsTestSuite) TestUpdate() {
	a := s.bookingOn(2, booking.StatusPending)
	n := 4
	details := builder.Participants(4)

	err := s.cmds.Update(s.ctx, ownerOf(a), a.ID, commands.UpdateBookingInput{ParticipantsCount: &n, Participants: &details})
	s.Require().NoError(err)

	stored := s.store.Booking(a.ID)
	s.Equal(4, stored.ParticipantsCount)
	s.Equal("600.00", stored.TotalAmount.String())
	s.Equal("60.00", stored.CommissionAmount.String())

	s.Run("other users are rejected", func() {
		err := s.cmds.Update(s.ctx, shared.Caller{UserID: uuid.New()}, a.ID, commands.UpdateBookingInput{})
		s.True(errs.Is(err, errs.ErrForbidden))
	})
}

func (s *BookingCommandsTestSuite) TestMarkCompleted() {
	a := s.bookingOn(2, booking.StatusPaid)

	err := s.cmds.MarkCompleted(s.ctx, ownerOf(a), a.ID)
	s.True(errs.Is(err, errs.ErrForbidden))

	err = s.cmds.MarkCompleted(s.ctx, admin(), a.ID)
	s.True(errs.Is(err, errs.ErrState), "tour has not ended yet")

	s.clock.Set(s.base.Schedule.StartsAt().Add(5 * time.Hour))
	s.Require().NoError(s.cmds.MarkCompleted(s.ctx, admin(), a.ID))
	s.Equal(booking.StatusCompleted, s.store.Booking(a.ID).Status)
	s.NotNil(s.store.Booking(a.ID).CompletedAt)
}
