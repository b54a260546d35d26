//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/infra/gateway"
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

type failingGateway struct{}

func (failingGateway) Charge(context.Context, shared.ChargeRequest) (shared.ChargeResult, error) {
	return shared.ChargeResult{}, errors.New("gateway timeout")
}

func (failingGateway) Refund(context.Context, string, money.Money) error {
	return errors.New("gateway timeout")
}

// countingGateway records how many refunds reached the processor.
type countingGateway struct {
	*gateway.Simulated
	refunds atomic.Int32
}

func (g *countingGateway) Refund(ctx context.Context, transactionID string, amount money.Money) error {
	g.refunds.Add(1)
	return g.Simulated.Refund(ctx, transactionID, amount)
}

type PaymentCommandsTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memstore.Store
	cmds  commands.PaymentCommands
	base  *builder.BookingBuilder
}

func TestPaymentCommandsSuite(t *testing.T) {
	suite.Run(t, new(PaymentCommandsTestSuite))
}

func (s *PaymentCommandsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.cmds = commands.NewPaymentUseCase(s.store, gateway.NewSimulated([]string{"4000000000000002"}),
		clock.NewMockClock(builder.Now), nil)

	s.base = builder.NewBookingBuilder()
	s.store.AddTour(s.base.Tour.BuildDomain())
	s.store.AddSchedule(s.base.Schedule.WithSpots(10, 2).BuildDomain())
}

func (s *PaymentCommandsTestSuite) seed(status booking.Status) booking.State {
	st := s.base.BuildState(status)
	s.store.AddBooking(st)
	return st
}

func (s *PaymentCommandsTestSuite) TestProcessSuccess() {
	b := s.seed(booking.StatusConfirmed)

	res, err := s.cmds.Process(s.ctx, ownerOf(b), b.ID, commands.ProcessPaymentInput{
		Method:  payment.MethodCreditCard,
		Payload: builder.ValidCardPayload(),
	})
	s.Require().NoError(err)
	s.Equal(payment.StatusCompleted, res.Status)
	s.NotEmpty(res.TransactionID)

	stored := s.store.Booking(b.ID)
	s.Equal(booking.StatusPaid, stored.Status)
	s.Equal(booking.PaymentPaid, stored.PaymentStatus)

	payments := s.store.Payments()
	s.Require().Len(payments, 1)
	s.Equal(payment.StatusCompleted, payments[0].Status)
	s.Equal(b.TotalAmount, payments[0].Amount)
	s.Equal("1111", payments[0].Details.CardLast4)

	jobs := s.store.Jobs()
	s.Require().Len(jobs, 1)
	s.Equal(shared.EventPaymentCompleted, jobs[0].Kind)
	s.Equal(shared.TopicPayments, jobs[0].Topic)
}

func (s *PaymentCommandsTestSuite) TestProcessValidationTouchesNothing() {
	b := s.seed(booking.StatusConfirmed)
	p := builder.ValidCardPayload()
	p.CardNumber = "123"

	_, err := s.cmds.Process(s.ctx, ownerOf(b), b.ID, commands.ProcessPaymentInput{Method: payment.MethodCreditCard, Payload: p})

	s.True(errs.Is(err, errs.ErrValidation))
	var ve *errs.ValidationError
	s.Require().True(errs.As(err, &ve))
	s.Contains(ve.Fields, "card_number")
	s.Empty(s.store.Payments())
	s.Empty(cmp.Diff(b, s.store.Booking(b.ID)))
}

func (s *PaymentCommandsTestSuite) TestProcessDeclineRecordsFailure() {
	b := s.seed(booking.StatusConfirmed)

	_, err := s.cmds.Process(s.ctx, ownerOf(b), b.ID, commands.ProcessPaymentInput{
		Method:  payment.MethodCreditCard,
		Payload: builder.DeclinedCardPayload(),
	})

	s.True(errs.Is(err, errs.ErrPayment))
	s.Empty(cmp.Diff(b, s.store.Booking(b.ID)))
	payments := s.store.Payments()
	s.Require().Len(payments, 1)
	s.Equal(payment.StatusFailed, payments[0].Status)
	s.NotEmpty(payments[0].FailureReason)
	s.Empty(s.store.Jobs())
}

func (s *PaymentCommandsTestSuite) TestProcessRejectedStates() {
	cases := []struct {
		name   string
		status booking.Status
	}{
		{"pending booking", booking.StatusPending},
		{"already paid", booking.StatusPaid},
		{"cancelled", booking.StatusCancelled},
	}
	for _, c := range cases {
		s.Run(c.name, func() {
			b := s.seed(c.status)
			_, err := s.cmds.Process(s.ctx, ownerOf(b), b.ID, commands.ProcessPaymentInput{Method: payment.MethodQR})
			s.True(errs.Is(err, errs.ErrState), "got %v", err)
			s.Empty(cmp.Diff(b, s.store.Booking(b.ID)))
		})
	}
}

func (s *PaymentCommandsTestSuite) TestProcessRequiresOwner() {
	b := s.seed(booking.StatusConfirmed)

	_, err := s.cmds.Process(s.ctx, admin(), b.ID, commands.ProcessPaymentInput{Method: payment.MethodQR})

	s.True(errs.Is(err, errs.ErrForbidden))
}

func (s *PaymentCommandsTestSuite) TestProcessGatewayFailureIsUnexpected() {
	cmds := commands.NewPaymentUseCase(s.store, failingGateway{}, clock.NewMockClock(builder.Now), nil)
	b := s.seed(booking.StatusConfirmed)

	_, err := cmds.Process(s.ctx, ownerOf(b), b.ID, commands.ProcessPaymentInput{Method: payment.MethodQR})

	s.Require().Error(err)
	for _, kind := range []error{errs.ErrValidation, errs.ErrState, errs.ErrPayment, errs.ErrCapacity} {
		s.False(errs.Is(err, kind))
	}
	s.Empty(s.store.Payments())
	s.Equal(booking.StatusConfirmed, s.store.Booking(b.ID).Status)
}

func (s *PaymentCommandsTestSuite) TestRefund() {
	b := s.seed(booking.StatusPaid)
	p := builder.CompletedPayment(b, builder.Now)
	s.store.AddPayment(p.State())

	s.Run("customers cannot refund", func() {
		_, err := s.cmds.Refund(s.ctx, ownerOf(b), p.ID(), "")
		s.True(errs.Is(err, errs.ErrForbidden))
	})

	s.Run("admin refund cascades to the booking payment status", func() {
		res, err := s.cmds.Refund(s.ctx, admin(), p.ID(), "tour cancelled by operator")
		s.Require().NoError(err)
		s.Equal(payment.StatusRefunded, res.Status)

		stored := s.store.Booking(b.ID)
		s.Equal(booking.StatusPaid, stored.Status)
		s.Equal(booking.PaymentRefunded, stored.PaymentStatus)

		jobs := s.store.Jobs()
		s.Require().Len(jobs, 1)
		s.Equal(shared.EventPaymentRefunded, jobs[0].Kind)
	})

	s.Run("second refund is a state error", func() {
		_, err := s.cmds.Refund(s.ctx, admin(), p.ID(), "")
		s.True(errs.Is(err, errs.ErrState))
	})

	s.Run("unknown payment", func() {
		_, err := s.cmds.Refund(s.ctx, admin(), uuid.New(), "")
		s.True(errs.Is(err, errs.ErrNotFound))
	})
}

func (s *PaymentCommandsTestSuite) TestConcurrentRefundsReachGatewayOnce() {
	b := s.seed(booking.StatusPaid)
	p := builder.CompletedPayment(b, builder.Now)
	s.store.AddPayment(p.State())

	gw := &countingGateway{Simulated: gateway.NewSimulated(nil)}
	cmds := commands.NewPaymentUseCase(s.store, gw, clock.NewMockClock(builder.Now), nil)

	results := make([]error, 4)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			_, results[i] = cmds.Refund(s.ctx, admin(), p.ID(), "duplicate click")
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		s.True(errs.Is(err, errs.ErrState), "unexpected error: %v", err)
	}
	s.Equal(1, ok)
	s.Equal(int32(1), gw.refunds.Load())
	s.Len(s.store.Jobs(), 1)
}

func (s *PaymentCommandsTestSuite) TestRefundGatewayFailureKeepsPaymentCompleted() {
	b := s.seed(booking.StatusPaid)
	p := builder.CompletedPayment(b, builder.Now)
	s.store.AddPayment(p.State())

	cmds := commands.NewPaymentUseCase(s.store, failingGateway{}, clock.NewMockClock(builder.Now), nil)
	_, err := cmds.Refund(s.ctx, admin(), p.ID(), "")
	s.Require().Error(err)

	payments := s.store.Payments()
	s.Require().Len(payments, 1)
	s.Equal(payment.StatusCompleted, payments[0].Status)
	s.Equal(booking.PaymentPaid, s.store.Booking(b.ID).PaymentStatus)
	s.Empty(s.store.Jobs())
}
