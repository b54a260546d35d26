package commands

import (
	"context"
	"log/slog"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/metrics"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ProcessPaymentInput struct {
	Method  payment.Method
	Payload payment.Payload
}

type PaymentResult struct {
	PaymentID     uuid.UUID
	BookingID     uuid.UUID
	Status        payment.Status
	TransactionID string
}

type PaymentCommands interface {
	Process(ctx context.Context, caller shared.Caller, bookingID uuid.UUID, in ProcessPaymentInput) (*PaymentResult, error)
	Refund(ctx context.Context, caller shared.Caller, paymentID uuid.UUID, reason string) (*PaymentResult, error)
}

type paymentUseCaseImpl struct {
	uow     shared.UnitOfWork
	gateway shared.PaymentGateway
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewPaymentUseCase(uow shared.UnitOfWork, gateway shared.PaymentGateway, clk clock.Clock, m *metrics.Metrics) PaymentCommands {
	return &paymentUseCaseImpl{uow: uow, gateway: gateway, clock: clk, metrics: m}
}

// Process charges a confirmed booking. The gateway is called outside any
// transaction; a decline is recorded as a failed payment and leaves the
// booking untouched.
func (uc *paymentUseCaseImpl) Process(ctx context.Context, caller shared.Caller, bookingID uuid.UUID, in ProcessPaymentInput) (*PaymentResult, error) {
	now := uc.clock.Now()

	if err := payment.ValidatePayload(in.Method, in.Payload, now); err != nil {
		return nil, err
	}

	b, err := uc.uow.CommandReads().BookingByID(ctx, bookingID)
	if err != nil {
		return nil, errs.Wrap(err, "load booking")
	}
	if !b.IsOwnedBy(caller.UserID) {
		return nil, errs.Forbiddenf("booking %s belongs to another user", b.Reference())
	}
	if err := checkPayable(b); err != nil {
		return nil, err
	}

	details := payment.Mask(in.Method, in.Payload)
	charge, err := uc.gateway.Charge(ctx, shared.ChargeRequest{
		BookingID: b.ID(),
		Reference: b.Reference(),
		Method:    in.Method,
		Payload:   in.Payload,
		Amount:    b.TotalAmount(),
		Currency:  b.Currency(),
	})
	if err != nil {
		uc.metrics.Payment("error")
		return nil, errs.Wrap(err, "charge payment")
	}

	if !charge.Approved {
		failed := payment.NewFailed(b.ID(), in.Method, b.TotalAmount(), b.Currency(), charge.DeclineReason, details, now)
		err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Payments().Create(ctx, failed)
		})
		if err != nil {
			return nil, errs.Wrap(err, "record failed payment")
		}
		uc.metrics.Payment(string(payment.StatusFailed))
		slog.Warn("payment declined", "booking_id", b.ID(), "payment_id", failed.ID(), "reason", charge.DeclineReason)
		return nil, errs.Paymentf("payment declined: %s", charge.DeclineReason)
	}

	completed := payment.NewCompleted(b.ID(), in.Method, b.TotalAmount(), b.Currency(), charge.TransactionID, details, now)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			return errs.Wrap(err, "reload booking")
		}
		guard := shared.GuardOf(current)
		if err := current.MarkPaid(now); err != nil {
			return err
		}
		if err := tx.Bookings().Save(ctx, current, guard); err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, completed); err != nil {
			return err
		}
		return shared.Emit(ctx, tx.Notifications(), shared.EventPaymentCompleted, shared.TopicPayments,
			paymentEvent(current, completed, now), now)
	})
	if err != nil {
		// The charge went through but the booking could not be marked paid.
		if rerr := uc.gateway.Refund(ctx, charge.TransactionID, b.TotalAmount()); rerr != nil {
			slog.Error("failed to reverse charge",
				"booking_id", b.ID(),
				"transaction_id", charge.TransactionID,
				"error", rerr.Error())
		}
		return nil, err
	}

	uc.metrics.Payment(string(payment.StatusCompleted))
	uc.metrics.BookingTransition(string(booking.StatusPaid))
	return &PaymentResult{
		PaymentID:     completed.ID(),
		BookingID:     b.ID(),
		Status:        completed.Status(),
		TransactionID: completed.TransactionID(),
	}, nil
}

// Refund reverses a completed payment. The booking keeps its lifecycle status
// and only its payment status moves to refunded. The gateway is called while
// the payment row is locked and already saved as refunded, so a concurrent
// refund fails the status guard and a gateway error rolls everything back.
func (uc *paymentUseCaseImpl) Refund(ctx context.Context, caller shared.Caller, paymentID uuid.UUID, reason string) (*PaymentResult, error) {
	if !caller.IsAdmin() {
		return nil, errs.Forbiddenf("only administrators can refund payments")
	}
	now := uc.clock.Now()

	var (
		refunded *payment.Payment
		settled  bool
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Reads().PaymentByID(ctx, paymentID)
		if err != nil {
			return errs.Wrap(err, "load payment")
		}
		from := current.Status()
		if err := current.Refund(reason, now); err != nil {
			return err
		}
		if err := tx.Payments().Save(ctx, current, from); err != nil {
			return err
		}

		b, err := tx.Reads().BookingByID(ctx, current.BookingID())
		if err != nil {
			return errs.Wrap(err, "load booking")
		}
		guard := shared.GuardOf(b)
		if err := b.MarkRefunded(now); err != nil {
			return err
		}
		if err := tx.Bookings().Save(ctx, b, guard); err != nil {
			return err
		}
		if err := shared.Emit(ctx, tx.Notifications(), shared.EventPaymentRefunded, shared.TopicPayments,
			paymentEvent(b, current, now), now); err != nil {
			return err
		}

		// a retried transaction must not refund twice
		if !settled {
			if err := uc.gateway.Refund(ctx, current.TransactionID(), current.Amount()); err != nil {
				uc.metrics.Payment("error")
				return errs.Wrap(err, "refund payment")
			}
			settled = true
		}
		refunded = current
		return nil
	})
	if err != nil {
		if settled {
			// Money went back to the customer but the commit failed.
			slog.Error("refund not recorded",
				"payment_id", paymentID,
				"transaction_id", refunded.TransactionID(),
				"error", err.Error())
		}
		return nil, err
	}

	uc.metrics.Payment(string(payment.StatusRefunded))
	return &PaymentResult{
		PaymentID:     refunded.ID(),
		BookingID:     refunded.BookingID(),
		Status:        refunded.Status(),
		TransactionID: refunded.TransactionID(),
	}, nil
}

func checkPayable(b *booking.Booking) error {
	if b.PaymentStatus() != booking.PaymentPending {
		return errs.Statef("booking payment is already %s", b.PaymentStatus())
	}
	if b.Status() != booking.StatusConfirmed {
		return errs.Statef("only confirmed bookings can be paid, booking is %s", b.Status())
	}
	return nil
}

func paymentEvent(b *booking.Booking, p *payment.Payment, now time.Time) shared.PaymentEvent {
	s := p.State()
	return shared.PaymentEvent{
		PaymentID:     s.ID,
		BookingID:     b.ID(),
		Reference:     b.Reference(),
		UserID:        b.UserID(),
		Method:        string(s.Method),
		Amount:        s.Amount.String(),
		Currency:      s.Currency,
		TransactionID: s.TransactionID,
		OccurredAt:    now,
	}
}
