package payment

import (
	"time"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type State struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	Method        Method
	Status        Status
	TransactionID string
	Amount        money.Money
	Currency      string
	Details       Details
	FailureReason string
	RefundReason  string
	ProcessedAt   *time.Time
	RefundedAt    *time.Time
	CreatedAt     time.Time
}

type Payment struct {
	s State
}

// NewCompleted records a charge the gateway accepted.
func NewCompleted(bookingID uuid.UUID, m Method, amount money.Money, currency, transactionID string, details Details, now time.Time) *Payment {
	return &Payment{s: State{
		ID:            uuid.New(),
		BookingID:     bookingID,
		Method:        m,
		Status:        StatusCompleted,
		TransactionID: transactionID,
		Amount:        amount,
		Currency:      currency,
		Details:       details,
		ProcessedAt:   &now,
		CreatedAt:     now,
	}}
}

// NewFailed records a declined charge.
func NewFailed(bookingID uuid.UUID, m Method, amount money.Money, currency, reason string, details Details, now time.Time) *Payment {
	return &Payment{s: State{
		ID:            uuid.New(),
		BookingID:     bookingID,
		Method:        m,
		Status:        StatusFailed,
		Amount:        amount,
		Currency:      currency,
		Details:       details,
		FailureReason: reason,
		ProcessedAt:   &now,
		CreatedAt:     now,
	}}
}

func Reconstruct(s State) *Payment {
	return &Payment{s: s}
}

func (p *Payment) State() State { return p.s }

func (p *Payment) ID() uuid.UUID          { return p.s.ID }
func (p *Payment) BookingID() uuid.UUID   { return p.s.BookingID }
func (p *Payment) Status() Status         { return p.s.Status }
func (p *Payment) Amount() money.Money    { return p.s.Amount }
func (p *Payment) TransactionID() string  { return p.s.TransactionID }

func (p *Payment) Refund(reason string, now time.Time) error {
	if p.s.Status != StatusCompleted {
		return errs.Statef("only completed payments can be refunded, payment is %s", p.s.Status)
	}
	p.s.Status = StatusRefunded
	p.s.RefundReason = reason
	p.s.RefundedAt = &now
	return nil
}
