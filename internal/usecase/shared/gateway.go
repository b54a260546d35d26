package shared

import (
	"context"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/payment"

	"github.com/google/uuid"
)

type ChargeRequest struct {
	BookingID uuid.UUID
	Reference string
	Method    payment.Method
	Payload   payment.Payload
	Amount    money.Money
	Currency  string
}

// ChargeResult separates a decline, which is a business outcome, from a
// transport error returned alongside it.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	DeclineReason string
}

type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	Refund(ctx context.Context, transactionID string, amount money.Money) error
}
