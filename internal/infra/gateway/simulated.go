package gateway

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/usecase/shared"

	"github.com/lithammer/shortuuid/v3"
)

// Simulated approves every charge except cards listed as declined. It stands
// in for a real processor until one is integrated.
type Simulated struct {
	declined []string
}

func NewSimulated(declinedCards []string) *Simulated {
	return &Simulated{declined: declinedCards}
}

var _ shared.PaymentGateway = (*Simulated)(nil)

func (g *Simulated) Charge(ctx context.Context, req shared.ChargeRequest) (shared.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return shared.ChargeResult{}, err
	}
	if req.Method.IsCard() {
		number := strings.ReplaceAll(strings.ReplaceAll(req.Payload.CardNumber, " ", ""), "-", "")
		if slices.Contains(g.declined, number) {
			return shared.ChargeResult{Approved: false, DeclineReason: "card declined by issuer"}, nil
		}
	}
	tx := "TX-" + shortuuid.New()
	slog.Debug("simulated charge approved",
		"booking_id", req.BookingID,
		"amount", req.Amount.String(),
		"currency", req.Currency,
		"transaction_id", tx)
	return shared.ChargeResult{Approved: true, TransactionID: tx}, nil
}

func (g *Simulated) Refund(ctx context.Context, transactionID string, amount money.Money) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slog.Debug("simulated refund", "transaction_id", transactionID, "amount", amount.String())
	return nil
}
