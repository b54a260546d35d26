//go:build unit

package gateway_test

import (
	"context"
	"testing"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/infra/gateway"
	"tour-booking/internal/usecase/shared"
	"tour-booking/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated(t *testing.T) {
	g := gateway.NewSimulated([]string{"4000000000000002"})
	ctx := context.Background()

	approved, err := g.Charge(ctx, shared.ChargeRequest{
		Method:  payment.MethodCreditCard,
		Payload: builder.ValidCardPayload(),
		Amount:  money.FromCents(30000),
	})
	require.NoError(t, err)
	assert.True(t, approved.Approved)
	assert.Contains(t, approved.TransactionID, "TX-")

	declined, err := g.Charge(ctx, shared.ChargeRequest{
		Method:  payment.MethodDebitCard,
		Payload: payment.Payload{CardNumber: "4000 0000 0000 0002"},
	})
	require.NoError(t, err)
	assert.False(t, declined.Approved)
	assert.NotEmpty(t, declined.DeclineReason)

	qr, err := g.Charge(ctx, shared.ChargeRequest{Method: payment.MethodQR})
	require.NoError(t, err)
	assert.True(t, qr.Approved)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = g.Charge(cancelled, shared.ChargeRequest{Method: payment.MethodQR})
	assert.ErrorIs(t, err, context.Canceled)
}
