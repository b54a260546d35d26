//go:build unit

package payment_test

import (
	"testing"
	"time"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/pkg/errs"
	"tour-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePayload(t *testing.T) {
	now := builder.Now

	cases := []struct {
		name    string
		method  payment.Method
		mutate  func(*payment.Payload)
		payload payment.Payload
		field   string
	}{
		{name: "valid credit card", method: payment.MethodCreditCard, payload: builder.ValidCardPayload()},
		{name: "valid debit card with spaces", method: payment.MethodDebitCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.CardNumber = "4111 1111 1111 1111" }},
		{name: "short card number", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.CardNumber = "123" }, field: "card_number"},
		{name: "twenty digit card number", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.CardNumber = "12345678901234567890" }, field: "card_number"},
		{name: "letters in card number", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.CardNumber = "4111abcd11111111" }, field: "card_number"},
		{name: "non-ascii digits in card number", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.CardNumber = "\u0661\u0662\u0663\u0664\u0665\u0666\u0667" }, field: "card_number"},
		{name: "non-ascii digits in cvv", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.CVV = "\u0661\u0662" }, field: "cvv"},
		{name: "two digit cvv", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.CVV = "12" }, field: "cvv"},
		{name: "four digit cvv", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.CVV = "1234" }},
		{name: "month out of range", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.ExpiryMonth = 13 }, field: "expiry_month"},
		{name: "expired last year", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.ExpiryYear = now.Year() - 1 }, field: "expiry_year"},
		{name: "expired last month", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.ExpiryYear, p.ExpiryMonth = now.Year(), int(now.Month())-1 }, field: "expiry_year"},
		{name: "expiring this month", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.ExpiryYear, p.ExpiryMonth = now.Year(), int(now.Month()) }},
		{name: "two digit year", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.ExpiryYear = now.Year() - 2000 + 1 }},
		{name: "one letter cardholder", method: payment.MethodCreditCard, payload: builder.ValidCardPayload(),
			mutate: func(p *payment.Payload) { p.CardholderName = "A" }, field: "cardholder_name"},
		{name: "bank transfer", method: payment.MethodBankTransfer, payload: builder.BankTransferPayload()},
		{name: "bank transfer without account", method: payment.MethodBankTransfer, payload: builder.BankTransferPayload(),
			mutate: func(p *payment.Payload) { p.AccountNumber = "" }, field: "account_number"},
		{name: "bank transfer without bank code", method: payment.MethodBankTransfer, payload: payment.Payload{AccountNumber: "1"},
			field: "bank_code"},
		{name: "qr needs nothing", method: payment.MethodQR},
		{name: "unknown method", method: "cash", payload: builder.ValidCardPayload(), field: "method"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := c.payload
			if c.mutate != nil {
				c.mutate(&p)
			}
			err := payment.ValidatePayload(c.method, p, now)
			if c.field == "" {
				require.NoError(t, err)
				return
			}
			require.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)
			var ve *errs.ValidationError
			require.True(t, errs.As(err, &ve))
			assert.Contains(t, ve.Fields, c.field)
		})
	}
}

func TestMask(t *testing.T) {
	d := payment.Mask(payment.MethodCreditCard, builder.ValidCardPayload())
	assert.Equal(t, "1111", d.CardLast4)
	assert.Equal(t, "Ana Quispe", d.CardholderName)

	bank := payment.Mask(payment.MethodBankTransfer, builder.BankTransferPayload())
	assert.Equal(t, "8012", bank.AccountLast4)
	assert.Empty(t, bank.CardLast4)
}

func TestRefund(t *testing.T) {
	now := builder.Now
	amount := money.FromCents(30000)

	completed := payment.NewCompleted(uuid.New(), payment.MethodQR, amount, "PEN", "TX-1", payment.Details{Method: payment.MethodQR}, now)
	require.NoError(t, completed.Refund("customer request", now.Add(time.Hour)))
	assert.Equal(t, payment.StatusRefunded, completed.Status())
	require.NotNil(t, completed.State().RefundedAt)

	assert.True(t, errs.Is(completed.Refund("again", now), errs.ErrState))

	failed := payment.NewFailed(uuid.New(), payment.MethodQR, amount, "PEN", "declined", payment.Details{}, now)
	assert.True(t, errs.Is(failed.Refund("", now), errs.ErrState))
	assert.Equal(t, payment.StatusFailed, failed.Status())
}
