//go:build unit || e2e

package builder

import (
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/payment"
)

// ValidCardPayload expires in December of the year after Now.
func ValidCardPayload() payment.Payload {
	return payment.Payload{
		CardNumber:     "4111111111111111",
		CVV:            "123",
		ExpiryMonth:    12,
		ExpiryYear:     Now.Year() + 1,
		CardholderName: "Ana Quispe",
	}
}

func DeclinedCardPayload() payment.Payload {
	p := ValidCardPayload()
	p.CardNumber = "4000000000000002"
	return p
}

func BankTransferPayload() payment.Payload {
	return payment.Payload{BankCode: "BCP", AccountNumber: "19112345678012"}
}

func CompletedPayment(s booking.State, at time.Time) *payment.Payment {
	return payment.NewCompleted(s.ID, payment.MethodCreditCard, s.TotalAmount, s.Currency,
		"TX-TEST", payment.Mask(payment.MethodCreditCard, ValidCardPayload()), at)
}
