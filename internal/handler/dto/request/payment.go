package request

import (
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/usecase/commands"
)

type PaymentDataRequest struct {
	CardNumber     string `json:"card_number"`
	CVV            string `json:"cvv"`
	ExpiryMonth    int    `json:"expiry_month"`
	ExpiryYear     int    `json:"expiry_year"`
	CardholderName string `json:"cardholder_name"`
	BankCode       string `json:"bank_code"`
	AccountNumber  string `json:"account_number"`
}

type ProcessPaymentRequest struct {
	Method      string             `json:"payment_method"`
	PaymentData PaymentDataRequest `json:"payment_data"`
}

type RefundPaymentRequest struct {
	Reason string `json:"reason"`
}

func (r *ProcessPaymentRequest) ToInput() commands.ProcessPaymentInput {
	return commands.ProcessPaymentInput{
		Method:  payment.Method(r.Method),
		Payload: payment.Payload(r.PaymentData),
	}
}
