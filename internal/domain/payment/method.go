package payment

import (
	"strings"
	"time"

	"tour-booking/internal/pkg/errs"
)

type Method string

const (
	MethodCreditCard   Method = "credit_card"
	MethodDebitCard    Method = "debit_card"
	MethodBankTransfer Method = "bank_transfer"
	MethodQR           Method = "qr"
)

func (m Method) String() string {
	return string(m)
}

func (m Method) IsValid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodBankTransfer, MethodQR:
		return true
	default:
		return false
	}
}

func (m Method) IsCard() bool {
	return m == MethodCreditCard || m == MethodDebitCard
}

// Payload is the raw method-specific input. Only the fields relevant to the
// method are looked at.
type Payload struct {
	CardNumber     string `json:"card_number"`
	CVV            string `json:"cvv"`
	ExpiryMonth    int    `json:"expiry_month"`
	ExpiryYear     int    `json:"expiry_year"`
	CardholderName string `json:"cardholder_name"`
	BankCode       string `json:"bank_code"`
	AccountNumber  string `json:"account_number"`
}

// ValidatePayload checks the payload shape for the method. Expiry is compared
// by calendar month, so a card expiring this month is still accepted.
func ValidatePayload(m Method, p Payload, now time.Time) error {
	v := errs.NewValidationError()
	if !m.IsValid() {
		v.Add("method", "Payment method must be one of credit_card, debit_card, bank_transfer, qr")
		return v
	}

	switch {
	case m.IsCard():
		number := stripSpaces(p.CardNumber)
		if !allDigits(number) || len(number) < 13 || len(number) > 19 {
			v.Add("card_number", "Card number must be 13 to 19 digits")
		}
		if !allDigits(p.CVV) || len(p.CVV) < 3 || len(p.CVV) > 4 {
			v.Add("cvv", "CVV must be 3 or 4 digits")
		}
		if p.ExpiryMonth < 1 || p.ExpiryMonth > 12 {
			v.Add("expiry_month", "Expiry month must be between 1 and 12")
		}
		year := p.ExpiryYear
		if year > 0 && year < 100 {
			year += 2000
		}
		if year <= 0 {
			v.Add("expiry_year", "Expiry year is required")
		} else if year < now.Year() || (year == now.Year() && p.ExpiryMonth >= 1 && p.ExpiryMonth < int(now.Month())) {
			v.Add("expiry_year", "Card has expired")
		}
		if len(strings.TrimSpace(p.CardholderName)) < 2 {
			v.Add("cardholder_name", "Cardholder name must be at least 2 characters")
		}
	case m == MethodBankTransfer:
		if strings.TrimSpace(p.BankCode) == "" {
			v.Add("bank_code", "Bank code is required")
		}
		if strings.TrimSpace(p.AccountNumber) == "" {
			v.Add("account_number", "Account number is required")
		}
	}
	return v.Err()
}

// Details is the non-sensitive part of a payload kept with the payment.
type Details struct {
	Method         Method `json:"method"`
	CardLast4      string `json:"card_last4,omitempty"`
	CardholderName string `json:"cardholder_name,omitempty"`
	BankCode       string `json:"bank_code,omitempty"`
	AccountLast4   string `json:"account_last4,omitempty"`
}

func Mask(m Method, p Payload) Details {
	d := Details{Method: m}
	switch {
	case m.IsCard():
		d.CardLast4 = last4(stripSpaces(p.CardNumber))
		d.CardholderName = strings.TrimSpace(p.CardholderName)
	case m == MethodBankTransfer:
		d.BankCode = strings.TrimSpace(p.BankCode)
		d.AccountLast4 = last4(strings.TrimSpace(p.AccountNumber))
	}
	return d
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func last4(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}
