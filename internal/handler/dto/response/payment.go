package response

import (
	"time"

	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	BookingID        uuid.UUID       `json:"booking_id"`
	BookingReference string          `json:"booking_reference"`
	Method           string          `json:"payment_method"`
	Status           string          `json:"status"`
	TransactionID    string          `json:"transaction_id,omitempty"`
	Amount           money.Money     `json:"amount"`
	Currency         string          `json:"currency"`
	Details          payment.Details `json:"payment_details"`
	FailureReason    string          `json:"failure_reason,omitempty"`
	RefundReason     string          `json:"refund_reason,omitempty"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
	RefundedAt       *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type PaymentResultResponse struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id,omitempty"`
}

func FromPaymentView(v *queries.PaymentView) (*PaymentResponse, error) {
	resp := &PaymentResponse{}
	if err := copier.Copy(resp, v); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromPaymentResult(r *commands.PaymentResult) *PaymentResultResponse {
	return &PaymentResultResponse{
		PaymentID:     r.PaymentID,
		BookingID:     r.BookingID,
		Status:        string(r.Status),
		TransactionID: r.TransactionID,
	}
}
