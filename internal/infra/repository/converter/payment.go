package converter

import (
	"tour-booking/internal/domain/money"
	"tour-booking/internal/domain/payment"
	"tour-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

const PaymentColumns = `p.id, p.booking_id, p.method, p.status, p.transaction_id, p.amount_cents, p.currency,
	p.details, p.failure_reason, p.refund_reason, p.processed_at, p.refunded_at, p.created_at`

func ScanPayment(row Scanner, extra ...any) (payment.State, error) {
	var (
		st                      payment.State
		method, status          string
		txID                    pgtype.Text
		amount                  int64
		processedAt, refundedAt pgtype.Timestamptz
	)
	dest := []any{
		&st.ID, &st.BookingID, &method, &status, &txID, &amount, &st.Currency,
		&st.Details, &st.FailureReason, &st.RefundReason, &processedAt, &refundedAt, &st.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return payment.State{}, err
	}
	st.Method = payment.Method(method)
	st.Status = payment.Status(status)
	st.TransactionID = pgconv.StringFromPgtype(txID)
	st.Amount = money.FromCents(amount)
	st.ProcessedAt = pgconv.TimePtrFromPgtype(processedAt)
	st.RefundedAt = pgconv.TimePtrFromPgtype(refundedAt)
	return st, nil
}

func PaymentInsertArgs(st payment.State) []any {
	return []any{
		st.ID, st.BookingID, string(st.Method), string(st.Status), pgconv.TextOrNull(st.TransactionID),
		st.Amount.Cents(), st.Currency, st.Details, st.FailureReason, st.RefundReason,
		pgconv.TimePtrToPgtype(st.ProcessedAt), pgconv.TimePtrToPgtype(st.RefundedAt), st.CreatedAt,
	}
}
