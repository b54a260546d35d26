package repository

import (
	"context"

	"tour-booking/internal/domain/payment"
	"tour-booking/internal/infra"
	"tour-booking/internal/infra/db"
	"tour-booking/internal/infra/repository/converter"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/pgconv"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	insertPaymentSQL = `
INSERT INTO payments (
	id, booking_id, method, status, transaction_id, amount_cents, currency,
	details, failure_reason, refund_reason, processed_at, refunded_at, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	savePaymentSQL = `
UPDATE payments SET
	status = $2,
	transaction_id = $3,
	failure_reason = $4,
	refund_reason = $5,
	processed_at = $6,
	refunded_at = $7
WHERE id = $1 AND status = $8`

	paymentByIDSQL = `SELECT ` + converter.PaymentColumns + ` FROM payments p WHERE p.id = $1`
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

var _ shared.PaymentRepository = (*PaymentRepository)(nil)

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if _, err := r.db.Exec(ctx, insertPaymentSQL, converter.PaymentInsertArgs(p.State())...); err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment, from payment.Status) error {
	st := p.State()
	tag, err := r.db.Exec(ctx, savePaymentSQL,
		st.ID, string(st.Status), pgconv.TextOrNull(st.TransactionID), st.FailureReason, st.RefundReason,
		pgconv.TimePtrToPgtype(st.ProcessedAt), pgconv.TimePtrToPgtype(st.RefundedAt),
		string(from),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save payment", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	if _, err := r.FindByID(ctx, st.ID, false); err != nil {
		return err
	}
	return errs.Statef("payment %s is no longer %s", st.ID, from)
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID, lock bool) (*payment.Payment, error) {
	query := paymentByIDSQL
	if lock {
		query += " FOR UPDATE"
	}
	st, err := converter.ScanPayment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment by ID", err)
	}
	return payment.Reconstruct(st), nil
}
