package readstore

import (
	"context"

	"tour-booking/internal/infra"
	"tour-booking/internal/infra/db"
	"tour-booking/internal/infra/repository/converter"
	"tour-booking/internal/pkg/pgconv"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const paymentViewSQL = `SELECT ` + converter.PaymentColumns + `, b.reference, b.user_id
FROM payments p
JOIN bookings b ON b.id = p.booking_id
WHERE p.id = $1`

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: dbtx}
}

var _ queries.PaymentReadStore = (*PaymentReadStore)(nil)

func (s *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	view := &queries.PaymentView{}
	st, err := converter.ScanPayment(s.db.QueryRow(ctx, paymentViewSQL, id), &view.BookingReference, &view.UserID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment by ID", err)
	}
	// Field names line up with payment.State.
	if err := copier.Copy(view, &st); err != nil {
		return nil, infra.WrapRepoErr("failed to map payment view", err)
	}
	return view, nil
}
