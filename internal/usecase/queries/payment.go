package queries

import (
	"context"

	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
}

type PaymentQueries interface {
	GetStatus(ctx context.Context, caller shared.Caller, id uuid.UUID) (*PaymentView, error)
}

type paymentQueriesImpl struct {
	repo PaymentReadStore
}

func NewPaymentQueries(repo PaymentReadStore) PaymentQueries {
	return &paymentQueriesImpl{repo: repo}
}

func (q *paymentQueriesImpl) GetStatus(ctx context.Context, caller shared.Caller, id uuid.UUID) (*PaymentView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(view.UserID) {
		return nil, errs.Forbiddenf("payment %s belongs to another user", id)
	}
	return view, nil
}
