package queries

import (
	"context"
	"time"

	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindFirstPage(ctx context.Context, filter BookingFilter, limit int) ([]*BookingListItem, error)
	FindKeyset(ctx context.Context, filter BookingFilter, lastCreatedAt time.Time, lastID uuid.UUID, limit int) ([]*BookingListItem, error)
	Summarize(ctx context.Context, userID *uuid.UUID, today civil.Date) (*BookingSummary, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, caller shared.Caller, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, caller shared.Caller, filter BookingFilter, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
	Summary(ctx context.Context, caller shared.Caller) (*BookingSummary, error)
}

type bookingQueriesImpl struct {
	repo     BookingReadStore
	clock    clock.Clock
	location *time.Location
}

func NewBookingQueries(repo BookingReadStore, clk clock.Clock, loc *time.Location) BookingQueries {
	return &bookingQueriesImpl{repo: repo, clock: clk, location: loc}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, caller shared.Caller, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(view.UserID) {
		return nil, errs.Forbiddenf("booking %s belongs to another user", view.Reference)
	}
	return view, nil
}

// List scopes customers to their own bookings; admins may filter by user.
func (q *bookingQueriesImpl) List(ctx context.Context, caller shared.Caller, filter BookingFilter, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	if !caller.IsAdmin() {
		own := caller.UserID
		filter.UserID = &own
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, nil, errs.Validation("status", "Status must be one of pending, confirmed, paid, completed, cancelled")
	}

	limit = ValidateLimit(limit)
	var rows []*BookingListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindFirstPage(ctx, filter, limit+1)
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, derr
		}
		rows, err = q.repo.FindKeyset(ctx, filter, lastCreatedAt, lastID, limit+1)
	}
	if err != nil {
		return nil, nil, err
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (q *bookingQueriesImpl) Summary(ctx context.Context, caller shared.Caller) (*BookingSummary, error) {
	var userID *uuid.UUID
	if !caller.IsAdmin() {
		own := caller.UserID
		userID = &own
	}
	return q.repo.Summarize(ctx, userID, civil.Today(q.clock.Now(), q.location))
}
