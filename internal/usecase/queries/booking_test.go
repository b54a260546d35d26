//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/queries"
	"tour-booking/internal/usecase/shared"
	"tour-booking/tests/common/builder"
	queriesmock "tour-booking/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingQueriesTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockCtrl *gomock.Controller
	store    *queriesmock.MockBookingReadStore
	q        queries.BookingQueries
	owner    shared.Caller
}

func TestBookingQueriesSuite(t *testing.T) {
	suite.Run(t, new(BookingQueriesTestSuite))
}

func (s *BookingQueriesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCtrl = gomock.NewController(s.T())
	s.store = queriesmock.NewMockBookingReadStore(s.mockCtrl)
	s.q = queries.NewBookingQueries(s.store, clock.NewMockClock(builder.Now), time.UTC)
	s.owner = shared.Caller{UserID: uuid.New(), Role: shared.RoleCustomer}
}

func (s *BookingQueriesTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func items(n int, start time.Time) []*queries.BookingListItem {
	out := make([]*queries.BookingListItem, 0, n)
	for i := range n {
		out = append(out, &queries.BookingListItem{
			ID:        uuid.New(),
			Reference: "TB-LIST",
			CreatedAt: start.Add(-time.Duration(i) * time.Minute),
			Status:    booking.StatusPending,
		})
	}
	return out
}

func (s *BookingQueriesTestSuite) TestGetByID() {
	view := &queries.BookingView{ID: uuid.New(), Reference: "TB-OWNED", UserID: s.owner.UserID}

	s.Run("owner", func() {
		s.store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)
		got, err := s.q.GetByID(s.ctx, s.owner, view.ID)
		s.Require().NoError(err)
		s.Equal("TB-OWNED", got.Reference)
	})

	s.Run("admin", func() {
		s.store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)
		_, err := s.q.GetByID(s.ctx, shared.Caller{UserID: uuid.New(), Role: shared.RoleAdmin}, view.ID)
		s.NoError(err)
	})

	s.Run("another customer", func() {
		s.store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)
		_, err := s.q.GetByID(s.ctx, shared.Caller{UserID: uuid.New(), Role: shared.RoleCustomer}, view.ID)
		s.True(errs.Is(err, errs.ErrForbidden))
	})

	s.Run("missing", func() {
		s.store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, errs.NotFoundf("booking not found"))
		_, err := s.q.GetByID(s.ctx, s.owner, uuid.New())
		s.True(errs.Is(err, errs.ErrNotFound))
	})
}

func (s *BookingQueriesTestSuite) TestListScopesCustomers() {
	other := uuid.New()

	s.store.EXPECT().
		FindFirstPage(gomock.Any(), gomock.Any(), queries.DefaultListLimit+1).
		DoAndReturn(func(_ context.Context, f queries.BookingFilter, _ int) ([]*queries.BookingListItem, error) {
			s.Require().NotNil(f.UserID)
			s.Equal(s.owner.UserID, *f.UserID, "customer filter is forced to the caller")
			return items(2, builder.Now), nil
		})

	rows, next, err := s.q.List(s.ctx, s.owner, queries.BookingFilter{UserID: &other}, nil, 0)
	s.Require().NoError(err)
	s.Len(rows, 2)
	s.Nil(next)

	s.Run("admins keep their filter", func() {
		s.store.EXPECT().
			FindFirstPage(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f queries.BookingFilter, _ int) ([]*queries.BookingListItem, error) {
				s.Nil(f.UserID)
				return nil, nil
			})
		_, _, err := s.q.List(s.ctx, shared.Caller{UserID: uuid.New(), Role: shared.RoleAdmin}, queries.BookingFilter{}, nil, 10)
		s.NoError(err)
	})

	s.Run("unknown status filter", func() {
		bad := booking.Status("archived")
		_, _, err := s.q.List(s.ctx, s.owner, queries.BookingFilter{Status: &bad}, nil, 10)
		s.True(errs.Is(err, errs.ErrValidation))
	})
}

func (s *BookingQueriesTestSuite) TestListPaginatesWithCursor() {
	page := items(3, builder.Now)

	s.store.EXPECT().FindFirstPage(gomock.Any(), gomock.Any(), 3).Return(page, nil)
	rows, next, err := s.q.List(s.ctx, s.owner, queries.BookingFilter{}, nil, 2)
	s.Require().NoError(err)
	s.Len(rows, 2)
	s.Require().NotNil(next)

	lastAt, lastID, err := queries.DecodeAfterCursor(next.After)
	s.Require().NoError(err)
	s.Equal(page[1].ID, lastID)
	s.True(page[1].CreatedAt.Equal(lastAt))

	s.store.EXPECT().FindKeyset(gomock.Any(), gomock.Any(), gomock.Any(), page[1].ID, 3).Return(page[2:], nil)
	rows, next, err = s.q.List(s.ctx, s.owner, queries.BookingFilter{}, next, 2)
	s.Require().NoError(err)
	s.Len(rows, 1)
	s.Nil(next)

	s.Run("garbage cursor", func() {
		_, _, err := s.q.List(s.ctx, s.owner, queries.BookingFilter{}, &queries.Cursor{After: "not-a-cursor"}, 2)
		s.True(errs.Is(err, errs.ErrValidation))
	})
}

func (s *BookingQueriesTestSuite) TestSummaryUsesToday() {
	s.store.EXPECT().
		Summarize(gomock.Any(), &s.owner.UserID, civil.DateOf(builder.Now)).
		Return(&queries.BookingSummary{Total: 4}, nil)

	got, err := s.q.Summary(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal(4, got.Total)
}
