//go:build unit

package queries_test

import (
	"context"
	"testing"

	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/queries"
	"tour-booking/tests/common/builder"
	"tour-booking/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AvailabilityQueriesTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memstore.Store
	q     queries.AvailabilityQueries
	tour  *builder.TourBuilder
	today civil.Date
}

func TestAvailabilityQueriesSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityQueriesTestSuite))
}

func (s *AvailabilityQueriesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.q = queries.NewAvailabilityQueries(s.store, clock.NewMockClock(builder.Now), queries.DefaultAvailabilityLimits())
	s.today = civil.DateOf(builder.Now)

	s.tour = builder.NewTourBuilder()
	s.store.AddTour(s.tour.BuildDomain())
}

func (s *AvailabilityQueriesTestSuite) schedule(offset int) *builder.ScheduleBuilder {
	b := builder.NewScheduleBuilder(s.tour.ID).OnDay(offset)
	s.store.AddSchedule(b.BuildDomain())
	return b
}

func (s *AvailabilityQueriesTestSuite) fieldOf(err error) map[string]string {
	s.T().Helper()
	var ve *errs.ValidationError
	s.Require().True(errs.As(err, &ve), "expected validation error, got %v", err)
	return ve.Fields
}

func (s *AvailabilityQueriesTestSuite) TestByDate() {
	sb := s.schedule(3)
	sb.WithSpots(10, 4)
	s.store.AddSchedule(sb.BuildDomain())

	res, err := s.q.ByDate(s.ctx, s.tour.ID, s.today.AddDays(3))
	s.Require().NoError(err)
	s.True(res.IsAvailable)
	s.Require().Len(res.Schedules, 1)
	s.Equal(6, res.Schedules[0].AvailableSpots)
	s.Equal(6, res.TotalAvailableSpots)

	s.Run("today and past are rejected", func() {
		for _, d := range []civil.Date{s.today, s.today.AddDays(-1)} {
			_, err := s.q.ByDate(s.ctx, s.tour.ID, d)
			s.Contains(s.fieldOf(err), "date")
		}
	})

	s.Run("unknown tour", func() {
		_, err := s.q.ByDate(s.ctx, uuid.New(), s.today.AddDays(3))
		s.True(errs.Is(err, errs.ErrNotFound))
	})

	s.Run("day without schedules", func() {
		res, err := s.q.ByDate(s.ctx, s.tour.ID, s.today.AddDays(4))
		s.Require().NoError(err)
		s.False(res.IsAvailable)
		s.NotNil(res.Schedules)
		s.Empty(res.Schedules)
	})
}

func (s *AvailabilityQueriesTestSuite) TestByRangeLimit() {
	from := s.today.AddDays(1)
	s.schedule(1)
	s.schedule(91)

	res, err := s.q.ByRange(s.ctx, s.tour.ID, from, from.AddDays(90))
	s.Require().NoError(err)
	s.Equal(91, res.Summary.TotalDays)
	s.Equal(2, res.Summary.AvailableDays)
	s.Equal(20, res.Summary.TotalSpots)

	_, err = s.q.ByRange(s.ctx, s.tour.ID, from, from.AddDays(91))
	s.True(errs.Is(err, errs.ErrValidation))
	s.Contains(s.fieldOf(err), "to")

	_, err = s.q.ByRange(s.ctx, s.tour.ID, from.AddDays(2), from)
	s.Contains(s.fieldOf(err), "to")

	_, err = s.q.ByRange(s.ctx, s.tour.ID, s.today, from)
	s.Contains(s.fieldOf(err), "from")
}

func (s *AvailabilityQueriesTestSuite) TestByMultipleTours() {
	other := builder.NewTourBuilder()
	other.Name = "Sacred Valley"
	s.store.AddTour(other.BuildDomain())
	s.schedule(2)
	date := s.today.AddDays(2)

	res, err := s.q.ByMultipleTours(s.ctx, []uuid.UUID{s.tour.ID, other.ID, s.tour.ID}, date)
	s.Require().NoError(err)
	s.Require().Len(res.Tours, 2)
	s.True(res.Tours[0].IsAvailable)
	s.False(res.Tours[1].IsAvailable)
	s.Equal("Sacred Valley", res.Tours[1].TourName)
	s.Equal(2, res.Summary.TotalTours)
	s.Equal(1, res.Summary.AvailableTours)
	s.Equal(10, res.Summary.TotalAvailableSpots)

	s.Run("unknown ids are enumerated", func() {
		missing := uuid.New()
		_, err := s.q.ByMultipleTours(s.ctx, []uuid.UUID{s.tour.ID, missing}, date)
		s.Contains(s.fieldOf(err)["tour_ids"], missing.String())
	})

	s.Run("empty and oversized lists", func() {
		_, err := s.q.ByMultipleTours(s.ctx, nil, date)
		s.Contains(s.fieldOf(err), "tour_ids")

		ids := make([]uuid.UUID, 21)
		for i := range ids {
			ids[i] = uuid.New()
		}
		_, err = s.q.ByMultipleTours(s.ctx, ids, date)
		s.Contains(s.fieldOf(err), "tour_ids")
	})
}

func (s *AvailabilityQueriesTestSuite) TestNextAvailable() {
	s.schedule(5)
	s.schedule(2)
	s.schedule(400)

	res, err := s.q.NextAvailable(s.ctx, s.tour.ID, queries.DefaultNextLimit)
	s.Require().NoError(err)
	s.Require().Len(res.Dates, 2, "dates past the horizon are not scanned")
	s.Equal(s.today.AddDays(2), res.Dates[0].Date)
	s.Equal(s.today.AddDays(5), res.Dates[1].Date)

	for _, limit := range []int{-3, 0, 1} {
		res, err = s.q.NextAvailable(s.ctx, s.tour.ID, limit)
		s.Require().NoError(err)
		s.Len(res.Dates, 1, "limit %d is clamped to one", limit)
	}
}

func (s *AvailabilityQueriesTestSuite) TestSpotsCheck() {
	sb := s.schedule(3).WithPriceOverride(12000)
	s.store.AddSchedule(sb.WithSpots(10, 7).BuildDomain())

	res, err := s.q.SpotsCheck(s.ctx, s.tour.ID, sb.ID, 3)
	s.Require().NoError(err)
	s.True(res.CanBook)
	s.Equal(3, res.AvailableSpots)
	s.Equal("360.00", res.TotalPrice.String())

	res, err = s.q.SpotsCheck(s.ctx, s.tour.ID, sb.ID, 4)
	s.Require().NoError(err)
	s.False(res.CanBook)
	s.Equal(7, s.store.Schedule(sb.ID).BookedSpots(), "spots check never reserves")

	_, err = s.q.SpotsCheck(s.ctx, uuid.New(), sb.ID, 1)
	s.True(errs.Is(err, errs.ErrNotFound), "schedule of another tour")

	_, err = s.q.SpotsCheck(s.ctx, s.tour.ID, sb.ID, 0)
	s.Contains(s.fieldOf(err), "spots")
}

func (s *AvailabilityQueriesTestSuite) TestCalendar() {
	s.schedule(4)

	res, err := s.q.Calendar(s.ctx, s.tour.ID, 2026, 3)
	s.Require().NoError(err)
	s.Len(res.Days, 31)
	s.True(res.Days[13].IsAvailable)

	_, err = s.q.Calendar(s.ctx, s.tour.ID, 2026, 13)
	s.Contains(s.fieldOf(err), "month")

	for _, year := range []int{2024, 2029} {
		_, err = s.q.Calendar(s.ctx, s.tour.ID, year, 1)
		s.Contains(s.fieldOf(err), "year")
	}
	_, err = s.q.Calendar(s.ctx, s.tour.ID, 2028, 1)
	s.NoError(err)
}
