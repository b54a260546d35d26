//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/commands"
	"tour-booking/tests/common/builder"
	"tour-booking/tests/common/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleComplete(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	clk := clock.NewMockClock(builder.Now)
	cmds := commands.NewScheduleUseCase(store, clk, booking.DefaultPolicy(), nil)

	base := builder.NewBookingBuilder()
	base.Schedule.WithSpots(10, 5)
	store.AddTour(base.Tour.BuildDomain())
	store.AddSchedule(base.Schedule.BuildDomain())
	paid := base.BuildState(booking.StatusPaid)
	confirmed := base.BuildState(booking.StatusConfirmed)
	store.AddBooking(paid)
	store.AddBooking(confirmed)

	_, err := cmds.Complete(ctx, ownerOf(paid), base.Schedule.ID)
	assert.True(t, errs.Is(err, errs.ErrForbidden))

	_, err = cmds.Complete(ctx, admin(), base.Schedule.ID)
	assert.True(t, errs.Is(err, errs.ErrState), "schedule has not ended")
	assert.Equal(t, tour.ScheduleAvailable, store.Schedule(base.Schedule.ID).Status())

	clk.Set(base.Schedule.StartsAt().Add(24 * time.Hour))
	res, err := cmds.Complete(ctx, admin(), base.Schedule.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, res.CompletedBookings)
	assert.Equal(t, tour.ScheduleCompleted, store.Schedule(base.Schedule.ID).Status())
	assert.Equal(t, 5, store.Schedule(base.Schedule.ID).BookedSpots())
	assert.Equal(t, booking.StatusCompleted, store.Booking(paid.ID).Status)
	assert.Equal(t, booking.StatusConfirmed, store.Booking(confirmed.ID).Status)
}
