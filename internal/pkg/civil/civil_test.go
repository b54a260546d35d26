//go:build unit

package civil_test

import (
	"encoding/json"
	"testing"
	"time"

	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("parse and format round trip", func(t *testing.T) {
		d, err := civil.ParseDate("2026-03-09")
		require.NoError(t, err)
		assert.Equal(t, civil.NewDate(2026, time.March, 9), d)
		assert.Equal(t, "2026-03-09", d.String())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := civil.ParseDate("09/03/2026")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid date "09/03/2026"`)
		assert.Greater(t, len(errs.ExtractStackLines(err, 0)), 1, "error should carry a stack")
	})

	t.Run("day arithmetic crosses month and year", func(t *testing.T) {
		d := civil.NewDate(2026, time.December, 31)
		assert.Equal(t, civil.NewDate(2027, time.January, 1), d.AddDays(1))
		assert.Equal(t, 90, d.AddDays(90).DaysSince(d))
		assert.Equal(t, -1, d.DaysSince(d.AddDays(1)))
		assert.True(t, d.Before(d.AddDays(1)))
		assert.True(t, d.AddDays(1).After(d))
	})

	t.Run("today depends on the location", func(t *testing.T) {
		lima, err := time.LoadLocation("America/Lima")
		require.NoError(t, err)
		now := time.Date(2026, time.May, 2, 3, 0, 0, 0, time.UTC)
		assert.Equal(t, civil.NewDate(2026, time.May, 1), civil.Today(now, lima))
		assert.Equal(t, civil.NewDate(2026, time.May, 2), civil.Today(now, time.UTC))
	})

	t.Run("days in month handles leap years", func(t *testing.T) {
		assert.Equal(t, 29, civil.DaysInMonth(2028, time.February))
		assert.Equal(t, 28, civil.DaysInMonth(2027, time.February))
		assert.Equal(t, 31, civil.DaysInMonth(2026, time.December))
	})

	t.Run("json uses ISO dates", func(t *testing.T) {
		b, err := json.Marshal(struct {
			D civil.Date `json:"d"`
		}{civil.NewDate(2026, time.July, 4)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"d":"2026-07-04"}`, string(b))
	})

	t.Run("zero date survives a json round trip", func(t *testing.T) {
		type wrapper struct {
			D civil.Date `json:"d"`
		}
		b, err := json.Marshal(wrapper{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"d":""}`, string(b))

		var got wrapper
		require.NoError(t, json.Unmarshal(b, &got))
		assert.True(t, got.D.IsZero())

		require.Error(t, json.Unmarshal([]byte(`{"d":"0000-00-00"}`), &got))
	})
}

func TestTimeOfDay(t *testing.T) {
	tod, err := civil.ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", tod.String())

	withSeconds, err := civil.ParseTimeOfDay("17:45:10")
	require.NoError(t, err)
	assert.True(t, tod.Before(withSeconds))
	assert.Equal(t, withSeconds, civil.TimeOfDayFromDuration(withSeconds.SinceMidnight()))

	at := tod.On(civil.NewDate(2026, time.June, 1), time.UTC)
	assert.Equal(t, time.Date(2026, time.June, 1, 9, 30, 0, 0, time.UTC), at)

	_, err = civil.ParseTimeOfDay("25:00")
	assert.Error(t, err)
}
