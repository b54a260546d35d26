//go:build unit

package money_test

import (
	"testing"

	"tour-booking/internal/domain/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		cents   int64
		wantErr bool
	}{
		{in: "150", cents: 15000},
		{in: "150.5", cents: 15050},
		{in: "150.05", cents: 15005},
		{in: "0.99", cents: 99},
		{in: "1.234", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "12.", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			m, err := money.Parse(c.in)
			if c.wantErr {
				require.ErrorIs(t, err, money.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.cents, m.Cents())
		})
	}
}

func TestPercent(t *testing.T) {
	ten, err := money.NewRate(10)
	require.NoError(t, err)

	total := money.FromCents(15000).Times(2)
	assert.Equal(t, "300.00", total.String())
	assert.Equal(t, "30.00", total.Percent(ten).String())

	rate, err := money.NewRate(12.5)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), rate.BasisPoints())
	// 0.99 * 12.5% = 0.12375 -> 0.12
	assert.Equal(t, int64(12), money.FromCents(99).Percent(rate).Cents())
	// 0.04 * 12.5% = 0.005 rounds half up -> 0.01
	assert.Equal(t, int64(1), money.FromCents(4).Percent(rate).Cents())

	_, err = money.NewRate(100.01)
	assert.ErrorIs(t, err, money.ErrInvalidRate)
	_, err = money.NewRate(-1)
	assert.ErrorIs(t, err, money.ErrInvalidRate)
}
