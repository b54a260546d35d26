package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tour-booking/internal/pkg/errs"
)

var ErrInvalidAmount = errs.New("invalid money amount")

// Money is an amount in minor units (cents).
type Money struct {
	cents int64
}

func FromCents(cents int64) Money {
	return Money{cents: cents}
}

// Parse reads a decimal amount such as "150" or "150.50".
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && (len(frac) == 0 || len(frac) > 2)) {
		return Money{}, errs.Wrapf(ErrInvalidAmount, "malformed amount %q", s)
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w < 0 {
		return Money{}, errs.Wrapf(ErrInvalidAmount, "malformed amount %q", s)
	}
	var f int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return Money{}, errs.Wrapf(ErrInvalidAmount, "malformed amount %q", s)
		}
	}
	return Money{cents: w*100 + f}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Times(n int) Money {
	return Money{cents: m.cents * int64(n)}
}

func (m Money) Less(other Money) bool {
	return m.cents < other.cents
}

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

// Percent returns round-half-up(m * rate / 100) where rate is in basis points.
func (m Money) Percent(rate Rate) Money {
	v := m.cents * rate.bps
	q, r := v/10000, v%10000
	if r*2 >= 10000 {
		q++
	}
	return Money{cents: q}
}

// String renders two decimals, e.g. "300.00".
func (m Money) String() string {
	sign := ""
	c := m.cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Rate is a percentage stored in basis points (10% == 1000).
type Rate struct {
	bps int64
}

var ErrInvalidRate = errs.New("invalid percentage rate")

func NewRate(percent float64) (Rate, error) {
	if math.IsNaN(percent) || percent < 0 || percent > 100 {
		return Rate{}, errs.Wrapf(ErrInvalidRate, "rate %v outside 0..100", percent)
	}
	return Rate{bps: int64(math.Round(percent * 100))}, nil
}

func RateFromBasisPoints(bps int64) Rate {
	return Rate{bps: bps}
}

func (r Rate) BasisPoints() int64 {
	return r.bps
}

func (r Rate) Equal(other Rate) bool {
	return r.bps == other.bps
}

func (r Rate) Percent() float64 {
	return float64(r.bps) / 100
}

func (r Rate) String() string {
	return strconv.FormatFloat(r.Percent(), 'f', 2, 64)
}
