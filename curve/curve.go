package curve

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/swaplib/daycount"
	"github.com/meenmo/swaplib/utils"
)

var (
	// ErrEmptyHandle is returned when a curve handle has no curve linked.
	ErrEmptyHandle = errors.New("empty curve handle")
	// ErrBeforeReference is returned for dates before the curve reference date.
	ErrBeforeReference = errors.New("date before curve reference date")
)

// YieldCurve provides discount factors from its reference date.
type YieldCurve interface {
	ReferenceDate() time.Time
	Discount(t time.Time) float64
}

// curveDayCount is the time axis used for interpolation and zero rates,
// independent of the coupon day counts of the legs priced off the curve.
const curveDayCount = daycount.Act365F

// ZeroRate returns the continuously-compounded zero rate (decimal) to t.
func ZeroRate(c YieldCurve, t time.Time) float64 {
	tau := curveDayCount.YearFraction(c.ReferenceDate(), t)
	if tau <= 0 {
		// instantaneous rate over the first day
		tau = 1.0 / 365.0
		t = c.ReferenceDate().AddDate(0, 0, 1)
	}
	return -math.Log(c.Discount(t)) / tau
}

// ForwardRate returns the simple forward rate between start and end under dc.
func ForwardRate(c YieldCurve, start, end time.Time, dc daycount.Convention) float64 {
	alpha := dc.YearFraction(start, end)
	if alpha == 0 {
		return 0
	}
	return (c.Discount(start)/c.Discount(end) - 1.0) / alpha
}

// FlatForward is a curve with a constant continuously-compounded zero rate.
type FlatForward struct {
	reference time.Time
	rate      float64
	dayCount  daycount.Convention
}

// NewFlatForward returns a flat curve. rate is decimal and continuously compounded.
func NewFlatForward(reference time.Time, rate float64, dc daycount.Convention) *FlatForward {
	return &FlatForward{reference: utils.Date(reference), rate: rate, dayCount: dc}
}

func (f *FlatForward) ReferenceDate() time.Time { return f.reference }

// Rate returns the flat continuously-compounded rate.
func (f *FlatForward) Rate() float64 { return f.rate }

func (f *FlatForward) Discount(t time.Time) float64 {
	return math.Exp(-f.rate * f.dayCount.YearFraction(f.reference, t))
}

// DiscountCurve interpolates discount factors log-linearly between pillars
// and extrapolates flat in the instantaneous forward beyond the last one.
type DiscountCurve struct {
	reference time.Time
	dates     []time.Time
	dfs       map[time.Time]float64
}

// NewDiscountCurve creates a curve from explicitly provided discount factors.
// The reference date gets a discount factor of 1 unless given.
func NewDiscountCurve(reference time.Time, dfs map[time.Time]float64) (*DiscountCurve, error) {
	reference = utils.Date(reference)
	c := &DiscountCurve{
		reference: reference,
		dfs:       make(map[time.Time]float64, len(dfs)+1),
	}
	for t, df := range dfs {
		t = utils.Date(t)
		if t.Before(reference) {
			return nil, fmt.Errorf("NewDiscountCurve: pillar %s: %w", t.Format(utils.DateLayout), ErrBeforeReference)
		}
		if df <= 0 {
			return nil, fmt.Errorf("NewDiscountCurve: non-positive discount factor %.12f at %s", df, t.Format(utils.DateLayout))
		}
		c.dfs[t] = df
	}
	if _, ok := c.dfs[reference]; !ok {
		c.dfs[reference] = 1.0
	}
	for t := range c.dfs {
		c.dates = append(c.dates, t)
	}
	utils.SortDates(c.dates)
	if len(c.dates) < 2 {
		return nil, fmt.Errorf("NewDiscountCurve: need at least one pillar after the reference date")
	}
	return c, nil
}

func (c *DiscountCurve) ReferenceDate() time.Time { return c.reference }

// Pillars returns the pillar dates in ascending order.
func (c *DiscountCurve) Pillars() []time.Time {
	return append([]time.Time(nil), c.dates...)
}

func (c *DiscountCurve) Discount(t time.Time) float64 {
	if df, ok := c.dfs[t]; ok {
		return df
	}
	d1, d2 := utils.AdjacentDates(t, c.dates)
	df1, df2 := c.dfs[d1], c.dfs[d2]
	t1 := curveDayCount.YearFraction(c.reference, d1)
	t2 := curveDayCount.YearFraction(c.reference, d2)
	tt := curveDayCount.YearFraction(c.reference, t)
	if t2 == t1 {
		return df1
	}
	w := (tt - t1) / (t2 - t1)
	return math.Exp((1-w)*math.Log(df1) + w*math.Log(df2))
}
