package cashflow

import (
	"fmt"
	"time"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/config"
	"github.com/meenmo/swaplib/curve"
	"github.com/meenmo/swaplib/daycount"
	"github.com/meenmo/swaplib/index"
	"github.com/meenmo/swaplib/utils"
)

// OvernightIndexedCoupon compounds daily overnight fixings over the accrual
// period. Published fixings are used up to today; the remainder is
// forecast in one step off the forwarding curve.
type OvernightIndexedCoupon struct {
	period
	index   index.OvernightIndex
	gearing float64
	spread  float64

	valueDates  []time.Time
	fixingDates []time.Time
	dt          []float64
}

// OvernightCouponParams lists the terms of an OvernightIndexedCoupon.
type OvernightCouponParams struct {
	PaymentDate  time.Time
	Nominal      float64
	AccrualStart time.Time
	AccrualEnd   time.Time
	DayCounter   daycount.Convention
	Index        index.OvernightIndex
	// Gearing defaults to 1.
	Gearing float64
	Spread  float64
}

func NewOvernightIndexedCoupon(p OvernightCouponParams) *OvernightIndexedCoupon {
	if p.Gearing == 0 {
		p.Gearing = 1
	}
	c := &OvernightIndexedCoupon{
		period: period{
			paymentDate:  p.PaymentDate,
			nominal:      p.Nominal,
			accrualStart: p.AccrualStart,
			accrualEnd:   p.AccrualEnd,
			dayCounter:   p.DayCounter,
		},
		index:   p.Index,
		gearing: p.Gearing,
		spread:  p.Spread,
	}

	cal := p.Index.FixingCalendar()
	for d := calendar.AdjustFollowing(cal, p.AccrualStart); d.Before(p.AccrualEnd); d = calendar.AddBusinessDays(cal, d, 1) {
		c.valueDates = append(c.valueDates, d)
	}
	if len(c.valueDates) == 0 {
		c.valueDates = append(c.valueDates, p.AccrualStart)
	}
	c.valueDates = append(c.valueDates, p.AccrualEnd)

	dc := p.Index.DayCounter()
	n := len(c.valueDates) - 1
	c.fixingDates = make([]time.Time, n)
	c.dt = make([]float64, n)
	for i := 0; i < n; i++ {
		c.fixingDates[i] = p.Index.FixingDate(c.valueDates[i])
		c.dt[i] = dc.YearFraction(c.valueDates[i], c.valueDates[i+1])
	}
	return c
}

func (c *OvernightIndexedCoupon) Index() index.OvernightIndex { return c.index }
func (c *OvernightIndexedCoupon) Gearing() float64            { return c.gearing }
func (c *OvernightIndexedCoupon) Spread() float64             { return c.spread }

// FixingDate is the last overnight fixing date of the period.
func (c *OvernightIndexedCoupon) FixingDate() time.Time {
	return c.fixingDates[len(c.fixingDates)-1]
}

// ValueDates returns the compounding dates, accrual end included.
func (c *OvernightIndexedCoupon) ValueDates() []time.Time {
	return append([]time.Time(nil), c.valueDates...)
}

// FixingDates returns the overnight fixing date of each compounding step.
func (c *OvernightIndexedCoupon) FixingDates() []time.Time {
	return append([]time.Time(nil), c.fixingDates...)
}

// CompoundedRate is the simple rate equivalent to the daily compounded
// fixings over the period, before gearing and spread.
func (c *OvernightIndexedCoupon) CompoundedRate() (float64, error) {
	today := config.EvaluationDate()
	factor := 1.0
	i, n := 0, len(c.dt)

	for ; i < n && !c.fixingDates[i].After(today); i++ {
		v, ok := c.index.PastFixing(c.fixingDates[i])
		if !ok {
			if c.fixingDates[i].Before(today) || config.EnforceTodaysHistoricFixings() {
				return 0, fmt.Errorf("OvernightIndexedCoupon: %s %s: %w",
					c.index.Name(), c.fixingDates[i].Format(utils.DateLayout), index.ErrMissingFixing)
			}
			// today's fixing not yet published: forecast from here on
			break
		}
		factor *= 1 + v*c.dt[i]
	}

	if i < n {
		yc, err := c.index.ForwardingCurve().Current()
		if err != nil {
			return 0, fmt.Errorf("OvernightIndexedCoupon: %s: %w", c.index.Name(), err)
		}
		start, end := c.valueDates[i], c.valueDates[n]
		if start.Before(yc.ReferenceDate()) {
			return 0, fmt.Errorf("OvernightIndexedCoupon: %s forecast from %s: %w",
				c.index.Name(), start.Format(utils.DateLayout), curve.ErrBeforeReference)
		}
		factor *= yc.Discount(start) / yc.Discount(end)
	}

	span := c.index.DayCounter().YearFraction(c.valueDates[0], c.valueDates[n])
	if span == 0 {
		return 0, nil
	}
	return (factor - 1) / span, nil
}

func (c *OvernightIndexedCoupon) Rate() (float64, error) {
	r, err := c.CompoundedRate()
	if err != nil {
		return 0, err
	}
	return c.gearing*r + c.spread, nil
}

func (c *OvernightIndexedCoupon) Amount() (float64, error) {
	r, err := c.Rate()
	if err != nil {
		return 0, err
	}
	return c.nominal * r * c.AccrualPeriod(), nil
}

func (c *OvernightIndexedCoupon) AccruedAmount(d time.Time) (float64, error) {
	frac := c.accrued(d)
	if frac == 0 {
		return 0, nil
	}
	r, err := c.Rate()
	if err != nil {
		return 0, err
	}
	return c.nominal * r * frac, nil
}
