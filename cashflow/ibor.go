package cashflow

import (
	"fmt"
	"time"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/config"
	"github.com/meenmo/swaplib/daycount"
	"github.com/meenmo/swaplib/index"
	"github.com/meenmo/swaplib/utils"
)

// IborCoupon pays gearing*fixing + spread on a term index. In advance, the
// fixing is taken FixingDays before the accrual start; in arrears, before
// the accrual end. Unfixed in-advance coupons forecast the index over the
// accrual period itself (par coupons).
type IborCoupon struct {
	period
	index     *index.IborIndex
	gearing   float64
	spread    float64
	inArrears bool
}

// IborCouponParams lists the floating terms of an IborCoupon.
type IborCouponParams struct {
	PaymentDate  time.Time
	Nominal      float64
	AccrualStart time.Time
	AccrualEnd   time.Time
	DayCounter   daycount.Convention
	Index        *index.IborIndex
	// Gearing defaults to 1.
	Gearing   float64
	Spread    float64
	InArrears bool
}

func NewIborCoupon(p IborCouponParams) *IborCoupon {
	if p.Gearing == 0 {
		p.Gearing = 1
	}
	return &IborCoupon{
		period: period{
			paymentDate:  p.PaymentDate,
			nominal:      p.Nominal,
			accrualStart: p.AccrualStart,
			accrualEnd:   p.AccrualEnd,
			dayCounter:   p.DayCounter,
		},
		index:     p.Index,
		gearing:   p.Gearing,
		spread:    p.Spread,
		inArrears: p.InArrears,
	}
}

func (c *IborCoupon) Index() *index.IborIndex { return c.index }
func (c *IborCoupon) Gearing() float64        { return c.gearing }
func (c *IborCoupon) Spread() float64         { return c.spread }
func (c *IborCoupon) IsInArrears() bool       { return c.inArrears }

// FixingDate is the date the coupon's index fixing is observed.
func (c *IborCoupon) FixingDate() time.Time {
	ref := c.accrualStart
	if c.inArrears {
		ref = c.accrualEnd
	}
	return calendar.AddBusinessDays(c.index.FixingCalendar(), ref, -c.index.FixingDays())
}

// IndexFixing returns the stored fixing when the fixing date is past (or
// today and stored), otherwise a forecast.
func (c *IborCoupon) IndexFixing() (float64, error) {
	d := c.FixingDate()
	today := config.EvaluationDate()
	if !d.After(today) {
		if v, ok := c.index.PastFixing(d); ok {
			return v, nil
		}
		if d.Before(today) || config.EnforceTodaysHistoricFixings() {
			return 0, fmt.Errorf("IborCoupon: %s %s: %w", c.index.Name(), d.Format(utils.DateLayout), index.ErrMissingFixing)
		}
	}
	if c.inArrears {
		return c.index.Forecast(d)
	}
	return c.index.ForecastOver(c.accrualStart, c.accrualEnd)
}

func (c *IborCoupon) Rate() (float64, error) {
	fixing, err := c.IndexFixing()
	if err != nil {
		return 0, err
	}
	return c.gearing*fixing + c.spread, nil
}

func (c *IborCoupon) Amount() (float64, error) {
	r, err := c.Rate()
	if err != nil {
		return 0, err
	}
	return c.nominal * r * c.AccrualPeriod(), nil
}

func (c *IborCoupon) AccruedAmount(d time.Time) (float64, error) {
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
