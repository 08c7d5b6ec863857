package cashflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/swaplib/daycount"
)

// ErrNotCoupon is returned when a coupon is required and a bare cash flow is found.
var ErrNotCoupon = errors.New("cash flow is not a coupon")

// CashFlow is an amount paid on a date. Amount may fail when it depends on
// a fixing that is neither stored nor forecastable.
type CashFlow interface {
	Date() time.Time
	Amount() (float64, error)
}

// Coupon is a cash flow accruing a rate on a nominal over a period.
type Coupon interface {
	CashFlow
	Nominal() float64
	AccrualStartDate() time.Time
	AccrualEndDate() time.Time
	AccrualPeriod() float64
	DayCounter() daycount.Convention
	Rate() (float64, error)
	AccruedAmount(d time.Time) (float64, error)
}

// FloatingCoupon is a coupon whose rate is set off an index fixing.
type FloatingCoupon interface {
	Coupon
	FixingDate() time.Time
	Spread() float64
	Gearing() float64
}

// Leg is an ordered sequence of cash flows.
type Leg []CashFlow

// AsCoupon returns cf as a Coupon or ErrNotCoupon.
func AsCoupon(cf CashFlow) (Coupon, error) {
	c, ok := cf.(Coupon)
	if !ok {
		return nil, fmt.Errorf("%T on %s: %w", cf, cf.Date().Format("2006-01-02"), ErrNotCoupon)
	}
	return c, nil
}

// SimpleCashFlow is a fixed amount paid on a date, e.g. a notional exchange.
type SimpleCashFlow struct {
	date   time.Time
	amount float64
}

func NewSimpleCashFlow(date time.Time, amount float64) *SimpleCashFlow {
	return &SimpleCashFlow{date: date, amount: amount}
}

func (s *SimpleCashFlow) Date() time.Time          { return s.date }
func (s *SimpleCashFlow) Amount() (float64, error) { return s.amount, nil }

// period holds what every coupon shares.
type period struct {
	paymentDate  time.Time
	nominal      float64
	accrualStart time.Time
	accrualEnd   time.Time
	dayCounter   daycount.Convention
}

func (p period) Date() time.Time                 { return p.paymentDate }
func (p period) Nominal() float64                { return p.nominal }
func (p period) AccrualStartDate() time.Time     { return p.accrualStart }
func (p period) AccrualEndDate() time.Time       { return p.accrualEnd }
func (p period) DayCounter() daycount.Convention { return p.dayCounter }

// AccrualPeriod is the year fraction of the accrual period.
func (p period) AccrualPeriod() float64 {
	return p.dayCounter.YearFraction(p.accrualStart, p.accrualEnd)
}

// AccrualDays is the day count of the accrual period.
func (p period) AccrualDays() int {
	return p.dayCounter.DayCount(p.accrualStart, p.accrualEnd)
}

// accrued returns the year fraction accrued by d, zero outside the coupon's life.
func (p period) accrued(d time.Time) float64 {
	if !d.After(p.accrualStart) || d.After(p.paymentDate) {
		return 0
	}
	end := d
	if end.After(p.accrualEnd) {
		end = p.accrualEnd
	}
	return p.dayCounter.YearFraction(p.accrualStart, end)
}

// FixedRateCoupon pays a simple fixed rate.
type FixedRateCoupon struct {
	period
	rate float64
}

// NewFixedRateCoupon builds a fixed coupon; rate is decimal.
func NewFixedRateCoupon(paymentDate time.Time, nominal, rate float64, dc daycount.Convention, accrualStart, accrualEnd time.Time) *FixedRateCoupon {
	return &FixedRateCoupon{
		period: period{
			paymentDate:  paymentDate,
			nominal:      nominal,
			accrualStart: accrualStart,
			accrualEnd:   accrualEnd,
			dayCounter:   dc,
		},
		rate: rate,
	}
}

func (c *FixedRateCoupon) Rate() (float64, error) { return c.rate, nil }

func (c *FixedRateCoupon) Amount() (float64, error) {
	return c.nominal * c.rate * c.AccrualPeriod(), nil
}

func (c *FixedRateCoupon) AccruedAmount(d time.Time) (float64, error) {
	return c.nominal * c.rate * c.accrued(d), nil
}
