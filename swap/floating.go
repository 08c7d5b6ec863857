package swap

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/swaplib/cashflow"
	"github.com/meenmo/swaplib/index"
	"github.com/meenmo/swaplib/null"
)

// ErrIndexType is returned when a floating convention gets an index it
// cannot build coupons on.
var ErrIndexType = errors.New("index does not fit floating convention")

// Floating is the floating-leg convention of a FixedVsFloatingSwap: it
// builds the leg and describes it to engines.
type Floating interface {
	Name() string
	Leg(s *FixedVsFloatingSwap) (cashflow.Leg, error)
	SetupArguments(leg cashflow.Leg, a *Arguments) error
}

// IborFloating pays a term index fixed in advance or, with InArrears, at
// the end of each period.
type IborFloating struct {
	InArrears bool
}

func (f IborFloating) Name() string {
	if f.InArrears {
		return "IBOR_IN_ARREARS"
	}
	return "IBOR"
}

func (f IborFloating) Leg(s *FixedVsFloatingSwap) (cashflow.Leg, error) {
	idx, ok := s.Index().(*index.IborIndex)
	if !ok {
		return nil, fmt.Errorf("%s: %T: %w", f.Name(), s.Index(), ErrIndexType)
	}
	return cashflow.IborLeg(cashflow.IborLegParams{
		Schedule:          s.FloatingSchedule(),
		Nominal:           s.Nominal(),
		Index:             idx,
		DayCounter:        s.FloatingDayCount(),
		PaymentConvention: s.PaymentConvention(),
		PaymentLag:        s.PaymentLag(),
		Spread:            s.Spread(),
		InArrears:         f.InArrears,
	})
}

func (f IborFloating) SetupArguments(leg cashflow.Leg, a *Arguments) error {
	return setupFloatingCoupons(leg, a, func(c cashflow.FloatingCoupon) bool {
		ic, ok := c.(*cashflow.IborCoupon)
		return ok && ic.IsInArrears() == f.InArrears
	})
}

// CompoundedFloating pays daily compounded overnight fixings.
type CompoundedFloating struct{}

func (CompoundedFloating) Name() string { return "COMPOUNDED" }

func (f CompoundedFloating) Leg(s *FixedVsFloatingSwap) (cashflow.Leg, error) {
	idx, ok := s.Index().(index.OvernightIndex)
	if !ok {
		return nil, fmt.Errorf("%s: %T: %w", f.Name(), s.Index(), ErrIndexType)
	}
	return cashflow.OvernightLeg(cashflow.OvernightLegParams{
		Schedule:          s.FloatingSchedule(),
		Nominal:           s.Nominal(),
		Index:             idx,
		DayCounter:        s.FloatingDayCount(),
		PaymentConvention: s.PaymentConvention(),
		PaymentLag:        s.PaymentLag(),
		Spread:            s.Spread(),
	})
}

func (CompoundedFloating) SetupArguments(leg cashflow.Leg, a *Arguments) error {
	return setupFloatingCoupons(leg, a, func(c cashflow.FloatingCoupon) bool {
		_, ok := c.(*cashflow.OvernightIndexedCoupon)
		return ok
	})
}

// setupFloatingCoupons writes one entry per floating coupon. A coupon whose
// amount cannot be computed yet (e.g. a missing fixing) gets a null amount;
// the engine decides whether it can price without it.
func setupFloatingCoupons(leg cashflow.Leg, a *Arguments, accept func(cashflow.FloatingCoupon) bool) error {
	n := len(leg)
	a.FloatingResetDates = make([]time.Time, n)
	a.FloatingPayDates = make([]time.Time, n)
	a.FloatingFixingDates = make([]time.Time, n)
	a.FloatingAccrualTimes = make([]float64, n)
	a.FloatingSpreads = make([]float64, n)
	a.FloatingCoupons = make([]null.Float, n)

	for i, cf := range leg {
		c, ok := cf.(cashflow.FloatingCoupon)
		if !ok || !accept(c) {
			return fmt.Errorf("coupon %d is %T: %w", i, cf, ErrArgumentTypeMismatch)
		}
		a.FloatingResetDates[i] = c.AccrualStartDate()
		a.FloatingPayDates[i] = c.Date()
		a.FloatingFixingDates[i] = c.FixingDate()
		a.FloatingAccrualTimes[i] = c.AccrualPeriod()
		a.FloatingSpreads[i] = c.Spread()
		if amount, err := c.Amount(); err == nil {
			a.FloatingCoupons[i] = null.FloatFrom(amount)
		}
	}
	return nil
}
