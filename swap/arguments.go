package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/swaplib/null"
	"github.com/meenmo/swaplib/pricing"
)

// Arguments is the flat snapshot of a FixedVsFloatingSwap handed to its
// engine. Every per-leg sequence has one entry per coupon of that leg.
type Arguments struct {
	SwapArguments
	Side    Side
	Nominal null.Float
	// FixedRate and Spread are the contractual terms the fair values are
	// measured against.
	FixedRate null.Float
	Spread    null.Float

	FixedResetDates []time.Time
	FixedPayDates   []time.Time
	FixedCoupons    []float64

	FloatingAccrualTimes []float64
	FloatingResetDates   []time.Time
	FloatingFixingDates  []time.Time
	FloatingPayDates     []time.Time
	FloatingSpreads      []float64
	// FloatingCoupons is null where the coupon amount cannot be computed yet.
	FloatingCoupons []null.Float
}

// Validate rejects a null nominal and per-leg sequences of unequal length.
func (a *Arguments) Validate() error {
	if err := a.SwapArguments.Validate(); err != nil {
		return err
	}
	if a.Nominal.IsNull() {
		return fmt.Errorf("Validate: nominal null or not set: %w", ErrInvalidArguments)
	}
	if len(a.FixedResetDates) != len(a.FixedPayDates) {
		return fmt.Errorf("Validate: %d fixed reset dates, %d fixed pay dates: %w",
			len(a.FixedResetDates), len(a.FixedPayDates), ErrInvalidArguments)
	}
	if len(a.FixedPayDates) != len(a.FixedCoupons) {
		return fmt.Errorf("Validate: %d fixed pay dates, %d fixed coupons: %w",
			len(a.FixedPayDates), len(a.FixedCoupons), ErrInvalidArguments)
	}

	n := len(a.FloatingPayDates)
	for _, c := range []struct {
		name string
		len  int
	}{
		{"reset dates", len(a.FloatingResetDates)},
		{"fixing dates", len(a.FloatingFixingDates)},
		{"accrual times", len(a.FloatingAccrualTimes)},
		{"spreads", len(a.FloatingSpreads)},
		{"coupons", len(a.FloatingCoupons)},
	} {
		if c.len != n {
			return fmt.Errorf("Validate: %d floating %s, %d floating pay dates: %w", c.len, c.name, n, ErrInvalidArguments)
		}
	}
	return nil
}

// Results adds the fair values to the swap results.
type Results struct {
	SwapResults
	FairRate   null.Float
	FairSpread null.Float
}

// Reset nulls the fair values and then the swap results.
func (r *Results) Reset() {
	r.FairRate = null.Float{}
	r.FairSpread = null.Float{}
	r.SwapResults.Reset()
}

// Engine is the base of every FixedVsFloatingSwap engine. It carries the
// argument and result slots; embedding engines supply Calculate.
type Engine = pricing.GenericEngine[*Arguments, *Results]

// NewEngine returns an Engine with empty arguments and results.
func NewEngine() Engine {
	return pricing.NewGenericEngine(&Arguments{}, &Results{})
}
