package swap

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/cashflow"
	"github.com/meenmo/swaplib/daycount"
	"github.com/meenmo/swaplib/index"
	"github.com/meenmo/swaplib/null"
	"github.com/meenmo/swaplib/pricing"
	"github.com/meenmo/swaplib/schedule"
)

// ErrInvalidTerms is returned when a swap cannot be built from its terms.
var ErrInvalidTerms = errors.New("invalid swap terms")

// Terms are the economic terms of a FixedVsFloatingSwap. Rates and spreads
// are decimal.
type Terms struct {
	Side             Side
	Nominal          float64
	FixedSchedule    *schedule.Schedule
	FixedRate        float64
	FixedDayCount    daycount.Convention
	FloatingSchedule *schedule.Schedule
	Index            index.InterestRateIndex
	Spread           float64
	FloatingDayCount daycount.Convention
}

// Option customises a FixedVsFloatingSwap.
type Option func(*FixedVsFloatingSwap)

// WithPaymentConvention rolls payment dates of both legs with conv instead
// of the floating schedule's convention.
func WithPaymentConvention(conv calendar.BusinessDayConvention) Option {
	return func(s *FixedVsFloatingSwap) { s.paymentConvention = conv }
}

// WithPaymentLag delays payments of both legs by n business days.
func WithPaymentLag(n int) Option {
	return func(s *FixedVsFloatingSwap) { s.paymentLag = n }
}

// FixedVsFloatingSwap exchanges a fixed leg (leg 0) for a floating leg
// (leg 1). How the floating leg is built and described to engines is
// delegated to its Floating convention.
type FixedVsFloatingSwap struct {
	Swap
	terms             Terms
	floating          Floating
	paymentConvention calendar.BusinessDayConvention
	paymentLag        int

	fairRate   null.Float
	fairSpread null.Float
}

// NewFixedVsFloatingSwap builds both legs and registers the swap with its
// index so that new fixings or a relinked forwarding curve invalidate the
// cached results. The nominal is not validated.
func NewFixedVsFloatingSwap(t Terms, floating Floating, opts ...Option) (*FixedVsFloatingSwap, error) {
	if !t.Side.valid() {
		return nil, fmt.Errorf("NewFixedVsFloatingSwap: side %q: %w", t.Side, ErrInvalidTerms)
	}
	if t.FixedSchedule == nil || t.FloatingSchedule == nil {
		return nil, fmt.Errorf("NewFixedVsFloatingSwap: nil schedule: %w", ErrInvalidTerms)
	}
	if t.Index == nil || floating == nil {
		return nil, fmt.Errorf("NewFixedVsFloatingSwap: nil index or floating convention: %w", ErrInvalidTerms)
	}

	s := &FixedVsFloatingSwap{terms: t, floating: floating}
	for _, opt := range opts {
		opt(s)
	}
	if s.paymentConvention == "" {
		s.paymentConvention = t.FloatingSchedule.BusinessDayConvention()
	}

	fixed, err := cashflow.FixedLeg(cashflow.FixedLegParams{
		Schedule:          t.FixedSchedule,
		Nominal:           t.Nominal,
		Rate:              t.FixedRate,
		DayCounter:        t.FixedDayCount,
		PaymentConvention: s.paymentConvention,
		PaymentLag:        s.paymentLag,
	})
	if err != nil {
		return nil, fmt.Errorf("NewFixedVsFloatingSwap: fixed leg: %w", err)
	}
	floatingLeg, err := floating.Leg(s)
	if err != nil {
		return nil, fmt.Errorf("NewFixedVsFloatingSwap: floating leg: %w", err)
	}

	s.init(s, []cashflow.Leg{fixed, floatingLeg}, []bool{t.Side == Payer, t.Side == Receiver})
	t.Index.Register(s)
	return s, nil
}

// NewVanillaSwap is a fixed-vs-term-index swap with fixings in advance.
func NewVanillaSwap(t Terms, opts ...Option) (*FixedVsFloatingSwap, error) {
	return NewFixedVsFloatingSwap(t, IborFloating{}, opts...)
}

// NewOvernightIndexedSwap is a fixed-vs-compounded-overnight swap.
func NewOvernightIndexedSwap(t Terms, opts ...Option) (*FixedVsFloatingSwap, error) {
	return NewFixedVsFloatingSwap(t, CompoundedFloating{}, opts...)
}

// Side reports whether the fixed leg is paid or received.
func (s *FixedVsFloatingSwap) Side() Side { return s.terms.Side }

// Nominal is the notional of both legs.
func (s *FixedVsFloatingSwap) Nominal() float64 { return s.terms.Nominal }

func (s *FixedVsFloatingSwap) FixedSchedule() *schedule.Schedule    { return s.terms.FixedSchedule }
func (s *FixedVsFloatingSwap) FixedRate() float64                   { return s.terms.FixedRate }
func (s *FixedVsFloatingSwap) FixedDayCount() daycount.Convention   { return s.terms.FixedDayCount }
func (s *FixedVsFloatingSwap) FloatingSchedule() *schedule.Schedule { return s.terms.FloatingSchedule }

// Index is the floating leg index the swap observes.
func (s *FixedVsFloatingSwap) Index() index.InterestRateIndex { return s.terms.Index }

// Spread is added to every floating fixing.
func (s *FixedVsFloatingSwap) Spread() float64 { return s.terms.Spread }

func (s *FixedVsFloatingSwap) FloatingDayCount() daycount.Convention { return s.terms.FloatingDayCount }

// PaymentLag is the number of business days between accrual end and payment.
func (s *FixedVsFloatingSwap) PaymentLag() int { return s.paymentLag }

// Floating is the convention that fills the floating arguments.
func (s *FixedVsFloatingSwap) Floating() Floating { return s.floating }

// Terms returns the terms the swap was built from.
func (s *FixedVsFloatingSwap) Terms() Terms { return s.terms }

// PaymentConvention is the adjustment applied to payment dates.
func (s *FixedVsFloatingSwap) PaymentConvention() calendar.BusinessDayConvention {
	return s.paymentConvention
}

// FixedLeg returns leg 0.
func (s *FixedVsFloatingSwap) FixedLeg() cashflow.Leg { return s.legs[0] }

// FloatingLeg returns leg 1.
func (s *FixedVsFloatingSwap) FloatingLeg() cashflow.Leg { return s.legs[1] }

// Leg NPVs and BPSs are signed by the swap side.

func (s *FixedVsFloatingSwap) FixedLegBPS() (null.Float, error)    { return s.LegBPS(0) }
func (s *FixedVsFloatingSwap) FixedLegNPV() (null.Float, error)    { return s.LegNPV(0) }
func (s *FixedVsFloatingSwap) FloatingLegBPS() (null.Float, error) { return s.LegBPS(1) }
func (s *FixedVsFloatingSwap) FloatingLegNPV() (null.Float, error) { return s.LegNPV(1) }

// FairRate is the fixed rate that makes the swap worth zero. It is null
// when the engine did not compute it or the fixed leg BPS is negligible.
func (s *FixedVsFloatingSwap) FairRate() (null.Float, error) {
	if err := s.Calculate(); err != nil {
		return null.Float{}, err
	}
	return s.fairRate, nil
}

// FairSpread is the floating spread that makes the swap worth zero, with
// the same null cases as FairRate.
func (s *FixedVsFloatingSwap) FairSpread() (null.Float, error) {
	if err := s.Calculate(); err != nil {
		return null.Float{}, err
	}
	return s.fairSpread, nil
}

// SetupExpired zeroes the swap results and nulls the fair values.
func (s *FixedVsFloatingSwap) SetupExpired() {
	s.Swap.SetupExpired()
	s.fairRate = null.Float{}
	s.fairSpread = null.Float{}
}

// SetupArguments fills the fixed-leg fields and delegates the floating ones.
func (s *FixedVsFloatingSwap) SetupArguments(args pricing.Arguments) error {
	a, ok := args.(*Arguments)
	if !ok {
		return fmt.Errorf("SetupArguments: %T: %w", args, ErrArgumentTypeMismatch)
	}
	if err := s.Swap.SetupArguments(a); err != nil {
		return err
	}

	a.Side = s.terms.Side
	a.Nominal = null.FloatFrom(s.terms.Nominal)
	a.FixedRate = null.FloatFrom(s.terms.FixedRate)
	a.Spread = null.FloatFrom(s.terms.Spread)

	fixed := s.FixedLeg()
	a.FixedResetDates = make([]time.Time, len(fixed))
	a.FixedPayDates = make([]time.Time, len(fixed))
	a.FixedCoupons = make([]float64, len(fixed))
	for i, cf := range fixed {
		c, err := cashflow.AsCoupon(cf)
		if err != nil {
			return fmt.Errorf("SetupArguments: fixed leg: %w", err)
		}
		amount, err := c.Amount()
		if err != nil {
			return fmt.Errorf("SetupArguments: fixed coupon %d: %w", i, err)
		}
		a.FixedResetDates[i] = c.AccrualStartDate()
		a.FixedPayDates[i] = c.Date()
		a.FixedCoupons[i] = amount
	}

	if err := s.floating.SetupArguments(s.FloatingLeg(), a); err != nil {
		return fmt.Errorf("SetupArguments: floating leg: %w", err)
	}
	return nil
}

// FetchResults reads the swap results and the fair values. Fair values the
// engine did not write stay null.
func (s *FixedVsFloatingSwap) FetchResults(r pricing.Results) error {
	if err := s.Swap.FetchResults(r); err != nil {
		return err
	}
	res, ok := r.(*Results)
	if !ok {
		return fmt.Errorf("FetchResults: %T: %w", r, ErrResultTypeMismatch)
	}
	s.fairRate = res.FairRate
	s.fairSpread = res.FairSpread
	return nil
}
