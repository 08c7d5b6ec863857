package swap

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/swaplib/cashflow"
	"github.com/meenmo/swaplib/config"
	"github.com/meenmo/swaplib/null"
	"github.com/meenmo/swaplib/pricing"
)

var (
	// ErrArgumentTypeMismatch is returned when an engine hands the swap
	// arguments of another instrument family.
	ErrArgumentTypeMismatch = errors.New("wrong argument type")
	// ErrResultTypeMismatch is returned for results of another instrument family.
	ErrResultTypeMismatch = errors.New("wrong result type")
	// ErrInvalidArguments is returned by Validate.
	ErrInvalidArguments = errors.New("invalid swap arguments")
	// ErrNoSuchLeg is returned for a leg index out of range.
	ErrNoSuchLeg = errors.New("no such leg")
)

// Swap is an instrument exchanging the cash flows of its legs. A leg flagged
// as payer enters the NPV with a negative sign.
type Swap struct {
	pricing.Instrument
	self pricing.Pricer

	legs  []cashflow.Leg
	payer []float64

	legNPV          []null.Float
	legBPS          []null.Float
	startDiscounts  []null.Float
	endDiscounts    []null.Float
	npvDateDiscount null.Float
}

// NewSwap returns a generic swap; payer[i] reports whether legs[i] is paid.
func NewSwap(legs []cashflow.Leg, payer []bool) (*Swap, error) {
	if len(legs) != len(payer) {
		return nil, fmt.Errorf("NewSwap: %d legs, %d payer flags: %w", len(legs), len(payer), ErrInvalidArguments)
	}
	s := &Swap{}
	s.init(s, legs, payer)
	return s, nil
}

// init sets the legs and the Pricer that Calculate dispatches to.
func (s *Swap) init(self pricing.Pricer, legs []cashflow.Leg, payer []bool) {
	s.self = self
	s.legs = legs
	s.payer = make([]float64, len(payer))
	for i, p := range payer {
		s.payer[i] = 1
		if p {
			s.payer[i] = -1
		}
	}
	n := len(legs)
	s.legNPV = make([]null.Float, n)
	s.legBPS = make([]null.Float, n)
	s.startDiscounts = make([]null.Float, n)
	s.endDiscounts = make([]null.Float, n)
}

// Calculate prices the swap unless the cached results are current.
func (s *Swap) Calculate() error {
	return s.Instrument.Calculate(s.self)
}

// Recalculate forces a pricing pass.
func (s *Swap) Recalculate() error {
	return s.Instrument.Recalculate(s.self)
}

func (s *Swap) NumLegs() int { return len(s.legs) }

// Leg returns the j-th leg.
func (s *Swap) Leg(j int) (cashflow.Leg, error) {
	if err := s.checkLeg(j); err != nil {
		return nil, err
	}
	return s.legs[j], nil
}

// Payer reports whether the j-th leg is paid.
func (s *Swap) Payer(j int) (bool, error) {
	if err := s.checkLeg(j); err != nil {
		return false, err
	}
	return s.payer[j] < 0, nil
}

func (s *Swap) checkLeg(j int) error {
	if j < 0 || j >= len(s.legs) {
		return fmt.Errorf("leg %d of %d: %w", j, len(s.legs), ErrNoSuchLeg)
	}
	return nil
}

// StartDate is the earliest accrual start across legs.
func (s *Swap) StartDate() (time.Time, error) {
	var d time.Time
	for j, leg := range s.legs {
		t, err := cashflow.StartDate(leg)
		if err != nil {
			return time.Time{}, fmt.Errorf("StartDate: leg %d: %w", j, err)
		}
		if j == 0 || t.Before(d) {
			d = t
		}
	}
	return d, nil
}

// MaturityDate is the latest accrual end across legs.
func (s *Swap) MaturityDate() (time.Time, error) {
	var d time.Time
	for j, leg := range s.legs {
		t, err := cashflow.MaturityDate(leg)
		if err != nil {
			return time.Time{}, fmt.Errorf("MaturityDate: leg %d: %w", j, err)
		}
		if t.After(d) {
			d = t
		}
	}
	return d, nil
}

// IsExpired reports whether every cash flow has been paid as of the
// evaluation date.
func (s *Swap) IsExpired() bool {
	today := config.EvaluationDate()
	include := config.IncludeReferenceDateEvents()
	for _, leg := range s.legs {
		if !cashflow.IsExpired(leg, today, include) {
			return false
		}
	}
	return true
}

// SetupExpired zeroes value, leg NPVs, leg BPSs and discounts.
func (s *Swap) SetupExpired() {
	s.Instrument.SetupExpired()
	zero := null.FloatFrom(0)
	for j := range s.legs {
		s.legNPV[j] = zero
		s.legBPS[j] = zero
		s.startDiscounts[j] = zero
		s.endDiscounts[j] = zero
	}
	s.npvDateDiscount = zero
}

// SetupArguments writes the legs and payer signs.
func (s *Swap) SetupArguments(args pricing.Arguments) error {
	a, ok := args.(interface{ SwapArgs() *SwapArguments })
	if !ok {
		return fmt.Errorf("SetupArguments: %T: %w", args, ErrArgumentTypeMismatch)
	}
	sa := a.SwapArgs()
	sa.Legs = s.legs
	sa.Payer = s.payer
	return nil
}

// FetchResults reads the base and per-leg results. Per-leg results the
// engine did not write are left null.
func (s *Swap) FetchResults(r pricing.Results) error {
	if err := s.Instrument.FetchResults(r); err != nil {
		return err
	}
	sr, ok := r.(interface{ SwapRes() *SwapResults })
	if !ok {
		return fmt.Errorf("FetchResults: %T: %w", r, ErrResultTypeMismatch)
	}
	res := sr.SwapRes()
	n := len(s.legs)
	s.legNPV = copyOrNull(res.LegNPV, n)
	s.legBPS = copyOrNull(res.LegBPS, n)
	s.startDiscounts = copyOrNull(res.StartDiscounts, n)
	s.endDiscounts = copyOrNull(res.EndDiscounts, n)
	s.npvDateDiscount = res.NPVDateDiscount
	return nil
}

func copyOrNull(src []null.Float, n int) []null.Float {
	out := make([]null.Float, n)
	if len(src) == n {
		copy(out, src)
	}
	return out
}

// NPV returns the swap value, pricing it if needed.
func (s *Swap) NPV() (null.Float, error) {
	if err := s.Calculate(); err != nil {
		return null.Float{}, err
	}
	return s.CachedValue(), nil
}

// ValuationDate returns the date the NPV refers to.
func (s *Swap) ValuationDate() (time.Time, error) {
	if err := s.Calculate(); err != nil {
		return time.Time{}, err
	}
	return s.CachedValuationDate(), nil
}

// LegNPV returns the signed NPV of the j-th leg.
func (s *Swap) LegNPV(j int) (null.Float, error) {
	return s.legResult(j, func() []null.Float { return s.legNPV })
}

// LegBPS returns the signed BPS of the j-th leg.
func (s *Swap) LegBPS(j int) (null.Float, error) {
	return s.legResult(j, func() []null.Float { return s.legBPS })
}

// StartDiscounts returns the discount factor at the j-th leg's start date.
func (s *Swap) StartDiscounts(j int) (null.Float, error) {
	return s.legResult(j, func() []null.Float { return s.startDiscounts })
}

// EndDiscounts returns the discount factor at the j-th leg's maturity date.
func (s *Swap) EndDiscounts(j int) (null.Float, error) {
	return s.legResult(j, func() []null.Float { return s.endDiscounts })
}

// NPVDateDiscount returns the discount factor at the NPV date.
func (s *Swap) NPVDateDiscount() (null.Float, error) {
	if err := s.Calculate(); err != nil {
		return null.Float{}, err
	}
	return s.npvDateDiscount, nil
}

// legResult reads the slice after Calculate since FetchResults replaces it.
func (s *Swap) legResult(j int, values func() []null.Float) (null.Float, error) {
	if err := s.checkLeg(j); err != nil {
		return null.Float{}, err
	}
	if err := s.Calculate(); err != nil {
		return null.Float{}, err
	}
	return values()[j], nil
}

// SwapArguments is the engine input shared by every swap.
type SwapArguments struct {
	Legs  []cashflow.Leg
	Payer []float64
}

// SwapArgs gives access to the swap arguments embedded in a family's
// Arguments.
func (a *SwapArguments) SwapArgs() *SwapArguments { return a }

func (a *SwapArguments) Validate() error {
	if len(a.Legs) != len(a.Payer) {
		return fmt.Errorf("Validate: %d legs, %d payer signs: %w", len(a.Legs), len(a.Payer), ErrInvalidArguments)
	}
	return nil
}

// SwapResults is the engine output shared by every swap.
type SwapResults struct {
	pricing.ResultsBase
	LegNPV          []null.Float
	LegBPS          []null.Float
	StartDiscounts  []null.Float
	EndDiscounts    []null.Float
	NPVDateDiscount null.Float
}

// SwapRes gives access to the swap results embedded in a family's Results.
func (r *SwapResults) SwapRes() *SwapResults { return r }

func (r *SwapResults) Reset() {
	r.ResultsBase.Reset()
	r.LegNPV = nil
	r.LegBPS = nil
	r.StartDiscounts = nil
	r.EndDiscounts = nil
	r.NPVDateDiscount = null.Float{}
}
