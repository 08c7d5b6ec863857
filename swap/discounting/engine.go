// Package discounting prices fixed-vs-floating swaps by discounting the
// projected cash flows of each leg on a single curve.
package discounting

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/meenmo/swaplib/cashflow"
	"github.com/meenmo/swaplib/config"
	"github.com/meenmo/swaplib/curve"
	"github.com/meenmo/swaplib/null"
	"github.com/meenmo/swaplib/swap"
	"github.com/meenmo/swaplib/utils"
)

// Engine discounts every leg on the linked curve and derives the fair
// rate and fair spread from the signed leg BPS.
type Engine struct {
	swap.Engine
	discount *curve.Handle

	settlementDate time.Time
	npvDate        time.Time
	// includeSettlementDateFlows defaults to config.IncludeReferenceDateEvents.
	includeSettlementDateFlows *bool
}

// Option customises an Engine.
type Option func(*Engine)

// WithSettlementDate sets the date before which cash flows are ignored.
// It defaults to the curve reference date.
func WithSettlementDate(d time.Time) Option {
	return func(e *Engine) { e.settlementDate = utils.Date(d) }
}

// WithNPVDate sets the date NPVs are discounted to. It defaults to the curve
// reference date.
func WithNPVDate(d time.Time) Option {
	return func(e *Engine) { e.npvDate = utils.Date(d) }
}

// WithSettlementDateFlows decides whether flows paid on the settlement date count.
func WithSettlementDateFlows(include bool) Option {
	return func(e *Engine) { e.includeSettlementDateFlows = &include }
}

// NewEngine returns an engine discounting on h. Relinking h invalidates
// every swap priced by the engine.
func NewEngine(h *curve.Handle, opts ...Option) *Engine {
	e := &Engine{Engine: swap.NewEngine(), discount: h}
	for _, opt := range opts {
		opt(e)
	}
	if h != nil {
		h.Register(e)
	}
	return e
}

// DiscountCurve returns the discounting handle.
func (e *Engine) DiscountCurve() *curve.Handle { return e.discount }

// Calculate fills the results from the current arguments.
func (e *Engine) Calculate() error {
	yc, err := e.discount.Current()
	if err != nil {
		return fmt.Errorf("discounting: %w", err)
	}
	args, res := e.Args, e.Res

	ref := yc.ReferenceDate()
	settlement := e.settlementDate
	if settlement.IsZero() {
		settlement = ref
	}
	if settlement.Before(ref) {
		return fmt.Errorf("discounting: settlement date %s: %w", settlement.Format(utils.DateLayout), curve.ErrBeforeReference)
	}
	npvDate := e.npvDate
	if npvDate.IsZero() {
		npvDate = ref
	}
	if npvDate.Before(ref) {
		return fmt.Errorf("discounting: npv date %s: %w", npvDate.Format(utils.DateLayout), curve.ErrBeforeReference)
	}
	include := config.IncludeReferenceDateEvents()
	if e.includeSettlementDateFlows != nil {
		include = *e.includeSettlementDateFlows
	}

	n := len(args.Legs)
	res.ValuationDate = npvDate
	res.NPVDateDiscount = null.FloatFrom(yc.Discount(npvDate))
	res.LegNPV = make([]null.Float, n)
	res.LegBPS = make([]null.Float, n)
	res.StartDiscounts = make([]null.Float, n)
	res.EndDiscounts = make([]null.Float, n)

	total := 0.0
	for i, leg := range args.Legs {
		npv, bps, err := cashflow.NPVBPS(leg, yc, include, settlement, npvDate)
		if err != nil {
			return fmt.Errorf("discounting: leg %d: %w", i, err)
		}
		npv *= args.Payer[i]
		bps *= args.Payer[i]
		res.LegNPV[i] = null.FloatFrom(npv)
		res.LegBPS[i] = null.FloatFrom(bps)
		total += npv

		if len(leg) == 0 {
			continue
		}
		if d, err := cashflow.StartDate(leg); err == nil && !d.Before(ref) {
			res.StartDiscounts[i] = null.FloatFrom(yc.Discount(d))
		}
		if d, err := cashflow.MaturityDate(leg); err == nil && !d.Before(ref) {
			res.EndDiscounts[i] = null.FloatFrom(yc.Discount(d))
		}
	}
	res.Value = null.FloatFrom(total)
	res.ErrorEstimate = null.Float{}

	if n == 2 {
		e.fairValues(total)
	}
	return nil
}

// fairValues solves for the fixed rate and the spread that zero the NPV.
// Leg 0 is the fixed leg and leg 1 the floating leg.
func (e *Engine) fairValues(npv float64) {
	args, res := e.Args, e.Res
	nominal := args.Nominal.Or(0)

	fixedBPS, _ := res.LegBPS[0].Get()
	if rate, ok := args.FixedRate.Get(); ok {
		res.FairRate = swap.FairRate(rate, npv, fixedBPS, nominal)
		if res.FairRate.IsNull() {
			slog.Debug("discounting: negligible fixed leg BPS, fair rate left null", "bps", fixedBPS, "nominal", nominal)
		}
	}

	floatingBPS, _ := res.LegBPS[1].Get()
	if spread, ok := args.Spread.Get(); ok {
		res.FairSpread = swap.FairSpread(spread, npv, floatingBPS, nominal)
		if res.FairSpread.IsNull() {
			slog.Debug("discounting: negligible floating leg BPS, fair spread left null", "bps", floatingBPS, "nominal", nominal)
		}
	}
}
