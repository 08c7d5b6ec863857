package swap

import (
	"math"

	"github.com/meenmo/swaplib/cashflow"
	"github.com/meenmo/swaplib/config"
	"github.com/meenmo/swaplib/null"
)

// FairRate is the fixed rate that zeroes npv: fixedRate - npv/(fixedLegBPS/1bp).
// fixedLegBPS is signed as the leg enters the swap. The result is null when
// the BPS is negligible relative to the nominal.
func FairRate(fixedRate, npv, fixedLegBPS, nominal float64) null.Float {
	return solve(fixedRate, npv, fixedLegBPS, nominal)
}

// FairSpread is the floating spread that zeroes npv:
// spread - npv/(floatingLegBPS/1bp), null on a negligible BPS.
func FairSpread(spread, npv, floatingLegBPS, nominal float64) null.Float {
	return solve(spread, npv, floatingLegBPS, nominal)
}

func solve(current, npv, bps, nominal float64) null.Float {
	if Degenerate(bps, nominal) {
		return null.Float{}
	}
	return null.FloatFrom(current - npv/(bps/cashflow.BasisPoint))
}

// Degenerate reports whether a leg BPS is too small to solve against.
func Degenerate(bps, nominal float64) bool {
	if math.IsNaN(bps) {
		return true
	}
	return math.Abs(bps) <= config.SensitivityTolerance()*math.Max(1, math.Abs(nominal))
}
