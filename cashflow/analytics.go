package cashflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/swaplib/curve"
	"github.com/meenmo/swaplib/utils"
)

// BasisPoint is one basis point in decimal.
const BasisPoint = 1e-4

// ErrEmptyLeg is returned when a leg without cash flows is queried for dates.
var ErrEmptyLeg = errors.New("empty leg")

// HasOccurred reports whether cf is paid by ref. With includeRefDate, a
// flow paid on ref itself has not occurred yet.
func HasOccurred(cf CashFlow, ref time.Time, includeRefDate bool) bool {
	if includeRefDate {
		return cf.Date().Before(ref)
	}
	return !cf.Date().After(ref)
}

// IsExpired reports whether every flow of the leg has occurred by ref.
func IsExpired(leg Leg, ref time.Time, includeRefDate bool) bool {
	for _, cf := range leg {
		if !HasOccurred(cf, ref, includeRefDate) {
			return false
		}
	}
	return true
}

// StartDate is the earliest accrual start (payment date for bare flows).
func StartDate(leg Leg) (time.Time, error) {
	if len(leg) == 0 {
		return time.Time{}, fmt.Errorf("StartDate: %w", ErrEmptyLeg)
	}
	var d time.Time
	for i, cf := range leg {
		t := cf.Date()
		if c, ok := cf.(Coupon); ok {
			t = c.AccrualStartDate()
		}
		if i == 0 || t.Before(d) {
			d = t
		}
	}
	return d, nil
}

// MaturityDate is the latest accrual end (payment date for bare flows).
func MaturityDate(leg Leg) (time.Time, error) {
	if len(leg) == 0 {
		return time.Time{}, fmt.Errorf("MaturityDate: %w", ErrEmptyLeg)
	}
	var d time.Time
	for _, cf := range leg {
		t := cf.Date()
		if c, ok := cf.(Coupon); ok {
			t = c.AccrualEndDate()
		}
		if t.After(d) {
			d = t
		}
	}
	return d, nil
}

// Coupons returns the coupons of the leg, skipping bare cash flows.
func Coupons(leg Leg) []Coupon {
	out := make([]Coupon, 0, len(leg))
	for _, cf := range leg {
		if c, ok := cf.(Coupon); ok {
			out = append(out, c)
		}
	}
	return out
}

// NPVBPS returns the leg NPV and its BPS (value of one basis point on the
// coupon rates), both as of npvDate. Flows that occurred by settlementDate
// are skipped. Zero dates default to the curve reference date, npvDate
// to settlementDate.
func NPVBPS(leg Leg, yc curve.YieldCurve, includeSettlementDateFlows bool, settlementDate, npvDate time.Time) (npv, bps float64, err error) {
	if len(leg) == 0 {
		return 0, 0, nil
	}
	if settlementDate.IsZero() {
		settlementDate = yc.ReferenceDate()
	}
	if npvDate.IsZero() {
		npvDate = settlementDate
	}
	for _, cf := range leg {
		if HasOccurred(cf, settlementDate, includeSettlementDateFlows) {
			continue
		}
		amount, err := cf.Amount()
		if err != nil {
			return 0, 0, fmt.Errorf("NPVBPS: flow on %s: %w", cf.Date().Format(utils.DateLayout), err)
		}
		df := yc.Discount(cf.Date())
		npv += amount * df
		if c, ok := cf.(Coupon); ok {
			bps += c.Nominal() * c.AccrualPeriod() * df
		}
	}
	d := yc.Discount(npvDate)
	return npv / d, BasisPoint * bps / d, nil
}

// NPV returns the leg NPV as of npvDate.
func NPV(leg Leg, yc curve.YieldCurve, includeSettlementDateFlows bool, settlementDate, npvDate time.Time) (float64, error) {
	npv, _, err := NPVBPS(leg, yc, includeSettlementDateFlows, settlementDate, npvDate)
	return npv, err
}

// BPS returns the value of one basis point on the leg's coupon rates.
// Unlike NPV it needs no fixings.
func BPS(leg Leg, yc curve.YieldCurve, includeSettlementDateFlows bool, settlementDate, npvDate time.Time) float64 {
	if len(leg) == 0 {
		return 0
	}
	if settlementDate.IsZero() {
		settlementDate = yc.ReferenceDate()
	}
	if npvDate.IsZero() {
		npvDate = settlementDate
	}
	bps := 0.0
	for _, c := range Coupons(leg) {
		if HasOccurred(c, settlementDate, includeSettlementDateFlows) {
			continue
		}
		bps += c.Nominal() * c.AccrualPeriod() * yc.Discount(c.Date())
	}
	return BasisPoint * bps / yc.Discount(npvDate)
}

// AccruedAmount sums the amounts accrued by settlementDate on unpaid coupons.
func AccruedAmount(leg Leg, settlementDate time.Time) (float64, error) {
	total := 0.0
	for _, c := range Coupons(leg) {
		a, err := c.AccruedAmount(settlementDate)
		if err != nil {
			return 0, fmt.Errorf("AccruedAmount: %w", err)
		}
		total += a
	}
	return total, nil
}
