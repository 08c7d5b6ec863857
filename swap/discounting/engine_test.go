package discounting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/cashflow"
	"github.com/meenmo/swaplib/config"
	"github.com/meenmo/swaplib/curve"
	"github.com/meenmo/swaplib/daycount"
	"github.com/meenmo/swaplib/index"
	"github.com/meenmo/swaplib/schedule"
	"github.com/meenmo/swaplib/swap"
	"github.com/meenmo/swaplib/swap/discounting"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var ref = date(2025, time.January, 6)

func newSwap(t *testing.T, h *curve.Handle) *swap.FixedVsFloatingSwap {
	t.Helper()
	prev := config.GetConfig()
	t.Cleanup(func() { config.SetConfig(prev) })
	config.SetEvaluationDate(ref)

	s, err := schedule.New(schedule.Params{
		Effective:   ref,
		Termination: date(2028, time.January, 6),
		Tenor:       calendar.SixMonths,
		Calendar:    calendar.WeekendsOnly,
		Convention:  calendar.Following,
	})
	require.NoError(t, err)
	idx := index.NewIborIndex(index.Params{
		FamilyName: "TESTIBOR",
		Tenor:      calendar.SixMonths,
		Calendar:   calendar.WeekendsOnly,
		DayCounter: daycount.Act360,
	}, h)
	sw, err := swap.NewVanillaSwap(swap.Terms{
		Side:             swap.Payer,
		Nominal:          1_000_000,
		FixedSchedule:    s,
		FixedRate:        0.025,
		FixedDayCount:    daycount.Thirty360,
		FloatingSchedule: s,
		Index:            idx,
		FloatingDayCount: daycount.Act360,
	})
	require.NoError(t, err)
	return sw
}

func TestEngine_EmptyCurve(t *testing.T) {
	h := curve.NewHandle(nil)
	sw := newSwap(t, h)
	sw.SetPricingEngine(discounting.NewEngine(h))

	_, err := sw.NPV()
	assert.ErrorIs(t, err, curve.ErrEmptyHandle)
	assert.False(t, sw.Calculated())

	h.Link(curve.NewFlatForward(ref, 0.02, daycount.Act365F))
	npv, err := sw.NPV()
	require.NoError(t, err)
	assert.False(t, npv.IsNull())
}

func TestEngine_LegResults(t *testing.T) {
	yc := curve.NewFlatForward(ref, 0.02, daycount.Act365F)
	h := curve.NewHandle(yc)
	sw := newSwap(t, h)
	sw.SetPricingEngine(discounting.NewEngine(h))

	fixedNPV, err := sw.FixedLegNPV()
	require.NoError(t, err)
	want, err := cashflow.NPV(sw.FixedLeg(), yc, false, ref, ref)
	require.NoError(t, err)
	assert.InDelta(t, -want, fixedNPV.Or(0), 1e-9)

	fixedBPS, err := sw.FixedLegBPS()
	require.NoError(t, err)
	assert.InDelta(t, -cashflow.BPS(sw.FixedLeg(), yc, false, ref, ref), fixedBPS.Or(0), 1e-12)

	start, err := sw.StartDiscounts(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, start.Or(0))
	end, err := sw.EndDiscounts(1)
	require.NoError(t, err)
	assert.InDelta(t, yc.Discount(date(2028, time.January, 6)), end.Or(0), 1e-15)

	npvDate, err := sw.NPVDateDiscount()
	require.NoError(t, err)
	assert.Equal(t, 1.0, npvDate.Or(0))
	valuation, err := sw.ValuationDate()
	require.NoError(t, err)
	assert.Equal(t, ref, valuation)
}

func TestEngine_NPVDate(t *testing.T) {
	yc := curve.NewFlatForward(ref, 0.02, daycount.Act365F)
	h := curve.NewHandle(yc)
	sw := newSwap(t, h)

	sw.SetPricingEngine(discounting.NewEngine(h))
	spot, err := sw.NPV()
	require.NoError(t, err)
	spotRate, err := sw.FairRate()
	require.NoError(t, err)

	later := date(2025, time.January, 8)
	sw.SetPricingEngine(discounting.NewEngine(h, discounting.WithNPVDate(later)))
	fwd, err := sw.NPV()
	require.NoError(t, err)
	assert.InDelta(t, spot.Or(0)/yc.Discount(later), fwd.Or(0), 1e-8)

	fwdRate, err := sw.FairRate()
	require.NoError(t, err)
	assert.InDelta(t, spotRate.Or(0), fwdRate.Or(1), 1e-14, "fair rate does not depend on the NPV date")

	valuation, err := sw.ValuationDate()
	require.NoError(t, err)
	assert.Equal(t, later, valuation)
}

func TestEngine_SettlementDate(t *testing.T) {
	yc := curve.NewFlatForward(ref, 0.02, daycount.Act365F)
	h := curve.NewHandle(yc)
	sw := newSwap(t, h)

	firstPay := sw.FixedLeg()[0].Date()
	sw.SetPricingEngine(discounting.NewEngine(h,
		discounting.WithSettlementDate(firstPay),
		discounting.WithNPVDate(firstPay),
		discounting.WithSettlementDateFlows(false)))

	fixedNPV, err := sw.FixedLegNPV()
	require.NoError(t, err)
	rest, err := cashflow.NPV(sw.FixedLeg()[1:], yc, false, ref, firstPay)
	require.NoError(t, err)
	assert.InDelta(t, -rest, fixedNPV.Or(0), 1e-9)

	sw.SetPricingEngine(discounting.NewEngine(h,
		discounting.WithSettlementDate(firstPay),
		discounting.WithNPVDate(firstPay),
		discounting.WithSettlementDateFlows(true)))
	withFirst, err := sw.FixedLegNPV()
	require.NoError(t, err)
	assert.Less(t, withFirst.Or(0), fixedNPV.Or(0), "the first coupon is paid on settlement and counted")
}

func TestEngine_DatesBeforeReference(t *testing.T) {
	h := curve.NewHandle(curve.NewFlatForward(ref, 0.02, daycount.Act365F))
	sw := newSwap(t, h)

	sw.SetPricingEngine(discounting.NewEngine(h, discounting.WithNPVDate(ref.AddDate(0, 0, -1))))
	_, err := sw.NPV()
	assert.ErrorIs(t, err, curve.ErrBeforeReference)

	sw.SetPricingEngine(discounting.NewEngine(h, discounting.WithSettlementDate(ref.AddDate(0, 0, -1))))
	_, err = sw.NPV()
	assert.ErrorIs(t, err, curve.ErrBeforeReference)
}

func TestEngine_ObservesCurve(t *testing.T) {
	h := curve.NewHandle(curve.NewFlatForward(ref, 0.02, daycount.Act365F))
	e := discounting.NewEngine(h)
	assert.Same(t, h, e.DiscountCurve())
	assert.Equal(t, 1, h.ObserverCount())

	sw := newSwap(t, curve.NewHandle(curve.NewFlatForward(ref, 0.02, daycount.Act365F)))
	sw.SetPricingEngine(e)
	_, err := sw.NPV()
	require.NoError(t, err)
	require.True(t, sw.Calculated())

	h.Link(curve.NewFlatForward(ref, 0.03, daycount.Act365F))
	assert.False(t, sw.Calculated())
}
