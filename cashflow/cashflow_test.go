package cashflow_test

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
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func withEvaluationDate(t *testing.T, d time.Time) {
	t.Helper()
	prev := config.GetConfig()
	t.Cleanup(func() { config.SetConfig(prev) })
	config.SetEvaluationDate(d)
}

func semiAnnual(t *testing.T, start, end time.Time) *schedule.Schedule {
	t.Helper()
	s, err := schedule.New(schedule.Params{
		Effective:   start,
		Termination: end,
		Tenor:       calendar.SixMonths,
		Calendar:    calendar.WeekendsOnly,
		Convention:  calendar.Following,
	})
	require.NoError(t, err)
	return s
}

func testIbor(h *curve.Handle) *index.IborIndex {
	return index.NewIborIndex(index.Params{
		FamilyName: "TESTIBOR",
		Tenor:      calendar.SixMonths,
		FixingDays: 2,
		Calendar:   calendar.WeekendsOnly,
		DayCounter: daycount.Act360,
	}, h)
}

func TestFixedLeg(t *testing.T) {
	t.Parallel()

	s := semiAnnual(t, date(2025, time.January, 6), date(2027, time.January, 6))
	leg, err := cashflow.FixedLeg(cashflow.FixedLegParams{
		Schedule:   s,
		Nominal:    1_000_000,
		Rate:       0.03,
		DayCounter: daycount.Thirty360,
	})
	require.NoError(t, err)
	require.Len(t, leg, 4)

	c, err := cashflow.AsCoupon(leg[0])
	require.NoError(t, err)
	amount, err := c.Amount()
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000*0.03*181/360, amount, 1e-9)
	assert.Equal(t, date(2025, time.July, 7), c.Date(), "July 6 2025 is a Sunday")
	assert.Equal(t, s.Date(1), c.AccrualEndDate())

	_, err = cashflow.FixedLeg(cashflow.FixedLegParams{Schedule: s})
	assert.ErrorIs(t, err, cashflow.ErrInvalidLeg)
}

func TestPaymentLag(t *testing.T) {
	t.Parallel()

	s := semiAnnual(t, date(2025, time.January, 6), date(2026, time.January, 6))
	leg, err := cashflow.FixedLeg(cashflow.FixedLegParams{
		Schedule:   s,
		Nominal:    1,
		Rate:       0.01,
		DayCounter: daycount.Act360,
		PaymentLag: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.July, 9), leg[0].Date())
	assert.Equal(t, date(2026, time.January, 8), leg[1].Date())
}

func TestIborLeg_ParForecast(t *testing.T) {
	ref := date(2025, time.January, 6)
	withEvaluationDate(t, ref)

	yc := curve.NewFlatForward(ref, 0.03, daycount.Act365F)
	idx := testIbor(curve.NewHandle(yc))
	s := semiAnnual(t, ref, date(2030, time.January, 7))

	leg, err := cashflow.IborLeg(cashflow.IborLegParams{Schedule: s, Nominal: 10_000_000, Index: idx})
	require.NoError(t, err)

	// The first fixing is two business days before today and must be stored.
	_, err = cashflow.NPV(leg, yc, false, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, index.ErrMissingFixing)

	first := leg[0].(*cashflow.IborCoupon)
	assert.Equal(t, date(2025, time.January, 2), first.FixingDate())
	require.NoError(t, idx.AddFixing(first.FixingDate(), 0.025, false))
	r, err := first.Rate()
	require.NoError(t, err)
	assert.Equal(t, 0.025, r)

	// Forecast coupons telescope: each pays exactly DF(start)/DF(end)-1.
	npv, err := cashflow.NPV(leg[1:], yc, false, time.Time{}, time.Time{})
	require.NoError(t, err)
	want := 10_000_000 * (yc.Discount(s.Date(1)) - yc.Discount(s.EndDate()))
	assert.InDelta(t, want, npv, 1e-6)
}

func TestIborCoupon_InArrears(t *testing.T) {
	ref := date(2025, time.January, 6)
	withEvaluationDate(t, ref)

	yc := curve.NewFlatForward(ref, 0.02, daycount.Act365F)
	idx := testIbor(curve.NewHandle(yc))
	c := cashflow.NewIborCoupon(cashflow.IborCouponParams{
		PaymentDate:  date(2025, time.July, 7),
		Nominal:      100,
		AccrualStart: ref,
		AccrualEnd:   date(2025, time.July, 7),
		DayCounter:   daycount.Act360,
		Index:        idx,
		Spread:       0.001,
		InArrears:    true,
	})
	assert.Equal(t, date(2025, time.July, 3), c.FixingDate())
	assert.True(t, c.IsInArrears())
	assert.Equal(t, 1.0, c.Gearing())

	fixing, err := idx.Forecast(c.FixingDate())
	require.NoError(t, err)
	r, err := c.Rate()
	require.NoError(t, err)
	assert.InDelta(t, fixing+0.001, r, 1e-15)
}

func TestOvernightIndexedCoupon(t *testing.T) {
	today := date(2025, time.January, 8)
	withEvaluationDate(t, today)

	yc := curve.NewFlatForward(today, 0.03, daycount.Act365F)
	on := index.NewOvernightIndex(index.Params{
		FamilyName: "TESTON",
		Calendar:   calendar.WeekendsOnly,
		DayCounter: daycount.Act360,
	}, curve.NewHandle(yc))

	c := cashflow.NewOvernightIndexedCoupon(cashflow.OvernightCouponParams{
		PaymentDate:  date(2025, time.January, 13),
		Nominal:      1_000_000,
		AccrualStart: date(2025, time.January, 6),
		AccrualEnd:   date(2025, time.January, 13),
		DayCounter:   daycount.Act360,
		Index:        on,
	})
	assert.Len(t, c.ValueDates(), 6)
	assert.Equal(t, date(2025, time.January, 10), c.FixingDate())

	_, err := c.Rate()
	assert.ErrorIs(t, err, index.ErrMissingFixing)

	require.NoError(t, on.AddFixing(date(2025, time.January, 6), 0.030, false))
	require.NoError(t, on.AddFixing(date(2025, time.January, 7), 0.031, false))

	r, err := c.Rate()
	require.NoError(t, err)
	factor := (1 + 0.030/360) * (1 + 0.031/360) * yc.Discount(today) / yc.Discount(date(2025, time.January, 13))
	assert.InDelta(t, (factor-1)/(7.0/360), r, 1e-14)

	amount, err := c.Amount()
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000*r*7/360, amount, 1e-9)

	// Today's fixing, once published, replaces the forecast for that day.
	require.NoError(t, on.AddFixing(today, 0.05, false))
	r2, err := c.Rate()
	require.NoError(t, err)
	assert.Greater(t, r2, r)
}

func TestOvernightLeg_FullyForecast(t *testing.T) {
	ref := date(2025, time.January, 6)
	withEvaluationDate(t, ref)

	yc := curve.NewFlatForward(ref, 0.04, daycount.Act365F)
	on := index.NewOvernightIndex(index.Params{
		FamilyName: "TESTON",
		Calendar:   calendar.WeekendsOnly,
		DayCounter: daycount.Act360,
	}, curve.NewHandle(yc))
	s := semiAnnual(t, date(2025, time.January, 7), date(2026, time.January, 7))

	leg, err := cashflow.OvernightLeg(cashflow.OvernightLegParams{Schedule: s, Nominal: 1_000_000, Index: on})
	require.NoError(t, err)

	npv, err := cashflow.NPV(leg, yc, false, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000*(yc.Discount(s.StartDate())-yc.Discount(s.EndDate())), npv, 1e-6)
}

func TestAnalytics(t *testing.T) {
	t.Parallel()

	ref := date(2025, time.January, 6)
	yc := curve.NewFlatForward(ref, 0.03, daycount.Act365F)
	s := semiAnnual(t, ref, date(2026, time.January, 6))
	leg, err := cashflow.FixedLeg(cashflow.FixedLegParams{
		Schedule:   s,
		Nominal:    1_000_000,
		Rate:       0.04,
		DayCounter: daycount.Act360,
	})
	require.NoError(t, err)

	start, err := cashflow.StartDate(leg)
	require.NoError(t, err)
	assert.Equal(t, ref, start)
	end, err := cashflow.MaturityDate(leg)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 6), end)
	_, err = cashflow.StartDate(nil)
	assert.ErrorIs(t, err, cashflow.ErrEmptyLeg)

	pay := leg[0].Date()
	assert.True(t, cashflow.HasOccurred(leg[0], pay, false))
	assert.False(t, cashflow.HasOccurred(leg[0], pay, true))
	assert.False(t, cashflow.IsExpired(leg, pay, false))
	assert.True(t, cashflow.IsExpired(leg, end.AddDate(0, 0, 1), true))

	npv, bps, err := cashflow.NPVBPS(leg, yc, false, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.InDelta(t, npv, bps/cashflow.BasisPoint*0.04, 1e-6, "fixed leg NPV is rate times annuity")
	assert.InDelta(t, bps, cashflow.BPS(leg, yc, false, time.Time{}, time.Time{}), 1e-12)

	// From the first payment date on, only the second coupon remains.
	second, err := cashflow.NPV(leg[1:], yc, false, time.Time{}, pay)
	require.NoError(t, err)
	after, err := cashflow.NPV(leg, yc, false, pay, pay)
	require.NoError(t, err)
	assert.InDelta(t, second, after, 1e-9)

	// Half-way accrual on the first coupon.
	mid := ref.AddDate(0, 0, 90)
	accrued, err := cashflow.AccruedAmount(leg, mid)
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000*0.04*90/360, accrued, 1e-9)

	_, err = cashflow.AsCoupon(cashflow.NewSimpleCashFlow(ref, 1))
	assert.ErrorIs(t, err, cashflow.ErrNotCoupon)
	assert.Len(t, cashflow.Coupons(append(leg, cashflow.NewSimpleCashFlow(end, 1_000_000))), 2)
}
