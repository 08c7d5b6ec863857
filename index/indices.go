package index

import (
	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/curve"
	"github.com/meenmo/swaplib/daycount"
)

// Euribor returns EURIBOR for the given tenor: TARGET, T+2, ACT/360,
// Modified Following with end-of-month rolls.
func Euribor(tenor calendar.Period, h *curve.Handle) *IborIndex {
	return NewIborIndex(Params{
		FamilyName: "EURIBOR",
		Tenor:      tenor,
		FixingDays: 2,
		Currency:   "EUR",
		Calendar:   calendar.TARGET,
		Convention: calendar.ModifiedFollowing,
		EndOfMonth: true,
		DayCounter: daycount.Act360,
	}, h)
}

// Tibor returns JPY TIBOR: Tokyo calendar, T+2, ACT/365F.
func Tibor(tenor calendar.Period, h *curve.Handle) *IborIndex {
	return NewIborIndex(Params{
		FamilyName: "TIBOR",
		Tenor:      tenor,
		FixingDays: 2,
		Currency:   "JPY",
		Calendar:   calendar.JPN,
		Convention: calendar.ModifiedFollowing,
		DayCounter: daycount.Act365F,
	}, h)
}

// CD91 returns the KRW 91-day certificate of deposit rate, fixed one
// business day before the accrual start.
func CD91(h *curve.Handle) *IborIndex {
	return NewIborIndex(Params{
		FamilyName: "CD",
		Tenor:      calendar.ThreeMonths,
		FixingDays: 1,
		Currency:   "KRW",
		Calendar:   calendar.KRW,
		Convention: calendar.ModifiedFollowing,
		DayCounter: daycount.Act365F,
	}, h)
}

// Estr returns the euro short-term rate.
func Estr(h *curve.Handle) OvernightIndex {
	return NewOvernightIndex(Params{
		FamilyName: "ESTR",
		Currency:   "EUR",
		Calendar:   calendar.TARGET,
		DayCounter: daycount.Act360,
	}, h)
}

// Tonar returns the Tokyo overnight average rate.
func Tonar(h *curve.Handle) OvernightIndex {
	return NewOvernightIndex(Params{
		FamilyName: "TONAR",
		Currency:   "JPY",
		Calendar:   calendar.JPN,
		DayCounter: daycount.Act365F,
	}, h)
}

// Sofr returns the secured overnight financing rate.
func Sofr(h *curve.Handle) OvernightIndex {
	return NewOvernightIndex(Params{
		FamilyName: "SOFR",
		Currency:   "USD",
		Calendar:   calendar.USD,
		DayCounter: daycount.Act360,
	}, h)
}
