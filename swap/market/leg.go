package market

import (
	"fmt"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/daycount"
	"github.com/meenmo/swaplib/swap"
)

// ResetPosition indicates fixing timing of a term index.
type ResetPosition string

const (
	ResetInAdvance ResetPosition = "IN_ADVANCE"
	ResetInArrears ResetPosition = "IN_ARREARS"
)

// LegConvention captures the schedule frequency and accrual basis of one leg.
type LegConvention struct {
	Frequency calendar.Period
	DayCount  daycount.Convention
}

// Convention is the standard fixed-vs-floating swap traded against a
// reference rate. Both legs share the calendar, roll and payment lag.
type Convention struct {
	Index                 ReferenceIndex
	Currency              string
	Calendar              calendar.CalendarID
	BusinessDayAdjustment calendar.BusinessDayConvention
	EndOfMonth            bool
	SpotLagDays           int
	PayDelayDays          int
	ResetPosition         ResetPosition
	Fixed                 LegConvention
	Floating              LegConvention
}

// FloatingConvention returns the floating-leg convention for a swap on c.
// Overnight indices compound; term indices reset per ResetPosition.
func (c Convention) FloatingConvention() swap.Floating {
	if IsOvernight(c.Index) {
		return swap.CompoundedFloating{}
	}
	return swap.IborFloating{InArrears: c.ResetPosition == ResetInArrears}
}

// Preset conventions for EUR, JPY, USD and KRW swaps.
var (
	// EUR IRS: annual 30/360 fixed vs EURIBOR 6M.
	IrsEuribor6M = Convention{
		Index:                 EURIBOR6M,
		Currency:              "EUR",
		Calendar:              calendar.TARGET,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		EndOfMonth:            true,
		SpotLagDays:           2,
		ResetPosition:         ResetInAdvance,
		Fixed:                 LegConvention{Frequency: calendar.OneYear, DayCount: daycount.Thirty360},
		Floating:              LegConvention{Frequency: calendar.SixMonths, DayCount: daycount.Act360},
	}

	// EUR IRS: annual 30/360 fixed vs EURIBOR 3M.
	IrsEuribor3M = Convention{
		Index:                 EURIBOR3M,
		Currency:              "EUR",
		Calendar:              calendar.TARGET,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		EndOfMonth:            true,
		SpotLagDays:           2,
		ResetPosition:         ResetInAdvance,
		Fixed:                 LegConvention{Frequency: calendar.OneYear, DayCount: daycount.Thirty360},
		Floating:              LegConvention{Frequency: calendar.ThreeMonths, DayCount: daycount.Act360},
	}

	// EUR OIS: annual ACT/360 both legs, paid one day after the period end.
	OisEstr = Convention{
		Index:                 ESTR,
		Currency:              "EUR",
		Calendar:              calendar.TARGET,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		EndOfMonth:            true,
		SpotLagDays:           2,
		PayDelayDays:          1,
		ResetPosition:         ResetInArrears,
		Fixed:                 LegConvention{Frequency: calendar.OneYear, DayCount: daycount.Act360},
		Floating:              LegConvention{Frequency: calendar.OneYear, DayCount: daycount.Act360},
	}

	// JPY IRS: semiannual ACT/365F fixed vs TIBOR 6M.
	IrsTibor6M = Convention{
		Index:                 TIBOR6M,
		Currency:              "JPY",
		Calendar:              calendar.JPN,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		EndOfMonth:            true,
		SpotLagDays:           2,
		ResetPosition:         ResetInAdvance,
		Fixed:                 LegConvention{Frequency: calendar.SixMonths, DayCount: daycount.Act365F},
		Floating:              LegConvention{Frequency: calendar.SixMonths, DayCount: daycount.Act365F},
	}

	// JPY IRS: semiannual ACT/365F fixed vs TIBOR 3M.
	IrsTibor3M = Convention{
		Index:                 TIBOR3M,
		Currency:              "JPY",
		Calendar:              calendar.JPN,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		EndOfMonth:            true,
		SpotLagDays:           2,
		ResetPosition:         ResetInAdvance,
		Fixed:                 LegConvention{Frequency: calendar.SixMonths, DayCount: daycount.Act365F},
		Floating:              LegConvention{Frequency: calendar.ThreeMonths, DayCount: daycount.Act365F},
	}

	// JPY OIS: annual ACT/365F both legs, paid two days after the period end.
	OisTonar = Convention{
		Index:                 TONAR,
		Currency:              "JPY",
		Calendar:              calendar.JPN,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		EndOfMonth:            true,
		SpotLagDays:           2,
		PayDelayDays:          2,
		ResetPosition:         ResetInArrears,
		Fixed:                 LegConvention{Frequency: calendar.OneYear, DayCount: daycount.Act365F},
		Floating:              LegConvention{Frequency: calendar.OneYear, DayCount: daycount.Act365F},
	}

	// USD OIS: annual ACT/360 both legs, paid two days after the period end.
	OisSofr = Convention{
		Index:                 SOFR,
		Currency:              "USD",
		Calendar:              calendar.USD,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		EndOfMonth:            true,
		SpotLagDays:           2,
		PayDelayDays:          2,
		ResetPosition:         ResetInArrears,
		Fixed:                 LegConvention{Frequency: calendar.OneYear, DayCount: daycount.Act360},
		Floating:              LegConvention{Frequency: calendar.OneYear, DayCount: daycount.Act360},
	}

	// KRW IRS: quarterly ACT/365F fixed vs CD 91-day, T+1.
	IrsCD91 = Convention{
		Index:                 CD91D,
		Currency:              "KRW",
		Calendar:              calendar.KRW,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		SpotLagDays:           1,
		ResetPosition:         ResetInAdvance,
		Fixed:                 LegConvention{Frequency: calendar.ThreeMonths, DayCount: daycount.Act365F},
		Floating:              LegConvention{Frequency: calendar.ThreeMonths, DayCount: daycount.Act365F},
	}
)

var conventions = map[ReferenceIndex]Convention{
	EURIBOR6M: IrsEuribor6M,
	EURIBOR3M: IrsEuribor3M,
	ESTR:      OisEstr,
	TIBOR6M:   IrsTibor6M,
	TIBOR3M:   IrsTibor3M,
	TONAR:     OisTonar,
	SOFR:      OisSofr,
	CD91D:     IrsCD91,
}

// ConventionFor returns the preset traded against r.
func ConventionFor(r ReferenceIndex) (Convention, error) {
	c, ok := conventions[r]
	if !ok {
		return Convention{}, fmt.Errorf("ConventionFor: %q: %w", r, ErrUnknownIndex)
	}
	return c, nil
}
