package calendar

import (
	"time"

	"github.com/meenmo/swaplib/utils"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	TARGET CalendarID = "TARGET"
	JPN    CalendarID = "JPN"
	USD    CalendarID = "USD"
	KRW    CalendarID = "KRW"

	// WeekendsOnly treats every weekday as a business day.
	WeekendsOnly CalendarID = "WEEKENDS"
	// Null treats every day, weekends included, as a business day.
	Null CalendarID = "NULL"
)

// holidays holds explicitly registered holidays per calendar. TARGET also
// applies its rule-based closing days on top of this set.
var holidays = map[CalendarID]map[string]struct{}{
	TARGET: {},
	JPN:    {},
	USD:    {},
	KRW:    {},
}

// AddHoliday registers t as a holiday on cal.
func AddHoliday(cal CalendarID, t time.Time) {
	set, ok := holidays[cal]
	if !ok {
		set = make(map[string]struct{})
		holidays[cal] = set
	}
	set[t.Format(utils.DateLayout)] = struct{}{}
}

// RemoveHoliday removes a previously registered holiday from cal.
func RemoveHoliday(cal CalendarID, t time.Time) {
	delete(holidays[cal], t.Format(utils.DateLayout))
}

func isHoliday(cal CalendarID, t time.Time) bool {
	if cal == TARGET && isTargetClosing(t) {
		return true
	}
	set, ok := holidays[cal]
	if !ok {
		return false
	}
	_, found := set[t.Format(utils.DateLayout)]
	return found
}

// isTargetClosing applies the TARGET2 closing-day rules.
func isTargetClosing(t time.Time) bool {
	y, m, d := t.Date()
	easter := easterSunday(y)
	switch {
	case m == time.January && d == 1:
		return true
	case y >= 2000 && t.Equal(easter.AddDate(0, 0, -2)):
		return true
	case y >= 2000 && t.Equal(easter.AddDate(0, 0, 1)):
		return true
	case y >= 2000 && m == time.May && d == 1:
		return true
	case m == time.December && d == 25:
		return true
	case y >= 2000 && m == time.December && d == 26:
		return true
	}
	return false
}

// easterSunday uses the anonymous Gregorian algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if cal == Null {
		return true
	}
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AdjustPreceding applies a simple Preceding convention.
func AdjustPreceding(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AdjustWith rolls t onto a business day according to conv.
func AdjustWith(cal CalendarID, t time.Time, conv BusinessDayConvention) time.Time {
	switch conv {
	case Unadjusted:
		return t
	case Following:
		return AdjustFollowing(cal, t)
	case Preceding:
		return AdjustPreceding(cal, t)
	case ModifiedPreceding:
		adj := AdjustPreceding(cal, t)
		if adj.Month() != t.Month() {
			return AdjustFollowing(cal, t)
		}
		return adj
	default:
		return Adjust(cal, t)
	}
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// Advance moves t by p. Day periods count business days; longer periods
// move on the calendar and are then adjusted with conv. With endOfMonth set,
// a t on the last business day of its month lands on the last business day
// of the target month.
func Advance(cal CalendarID, t time.Time, p Period, conv BusinessDayConvention, endOfMonth bool) time.Time {
	switch p.Unit {
	case Days:
		if p.Length == 0 {
			return AdjustWith(cal, t, conv)
		}
		return AddBusinessDays(cal, t, p.Length)
	case Weeks:
		return AdjustWith(cal, t.AddDate(0, 0, 7*p.Length), conv)
	default:
		months, _ := p.Months()
		d := utils.AddMonth(t, months)
		if endOfMonth && IsEndOfMonth(cal, t) {
			return LastBusinessDayOfMonth(cal, d)
		}
		return AdjustWith(cal, d, conv)
	}
}

// BusinessDaysBetween counts business days in [from, to).
func BusinessDaysBetween(cal CalendarID, from, to time.Time) int {
	n := 0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(cal, d) {
			n++
		}
	}
	return n
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal CalendarID, t time.Time) time.Time {
	return AdjustPreceding(cal, utils.EndOfMonth(t))
}

// IsEndOfMonth checks if t is the last business day of its month.
func IsEndOfMonth(cal CalendarID, t time.Time) bool {
	return t.Equal(LastBusinessDayOfMonth(cal, t))
}
