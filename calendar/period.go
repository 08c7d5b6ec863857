package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeUnit is the unit of a Period.
type TimeUnit int

const (
	Days TimeUnit = iota
	Weeks
	Months
	Years
)

// Period is a tenor such as 1D, 2W, 6M or 10Y.
type Period struct {
	Length int
	Unit   TimeUnit
}

// Common tenors.
var (
	OneDay      = Period{1, Days}
	OneMonth    = Period{1, Months}
	ThreeMonths = Period{3, Months}
	SixMonths   = Period{6, Months}
	OneYear     = Period{1, Years}
)

// ParsePeriod converts tenor strings like "1W", "3M", "10Y" or "2D".
func ParsePeriod(tenor string) (Period, error) {
	tenor = strings.TrimSpace(strings.ToUpper(tenor))
	if len(tenor) < 2 {
		return Period{}, fmt.Errorf("ParsePeriod: invalid tenor %q", tenor)
	}
	n, err := strconv.Atoi(tenor[:len(tenor)-1])
	if err != nil {
		return Period{}, fmt.Errorf("ParsePeriod: invalid tenor %q: %w", tenor, err)
	}
	switch tenor[len(tenor)-1] {
	case 'D':
		return Period{n, Days}, nil
	case 'W':
		return Period{n, Weeks}, nil
	case 'M':
		return Period{n, Months}, nil
	case 'Y':
		return Period{n, Years}, nil
	}
	return Period{}, fmt.Errorf("ParsePeriod: unknown unit in %q", tenor)
}

// Months returns the period length in months when it is month or year based.
func (p Period) Months() (int, bool) {
	switch p.Unit {
	case Months:
		return p.Length, true
	case Years:
		return 12 * p.Length, true
	default:
		return 0, false
	}
}

// IsZero reports whether the period has zero length.
func (p Period) IsZero() bool {
	return p.Length == 0
}

func (p Period) String() string {
	unit := "D"
	switch p.Unit {
	case Weeks:
		unit = "W"
	case Months:
		unit = "M"
	case Years:
		unit = "Y"
	}
	return strconv.Itoa(p.Length) + unit
}
