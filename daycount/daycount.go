package daycount

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/swaplib/utils"
)

// Convention names a day count convention.
type Convention string

const (
	Act360     Convention = "ACT/360"
	Act365F    Convention = "ACT/365F"
	ActActISDA Convention = "ACT/ACT"
	Thirty360  Convention = "30/360"
	Thirty360E Convention = "30E/360"
)

// Parse normalises a day count name, accepting common aliases.
func Parse(s string) (Convention, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "ACT/360", "A360", "ACTUAL/360":
		return Act360, nil
	case "ACT/365F", "ACT/365", "A365F", "ACTUAL/365FIXED":
		return Act365F, nil
	case "ACT/ACT", "ACT/ACTISDA", "ACTUAL/ACTUAL":
		return ActActISDA, nil
	case "30/360", "30U/360", "BOND":
		return Thirty360, nil
	case "30E/360", "EUROBOND":
		return Thirty360E, nil
	}
	return "", fmt.Errorf("daycount.Parse: unknown convention %q", s)
}

// DayCount returns the number of days between start and end under c.
func (c Convention) DayCount(start, end time.Time) int {
	switch c {
	case Thirty360:
		return thirty360US(start, end)
	case Thirty360E:
		return thirty360E(start, end)
	default:
		return int(utils.Days(start, end))
	}
}

// YearFraction computes the accrual fraction between start and end.
// Unknown conventions fall back to ACT/365F.
func (c Convention) YearFraction(start, end time.Time) float64 {
	switch c {
	case Act360:
		return utils.Days(start, end) / 360.0
	case ActActISDA:
		return actActISDA(start, end)
	case Thirty360, Thirty360E:
		return float64(c.DayCount(start, end)) / 360.0
	default:
		return utils.Days(start, end) / 365.0
	}
}

func (c Convention) String() string {
	return string(c)
}

// thirty360US is the 30/360 bond basis.
func thirty360US(start, end time.Time) int {
	d1, d2 := start.Day(), end.Day()
	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && d1 >= 30 {
		d2 = 30
	}
	return 360*(end.Year()-start.Year()) + 30*(int(end.Month())-int(start.Month())) + (d2 - d1)
}

// thirty360E caps both day-of-month values at 30.
func thirty360E(start, end time.Time) int {
	d1, d2 := start.Day(), end.Day()
	if d1 > 30 {
		d1 = 30
	}
	if d2 > 30 {
		d2 = 30
	}
	return 360*(end.Year()-start.Year()) + 30*(int(end.Month())-int(start.Month())) + (d2 - d1)
}

func actActISDA(start, end time.Time) float64 {
	if !end.After(start) {
		if end.Equal(start) {
			return 0
		}
		return -actActISDA(end, start)
	}
	y1, y2 := start.Year(), end.Year()
	if y1 == y2 {
		return utils.Days(start, end) / daysInYear(y1)
	}
	sum := float64(y2 - y1 - 1)
	sum += utils.Days(start, time.Date(y1+1, 1, 1, 0, 0, 0, 0, time.UTC)) / daysInYear(y1)
	sum += utils.Days(time.Date(y2, 1, 1, 0, 0, 0, 0, time.UTC), end) / daysInYear(y2)
	return sum
}

func daysInYear(y int) float64 {
	if y%4 == 0 && (y%100 != 0 || y%400 == 0) {
		return 366
	}
	return 365
}
