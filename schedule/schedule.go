package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/utils"
)

// ErrInvalidSchedule is returned for schedules that cannot be generated.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Rule selects the direction in which regular dates are rolled.
type Rule string

const (
	// Backward rolls from termination towards effective; a stub, if any, is at the front.
	Backward Rule = "BACKWARD"
	// Forward rolls from effective towards termination; a stub, if any, is at the back.
	Forward Rule = "FORWARD"
)

// shortStubDays is the longest stub merged into its neighbouring period.
const shortStubDays = 7

// Params describes a schedule to generate.
type Params struct {
	Effective   time.Time
	Termination time.Time
	// Tenor is the regular period length. A zero tenor yields a single period.
	Tenor      calendar.Period
	Calendar   calendar.CalendarID
	Convention calendar.BusinessDayConvention
	// TerminationConvention adjusts the last date; defaults to Convention.
	TerminationConvention calendar.BusinessDayConvention
	// Rule defaults to Backward.
	Rule       Rule
	EndOfMonth bool
}

// Schedule is an immutable sequence of adjusted period boundary dates.
type Schedule struct {
	dates      []time.Time
	tenor      calendar.Period
	calendar   calendar.CalendarID
	convention calendar.BusinessDayConvention
	rule       Rule
	endOfMonth bool
}

// New generates a schedule. Regular dates are rolled off the unadjusted
// effective or termination date so that month-end clamping never drifts;
// stubs of a week or less are merged into the adjacent period.
func New(p Params) (*Schedule, error) {
	if p.Effective.IsZero() || p.Termination.IsZero() {
		return nil, fmt.Errorf("schedule.New: missing effective or termination date: %w", ErrInvalidSchedule)
	}
	if !p.Termination.After(p.Effective) {
		return nil, fmt.Errorf("schedule.New: termination %s not after effective %s: %w",
			p.Termination.Format(utils.DateLayout), p.Effective.Format(utils.DateLayout), ErrInvalidSchedule)
	}
	if p.Tenor.Length < 0 {
		return nil, fmt.Errorf("schedule.New: negative tenor %s: %w", p.Tenor, ErrInvalidSchedule)
	}
	if p.Convention == "" {
		p.Convention = calendar.ModifiedFollowing
	}
	if p.TerminationConvention == "" {
		p.TerminationConvention = p.Convention
	}
	if p.Rule == "" {
		p.Rule = Backward
	}

	effective, termination := utils.Date(p.Effective), utils.Date(p.Termination)
	var unadjusted []time.Time
	switch {
	case p.Tenor.IsZero():
		unadjusted = []time.Time{effective, termination}
	case p.Rule == Forward:
		unadjusted = rollForward(effective, termination, p.Tenor)
	case p.Rule == Backward:
		unadjusted = rollBackward(effective, termination, p.Tenor)
	default:
		return nil, fmt.Errorf("schedule.New: unknown rule %q: %w", p.Rule, ErrInvalidSchedule)
	}

	// Month-end rolling applies when the date the schedule is anchored on is a month end.
	anchor := termination
	if p.Rule == Forward {
		anchor = effective
	}
	_, monthly := p.Tenor.Months()
	eom := p.EndOfMonth && monthly && calendar.IsEndOfMonth(p.Calendar, calendar.AdjustWith(p.Calendar, anchor, p.Convention))

	last := len(unadjusted) - 1
	dates := make([]time.Time, 0, len(unadjusted))
	for i, d := range unadjusted {
		var adj time.Time
		switch {
		case i == last:
			adj = calendar.AdjustWith(p.Calendar, d, p.TerminationConvention)
		case i == 0:
			adj = calendar.AdjustWith(p.Calendar, d, p.Convention)
		case eom && p.Convention != calendar.Unadjusted:
			adj = calendar.LastBusinessDayOfMonth(p.Calendar, d)
		case eom:
			adj = utils.EndOfMonth(d)
		default:
			adj = calendar.AdjustWith(p.Calendar, d, p.Convention)
		}
		if n := len(dates); n > 0 && !adj.After(dates[n-1]) {
			continue
		}
		dates = append(dates, adj)
	}
	if len(dates) < 2 {
		return nil, fmt.Errorf("schedule.New: adjusted dates collapse to a single date: %w", ErrInvalidSchedule)
	}

	return &Schedule{
		dates:      dates,
		tenor:      p.Tenor,
		calendar:   p.Calendar,
		convention: p.Convention,
		rule:       p.Rule,
		endOfMonth: eom,
	}, nil
}

// rollForward returns effective, effective+k*tenor, ..., termination.
func rollForward(effective, termination time.Time, tenor calendar.Period) []time.Time {
	dates := []time.Time{effective}
	for k := 1; ; k++ {
		d := shift(effective, tenor, k)
		if !d.Before(termination) {
			break
		}
		dates = append(dates, d)
	}
	if n := len(dates); n > 1 && utils.Days(dates[n-1], termination) <= shortStubDays {
		dates = dates[:n-1]
	}
	return append(dates, termination)
}

// rollBackward returns effective, ..., termination-k*tenor, ..., termination.
func rollBackward(effective, termination time.Time, tenor calendar.Period) []time.Time {
	var rev []time.Time
	for k := 1; ; k++ {
		d := shift(termination, tenor, -k)
		if !d.After(effective) {
			break
		}
		rev = append(rev, d)
	}
	if n := len(rev); n > 0 && utils.Days(effective, rev[n-1]) <= shortStubDays {
		rev = rev[:n-1]
	}
	dates := make([]time.Time, 0, len(rev)+2)
	dates = append(dates, effective)
	for i := len(rev) - 1; i >= 0; i-- {
		dates = append(dates, rev[i])
	}
	return append(dates, termination)
}

func shift(base time.Time, tenor calendar.Period, k int) time.Time {
	switch tenor.Unit {
	case calendar.Days:
		return base.AddDate(0, 0, k*tenor.Length)
	case calendar.Weeks:
		return base.AddDate(0, 0, 7*k*tenor.Length)
	default:
		months, _ := tenor.Months()
		return utils.AddMonth(base, k*months)
	}
}

// FromDates wraps explicit, already adjusted dates.
func FromDates(dates []time.Time, cal calendar.CalendarID, conv calendar.BusinessDayConvention) (*Schedule, error) {
	if len(dates) < 2 {
		return nil, fmt.Errorf("schedule.FromDates: need at least two dates, got %d: %w", len(dates), ErrInvalidSchedule)
	}
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		out[i] = utils.Date(d)
		if i > 0 && !out[i].After(out[i-1]) {
			return nil, fmt.Errorf("schedule.FromDates: %s not after %s: %w",
				out[i].Format(utils.DateLayout), out[i-1].Format(utils.DateLayout), ErrInvalidSchedule)
		}
	}
	if conv == "" {
		conv = calendar.Unadjusted
	}
	return &Schedule{dates: out, calendar: cal, convention: conv}, nil
}

// Dates returns a copy of the schedule dates.
func (s *Schedule) Dates() []time.Time {
	return append([]time.Time(nil), s.dates...)
}

// Date returns the i-th date.
func (s *Schedule) Date(i int) time.Time { return s.dates[i] }

// Len returns the number of dates, one more than the number of periods.
func (s *Schedule) Len() int { return len(s.dates) }

func (s *Schedule) StartDate() time.Time { return s.dates[0] }
func (s *Schedule) EndDate() time.Time   { return s.dates[len(s.dates)-1] }

func (s *Schedule) Calendar() calendar.CalendarID { return s.calendar }

// BusinessDayConvention is the convention used for the regular dates. Legs
// built on the schedule default their payment convention to it.
func (s *Schedule) BusinessDayConvention() calendar.BusinessDayConvention { return s.convention }

func (s *Schedule) Tenor() calendar.Period { return s.tenor }
func (s *Schedule) Rule() Rule             { return s.rule }
func (s *Schedule) EndOfMonth() bool       { return s.endOfMonth }
