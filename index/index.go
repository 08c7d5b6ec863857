package index

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/config"
	"github.com/meenmo/swaplib/curve"
	"github.com/meenmo/swaplib/daycount"
	"github.com/meenmo/swaplib/pricing"
	"github.com/meenmo/swaplib/utils"
)

var (
	// ErrMissingFixing is returned when a past fixing was never stored.
	ErrMissingFixing = errors.New("missing fixing")
	// ErrInvalidFixingDate is returned for non-business fixing dates.
	ErrInvalidFixingDate = errors.New("invalid fixing date")
	// ErrDuplicateFixing is returned when a different fixing is already stored.
	ErrDuplicateFixing = errors.New("duplicated fixing")
)

// InterestRateIndex is what a floating coupon and a swap need from an index.
type InterestRateIndex interface {
	pricing.Subject
	Name() string
	Tenor() calendar.Period
	FixingCalendar() calendar.CalendarID
	DayCounter() daycount.Convention
	FixingDays() int
	Fixing(fixingDate time.Time) (float64, error)
}

// Params describes an interest-rate index.
type Params struct {
	FamilyName string
	Tenor      calendar.Period
	FixingDays int
	Currency   string
	Calendar   calendar.CalendarID
	Convention calendar.BusinessDayConvention
	EndOfMonth bool
	DayCounter daycount.Convention
}

// IborIndex is a term rate index (EURIBOR, TIBOR, CD91) forecast from a
// forwarding curve. Overnight indices share the implementation with a 1D
// tenor; see OvernightIndex.
type IborIndex struct {
	pricing.Observable
	params     Params
	forwarding *curve.Handle
	history    *FixingHistory
}

// NewIborIndex builds an index forecasting off forwarding (which may be nil
// or empty when only past fixings are needed).
func NewIborIndex(p Params, forwarding *curve.Handle) *IborIndex {
	if p.Convention == "" {
		p.Convention = calendar.ModifiedFollowing
	}
	if forwarding == nil {
		forwarding = curve.NewHandle(nil)
	}
	idx := &IborIndex{params: p, forwarding: forwarding, history: NewFixingHistory(nil)}
	forwarding.Register(idx)
	idx.history.Register(idx)
	config.RegisterEvaluationDateObserver(idx)
	return idx
}

// Clone returns an index with the same conventions and fixing history
// forecasting off another curve.
func (i *IborIndex) Clone(forwarding *curve.Handle) *IborIndex {
	c := NewIborIndex(i.params, forwarding)
	c.history.Unregister(c)
	c.history = i.history
	c.history.Register(c)
	return c
}

// Name combines family and tenor, e.g. EURIBOR6M; overnight indices use the family name.
func (i *IborIndex) Name() string {
	if i.IsOvernight() {
		return i.params.FamilyName
	}
	return i.params.FamilyName + i.params.Tenor.String()
}

func (i *IborIndex) FamilyName() string                         { return i.params.FamilyName }
func (i *IborIndex) Tenor() calendar.Period                     { return i.params.Tenor }
func (i *IborIndex) FixingDays() int                            { return i.params.FixingDays }
func (i *IborIndex) Currency() string                           { return i.params.Currency }
func (i *IborIndex) FixingCalendar() calendar.CalendarID        { return i.params.Calendar }
func (i *IborIndex) Convention() calendar.BusinessDayConvention { return i.params.Convention }
func (i *IborIndex) EndOfMonth() bool                           { return i.params.EndOfMonth }
func (i *IborIndex) DayCounter() daycount.Convention            { return i.params.DayCounter }
func (i *IborIndex) ForwardingCurve() *curve.Handle             { return i.forwarding }
func (i *IborIndex) History() *FixingHistory                    { return i.history }

// IsOvernight reports whether the index has a one-day tenor.
func (i *IborIndex) IsOvernight() bool {
	return i.params.Tenor.Unit == calendar.Days && i.params.Tenor.Length == 1
}

// Update forwards a change of the forwarding curve, the fixing history or
// the evaluation date to observers.
func (i *IborIndex) Update() {
	i.NotifyObservers()
}

// IsValidFixingDate reports whether fixings are published on t.
func (i *IborIndex) IsValidFixingDate(t time.Time) bool {
	return calendar.IsBusinessDay(i.params.Calendar, t)
}

// ValueDate is the start of the deposit fixed on fixingDate.
func (i *IborIndex) ValueDate(fixingDate time.Time) time.Time {
	return calendar.AddBusinessDays(i.params.Calendar, fixingDate, i.params.FixingDays)
}

// FixingDate is the fixing date for a deposit starting on valueDate.
func (i *IborIndex) FixingDate(valueDate time.Time) time.Time {
	return calendar.AddBusinessDays(i.params.Calendar, valueDate, -i.params.FixingDays)
}

// MaturityDate is the end of the deposit starting on valueDate.
func (i *IborIndex) MaturityDate(valueDate time.Time) time.Time {
	if i.IsOvernight() {
		return calendar.AddBusinessDays(i.params.Calendar, valueDate, 1)
	}
	return calendar.Advance(i.params.Calendar, valueDate, i.params.Tenor, i.params.Convention, i.params.EndOfMonth)
}

// AddFixing stores a published fixing and notifies observers of every index
// sharing the history. A different value on an already stored date is
// rejected unless overwrite is set.
func (i *IborIndex) AddFixing(date time.Time, value float64, overwrite bool) error {
	date = utils.Date(date)
	if !i.IsValidFixingDate(date) {
		return fmt.Errorf("AddFixing: %s %s: %w", i.Name(), date.Format(utils.DateLayout), ErrInvalidFixingDate)
	}
	if prev, ok := i.history.RateOn(date); ok && !overwrite && prev != value {
		return fmt.Errorf("AddFixing: %s %s (stored %.8f, new %.8f): %w",
			i.Name(), date.Format(utils.DateLayout), prev, value, ErrDuplicateFixing)
	}
	i.history.set(date, value)
	return nil
}

// ClearFixings drops the stored history and notifies observers of every
// index sharing it.
func (i *IborIndex) ClearFixings() {
	i.history.clear()
}

// PastFixing returns a stored fixing.
func (i *IborIndex) PastFixing(fixingDate time.Time) (float64, bool) {
	return i.history.RateOn(fixingDate)
}

// Fixing returns the index value fixed on fixingDate: the stored fixing for
// past dates, the stored or forecast fixing for today, a forecast otherwise.
func (i *IborIndex) Fixing(fixingDate time.Time) (float64, error) {
	if !i.IsValidFixingDate(fixingDate) {
		return 0, fmt.Errorf("Fixing: %s %s: %w", i.Name(), fixingDate.Format(utils.DateLayout), ErrInvalidFixingDate)
	}
	today := config.EvaluationDate()
	if !fixingDate.After(today) {
		if v, ok := i.history.RateOn(fixingDate); ok {
			return v, nil
		}
		if fixingDate.Before(today) || config.EnforceTodaysHistoricFixings() {
			return 0, fmt.Errorf("Fixing: %s %s: %w", i.Name(), fixingDate.Format(utils.DateLayout), ErrMissingFixing)
		}
	}
	return i.Forecast(fixingDate)
}

// Forecast projects the fixing of fixingDate off the forwarding curve.
func (i *IborIndex) Forecast(fixingDate time.Time) (float64, error) {
	start := i.ValueDate(fixingDate)
	return i.ForecastOver(start, i.MaturityDate(start))
}

// ForecastOver projects the simple rate between start and end off the
// forwarding curve, accruing under the index day counter.
func (i *IborIndex) ForecastOver(start, end time.Time) (float64, error) {
	c, err := i.forwarding.Current()
	if err != nil {
		return 0, fmt.Errorf("Forecast: %s: %w", i.Name(), err)
	}
	if start.Before(c.ReferenceDate()) {
		return 0, fmt.Errorf("Forecast: %s start %s: %w", i.Name(), start.Format(utils.DateLayout), curve.ErrBeforeReference)
	}
	r := curve.ForwardRate(c, start, end, i.params.DayCounter)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("Forecast: %s: degenerate forward over %s-%s", i.Name(),
			start.Format(utils.DateLayout), end.Format(utils.DateLayout))
	}
	return r, nil
}

// OvernightIndex is an index with a one-day tenor (ESTR, TONAR, SOFR),
// compounded daily by overnight-indexed coupons.
type OvernightIndex struct {
	*IborIndex
}

// NewOvernightIndex builds an overnight index; the tenor is forced to 1D.
func NewOvernightIndex(p Params, forwarding *curve.Handle) OvernightIndex {
	p.Tenor = calendar.OneDay
	p.Convention = calendar.Following
	return OvernightIndex{NewIborIndex(p, forwarding)}
}

// Clone returns an overnight index sharing the fixing history.
func (o OvernightIndex) Clone(forwarding *curve.Handle) OvernightIndex {
	return OvernightIndex{o.IborIndex.Clone(forwarding)}
}
