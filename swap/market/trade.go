package market

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/curve"
	"github.com/meenmo/swaplib/schedule"
	"github.com/meenmo/swaplib/swap"
	"github.com/meenmo/swaplib/utils"
)

// ErrInvalidTrade is returned for trade terms that cannot be turned into a swap.
var ErrInvalidTrade = errors.New("invalid trade")

// TradeTerms is the quoted form of a fixed-vs-floating trade.
//
// Conventions:
// - fixed_rate and fixings are in percent (2.50 means 2.50%)
// - spread_bp is in basis points
// - effective_date defaults to trade_date plus the spot lag
// - maturity_date, if set, takes precedence over tenor
type TradeTerms struct {
	ID            string             `yaml:"id" json:"id"`
	Index         string             `yaml:"index" json:"index"`
	Side          string             `yaml:"side" json:"side"`
	Nominal       float64            `yaml:"nominal" json:"nominal"`
	TradeDate     string             `yaml:"trade_date" json:"trade_date,omitempty"`
	EffectiveDate string             `yaml:"effective_date" json:"effective_date,omitempty"`
	Tenor         string             `yaml:"tenor" json:"tenor,omitempty"`
	MaturityDate  string             `yaml:"maturity_date" json:"maturity_date,omitempty"`
	FixedRatePct  float64            `yaml:"fixed_rate" json:"fixed_rate"`
	SpreadBP      float64            `yaml:"spread_bp" json:"spread_bp"`
	InArrears     bool               `yaml:"in_arrears" json:"in_arrears,omitempty"`
	FixingsPct    map[string]float64 `yaml:"fixings" json:"fixings,omitempty"`
}

// Trade is a swap built from TradeTerms together with its index.
type Trade struct {
	Terms      TradeTerms
	Convention Convention
	Index      FixingIndex
	Swap       *swap.FixedVsFloatingSwap
}

// Build resolves the market convention of t, generates both schedules,
// loads the fixings and returns the swap forecasting off forwarding.
func (t TradeTerms) Build(forwarding *curve.Handle) (*Trade, error) {
	ref, err := ParseReferenceIndex(t.Index)
	if err != nil {
		return nil, fmt.Errorf("Build %s: %w", t.ID, err)
	}
	conv, err := ConventionFor(ref)
	if err != nil {
		return nil, fmt.Errorf("Build %s: %w", t.ID, err)
	}
	if t.InArrears {
		if IsOvernight(ref) {
			return nil, fmt.Errorf("Build %s: in_arrears set on overnight index %s: %w", t.ID, ref, ErrInvalidTrade)
		}
		conv.ResetPosition = ResetInArrears
	}

	side, err := swap.ParseSide(t.Side)
	if err != nil {
		return nil, fmt.Errorf("Build %s: %w", t.ID, err)
	}
	if t.Nominal <= 0 {
		return nil, fmt.Errorf("Build %s: nominal must be positive: %w", t.ID, ErrInvalidTrade)
	}

	effective, maturity, err := t.dates(conv)
	if err != nil {
		return nil, fmt.Errorf("Build %s: %w", t.ID, err)
	}

	fixedSchedule, err := conv.schedule(effective, maturity, conv.Fixed.Frequency)
	if err != nil {
		return nil, fmt.Errorf("Build %s: fixed schedule: %w", t.ID, err)
	}
	floatingSchedule, err := conv.schedule(effective, maturity, conv.Floating.Frequency)
	if err != nil {
		return nil, fmt.Errorf("Build %s: floating schedule: %w", t.ID, err)
	}

	idx, err := NewIndex(ref, forwarding)
	if err != nil {
		return nil, fmt.Errorf("Build %s: %w", t.ID, err)
	}
	if err := t.loadFixings(idx); err != nil {
		return nil, fmt.Errorf("Build %s: %w", t.ID, err)
	}

	sw, err := swap.NewFixedVsFloatingSwap(swap.Terms{
		Side:             side,
		Nominal:          t.Nominal,
		FixedSchedule:    fixedSchedule,
		FixedRate:        t.FixedRatePct / 100.0,
		FixedDayCount:    conv.Fixed.DayCount,
		FloatingSchedule: floatingSchedule,
		Index:            idx,
		Spread:           t.SpreadBP / 10000.0,
		FloatingDayCount: conv.Floating.DayCount,
	}, conv.FloatingConvention(), swap.WithPaymentLag(conv.PayDelayDays))
	if err != nil {
		return nil, fmt.Errorf("Build %s: %w", t.ID, err)
	}

	return &Trade{Terms: t, Convention: conv, Index: idx, Swap: sw}, nil
}

func (t TradeTerms) dates(conv Convention) (time.Time, time.Time, error) {
	var effective time.Time
	switch {
	case strings.TrimSpace(t.EffectiveDate) != "":
		d, err := utils.ParseDate(strings.TrimSpace(t.EffectiveDate))
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("effective_date: %w", err)
		}
		effective = d
	case strings.TrimSpace(t.TradeDate) != "":
		d, err := utils.ParseDate(strings.TrimSpace(t.TradeDate))
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("trade_date: %w", err)
		}
		effective = calendar.AddBusinessDays(conv.Calendar, calendar.AdjustFollowing(conv.Calendar, d), conv.SpotLagDays)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("trade_date or effective_date is required: %w", ErrInvalidTrade)
	}

	if s := strings.TrimSpace(t.MaturityDate); s != "" {
		d, err := utils.ParseDate(s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("maturity_date: %w", err)
		}
		return effective, d, nil
	}
	if strings.TrimSpace(t.Tenor) == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("tenor or maturity_date is required: %w", ErrInvalidTrade)
	}
	tenor, err := calendar.ParsePeriod(t.Tenor)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("tenor: %w", err)
	}
	months, ok := tenor.Months()
	if !ok || months <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("tenor %q must be a positive number of months or years: %w", t.Tenor, ErrInvalidTrade)
	}
	return effective, utils.AddMonth(effective, months), nil
}

func (c Convention) schedule(effective, maturity time.Time, tenor calendar.Period) (*schedule.Schedule, error) {
	return schedule.New(schedule.Params{
		Effective:   effective,
		Termination: maturity,
		Tenor:       tenor,
		Calendar:    c.Calendar,
		Convention:  c.BusinessDayAdjustment,
		Rule:        schedule.Backward,
		EndOfMonth:  c.EndOfMonth,
	})
}

// loadFixings stores the published fixings in date order so that errors
// are reported deterministically.
func (t TradeTerms) loadFixings(idx FixingIndex) error {
	keys := make([]string, 0, len(t.FixingsPct))
	for k := range t.FixingsPct {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d, err := utils.ParseDate(strings.TrimSpace(k))
		if err != nil {
			return fmt.Errorf("fixing %q: %w", k, err)
		}
		if err := idx.AddFixing(d, t.FixingsPct[k]/100.0, false); err != nil {
			return err
		}
	}
	return nil
}
