package market

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/swaplib/calendar"
	"github.com/meenmo/swaplib/curve"
	"github.com/meenmo/swaplib/index"
)

// ErrUnknownIndex is returned for reference rates without a market convention.
var ErrUnknownIndex = errors.New("unknown reference index")

// ReferenceIndex enumerates supported floating benchmarks.
type ReferenceIndex string

const (
	ESTR      ReferenceIndex = "ESTR"
	EURIBOR3M ReferenceIndex = "EURIBOR3M"
	EURIBOR6M ReferenceIndex = "EURIBOR6M"
	TONAR     ReferenceIndex = "TONAR"
	TIBOR3M   ReferenceIndex = "TIBOR3M"
	TIBOR6M   ReferenceIndex = "TIBOR6M"
	SOFR      ReferenceIndex = "SOFR"
	CD91D     ReferenceIndex = "CD91D"
)

// IsOvernight reports whether the reference rate is an overnight index
// paid compounded in arrears.
func IsOvernight(r ReferenceIndex) bool {
	switch r {
	case ESTR, TONAR, SOFR:
		return true
	default:
		return false
	}
}

// ParseReferenceIndex accepts the constant names case-insensitively, with
// or without separators ("euribor-6m", "CD91").
func ParseReferenceIndex(s string) (ReferenceIndex, error) {
	key := strings.ToUpper(strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.TrimSpace(s)))
	switch key {
	case "CD91", "CD":
		return CD91D, nil
	case "TONA":
		return TONAR, nil
	case "€STR":
		return ESTR, nil
	}
	r := ReferenceIndex(key)
	if _, ok := conventions[r]; !ok {
		return "", fmt.Errorf("ParseReferenceIndex: %q: %w", s, ErrUnknownIndex)
	}
	return r, nil
}

// FixingIndex is an index that accepts published fixings.
type FixingIndex interface {
	index.InterestRateIndex
	AddFixing(date time.Time, value float64, overwrite bool) error
}

// NewIndex builds the index for r, forecasting off forwarding.
func NewIndex(r ReferenceIndex, forwarding *curve.Handle) (FixingIndex, error) {
	switch r {
	case ESTR:
		return index.Estr(forwarding), nil
	case TONAR:
		return index.Tonar(forwarding), nil
	case SOFR:
		return index.Sofr(forwarding), nil
	case EURIBOR3M:
		return index.Euribor(calendar.ThreeMonths, forwarding), nil
	case EURIBOR6M:
		return index.Euribor(calendar.SixMonths, forwarding), nil
	case TIBOR3M:
		return index.Tibor(calendar.ThreeMonths, forwarding), nil
	case TIBOR6M:
		return index.Tibor(calendar.SixMonths, forwarding), nil
	case CD91D:
		return index.CD91(forwarding), nil
	default:
		return nil, fmt.Errorf("NewIndex: %q: %w", r, ErrUnknownIndex)
	}
}
