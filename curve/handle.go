package curve

import (
	"time"

	"github.com/meenmo/swaplib/pricing"
)

// Handle is a relinkable reference to a YieldCurve. Indices and engines hold
// a Handle so that relinking to a new curve invalidates whatever was priced
// off the old one.
type Handle struct {
	pricing.Observable
	curve YieldCurve
}

// NewHandle returns a handle linked to c, which may be nil.
func NewHandle(c YieldCurve) *Handle {
	return &Handle{curve: c}
}

// Link points the handle to c and notifies observers.
func (h *Handle) Link(c YieldCurve) {
	h.curve = c
	h.NotifyObservers()
}

// Empty reports whether no curve is linked.
func (h *Handle) Empty() bool {
	return h == nil || h.curve == nil
}

// Current returns the linked curve or ErrEmptyHandle.
func (h *Handle) Current() (YieldCurve, error) {
	if h.Empty() {
		return nil, ErrEmptyHandle
	}
	return h.curve, nil
}

// ReferenceDate returns the linked curve's reference date; the zero time if empty.
func (h *Handle) ReferenceDate() time.Time {
	if h.Empty() {
		return time.Time{}
	}
	return h.curve.ReferenceDate()
}

// Discount delegates to the linked curve. Callers check Empty first.
func (h *Handle) Discount(t time.Time) float64 {
	return h.curve.Discount(t)
}
