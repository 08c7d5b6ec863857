package index

import (
	"time"

	"github.com/meenmo/swaplib/pricing"
	"github.com/meenmo/swaplib/utils"
)

// FixingHistory is a map-backed store of published index fixings keyed by
// fixing date. Indices cloned from one another share the same history and
// observe it, so a fixing added through any of them reaches all of them.
type FixingHistory struct {
	pricing.Observable
	rates map[string]float64
}

// NewFixingHistory wraps rates keyed by YYYY-MM-DD. rates may be nil.
func NewFixingHistory(rates map[string]float64) *FixingHistory {
	h := &FixingHistory{rates: make(map[string]float64, len(rates))}
	for k, v := range rates {
		h.rates[k] = v
	}
	return h
}

// RateOn returns the fixing published for date.
func (h *FixingHistory) RateOn(date time.Time) (float64, bool) {
	val, ok := h.rates[date.Format(utils.DateLayout)]
	return val, ok
}

func (h *FixingHistory) set(date time.Time, value float64) {
	h.rates[date.Format(utils.DateLayout)] = value
	h.NotifyObservers()
}

func (h *FixingHistory) clear() {
	h.rates = make(map[string]float64)
	h.NotifyObservers()
}

// Len returns the number of stored fixings.
func (h *FixingHistory) Len() int {
	return len(h.rates)
}

// Dates returns the stored fixing dates in ascending order.
func (h *FixingHistory) Dates() []time.Time {
	out := make([]time.Time, 0, len(h.rates))
	for k := range h.rates {
		if t, err := utils.ParseDate(k); err == nil {
			out = append(out, t)
		}
	}
	utils.SortDates(out)
	return out
}
