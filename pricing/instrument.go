package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/swaplib/null"
)

// ErrResultsType is returned when an engine's results lack the base fields.
var ErrResultsType = errors.New("results do not carry base instrument results")

// Pricer is the instrument-specific half of a pricing pass. An instrument
// embeds Instrument and passes itself as the Pricer to Calculate.
type Pricer interface {
	IsExpired() bool
	SetupExpired()
	SetupArguments(Arguments) error
	FetchResults(Results) error
}

// Instrument holds the engine link and the cached results shared by every
// instrument. Results are computed lazily and invalidated by Update.
type Instrument struct {
	Observable
	engine     Engine
	calculated bool

	value         null.Float
	errorEstimate null.Float
	valuationDate time.Time
	additional    map[string]any
}

// SetPricingEngine replaces the engine and invalidates cached results.
func (i *Instrument) SetPricingEngine(e Engine) {
	if i.engine != nil {
		i.engine.Unregister(i)
	}
	i.engine = e
	if e != nil {
		e.Register(i)
	}
	i.Update()
}

// PricingEngine returns the current engine, if any.
func (i *Instrument) PricingEngine() Engine {
	return i.engine
}

// Update marks cached results stale and forwards the notification.
func (i *Instrument) Update() {
	i.calculated = false
	i.NotifyObservers()
}

// Calculated reports whether the cached results are current.
func (i *Instrument) Calculated() bool {
	return i.calculated
}

// Calculate runs a pricing pass unless results are already current.
// A failed pass leaves the instrument uncalculated.
func (i *Instrument) Calculate(p Pricer) error {
	if i.calculated {
		return nil
	}
	if p.IsExpired() {
		p.SetupExpired()
		i.calculated = true
		return nil
	}
	if i.engine == nil {
		return ErrNoEngine
	}

	i.engine.Reset()
	if err := p.SetupArguments(i.engine.Arguments()); err != nil {
		return fmt.Errorf("Calculate: setup arguments: %w", err)
	}
	if err := i.engine.Arguments().Validate(); err != nil {
		return fmt.Errorf("Calculate: %w", err)
	}
	if err := i.engine.Calculate(); err != nil {
		return fmt.Errorf("Calculate: engine: %w", err)
	}
	if err := p.FetchResults(i.engine.Results()); err != nil {
		return fmt.Errorf("Calculate: fetch results: %w", err)
	}
	i.calculated = true
	return nil
}

// Recalculate forces a new pricing pass.
func (i *Instrument) Recalculate(p Pricer) error {
	i.calculated = false
	return i.Calculate(p)
}

// SetupExpired sets the base results of an expired instrument.
func (i *Instrument) SetupExpired() {
	i.value = null.FloatFrom(0)
	i.errorEstimate = null.FloatFrom(0)
	i.valuationDate = time.Time{}
	i.additional = nil
}

// FetchResults copies the base results written by the engine.
func (i *Instrument) FetchResults(r Results) error {
	b, ok := r.(interface{ Base() *ResultsBase })
	if !ok {
		return fmt.Errorf("FetchResults: %T: %w", r, ErrResultsType)
	}
	base := b.Base()
	i.value = base.Value
	i.errorEstimate = base.ErrorEstimate
	i.valuationDate = base.ValuationDate
	i.additional = base.Additional
	return nil
}

// CachedValue returns the last computed NPV without triggering a pass.
func (i *Instrument) CachedValue() null.Float {
	return i.value
}

// CachedErrorEstimate returns the last error estimate.
func (i *Instrument) CachedErrorEstimate() null.Float {
	return i.errorEstimate
}

// CachedValuationDate returns the date the last NPV refers to.
func (i *Instrument) CachedValuationDate() time.Time {
	return i.valuationDate
}

// CachedAdditionalResults returns engine-specific extra results.
func (i *Instrument) CachedAdditionalResults() map[string]any {
	return i.additional
}
