package pricing

import (
	"errors"
	"time"

	"github.com/meenmo/swaplib/null"
)

var (
	// ErrNoEngine is returned when an instrument is priced without an engine.
	ErrNoEngine = errors.New("no pricing engine set")
)

// Arguments is the input snapshot an instrument writes for an engine.
type Arguments interface {
	Validate() error
}

// Results is the output an engine writes for an instrument.
type Results interface {
	Reset()
}

// Engine prices one instrument family from its Arguments into its Results.
type Engine interface {
	Subject
	Arguments() Arguments
	Results() Results
	Reset()
	Calculate() error
}

// ResultsBase carries the results every instrument exposes.
type ResultsBase struct {
	Value         null.Float
	ErrorEstimate null.Float
	ValuationDate time.Time
	Additional    map[string]any
}

// Reset clears every field to its null state.
func (r *ResultsBase) Reset() {
	r.Value = null.Float{}
	r.ErrorEstimate = null.Float{}
	r.ValuationDate = time.Time{}
	r.Additional = nil
}

// Base gives access to the embedded base results.
func (r *ResultsBase) Base() *ResultsBase {
	return r
}

// GenericEngine binds an Arguments/Results pair and leaves Calculate to the
// embedding engine. It forwards notifications from the market data it
// observes to the instruments observing it.
type GenericEngine[A Arguments, R Results] struct {
	Observable
	Args A
	Res  R
}

// NewGenericEngine wires args and res into a GenericEngine.
func NewGenericEngine[A Arguments, R Results](args A, res R) GenericEngine[A, R] {
	return GenericEngine[A, R]{Args: args, Res: res}
}

func (e *GenericEngine[A, R]) Arguments() Arguments {
	return e.Args
}

func (e *GenericEngine[A, R]) Results() Results {
	return e.Res
}

// Reset clears the results before a pricing pass.
func (e *GenericEngine[A, R]) Reset() {
	e.Res.Reset()
}

// Update propagates a change in observed market data.
func (e *GenericEngine[A, R]) Update() {
	e.NotifyObservers()
}
