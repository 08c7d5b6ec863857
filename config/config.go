package config

import (
	"sync"
	"time"

	"github.com/meenmo/swaplib/pricing"
	"github.com/meenmo/swaplib/utils"
)

// Config holds pricing settings shared by instruments, cash flows and engines,
// plus the application sections read by Load.
type Config struct {
	Pricing PricingConfig `yaml:"pricing"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// PricingConfig holds the global valuation settings.
type PricingConfig struct {
	// EvaluationDate is the "today" of every pricing pass, YYYY-MM-DD.
	// Empty means the current UTC date.
	EvaluationDate string `yaml:"evaluation_date"`

	// IncludeReferenceDateEvents treats cash flows paying on the reference
	// date as not yet occurred.
	IncludeReferenceDateEvents bool `yaml:"include_reference_date_events"`

	// EnforceTodaysHistoricFixings requires a stored fixing for fixing dates
	// equal to the evaluation date instead of forecasting it.
	EnforceTodaysHistoricFixings bool `yaml:"enforce_todays_historic_fixings"`

	// SensitivityTolerance scales the nominal to decide when a leg BPS is too
	// small to divide by: |BPS| <= SensitivityTolerance * max(1, |nominal|).
	SensitivityTolerance float64 `yaml:"sensitivity_tolerance"`

	evaluationDate time.Time
}

// StorageConfig controls where pricing runs are persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // path to the SQLite file, or ":memory:"
}

// LogConfig controls log format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	Pricing: PricingConfig{
		SensitivityTolerance: 1e-14,
	},
	Storage: StorageConfig{DSN: "swaplib.db"},
	Log:     LogConfig{Level: "info", Format: "text"},
}

var (
	mu  sync.RWMutex
	cfg = DefaultConfig

	// evaluationDateMu guards evaluationDateObservers. Observers must not
	// register or unregister from Update.
	evaluationDateMu        sync.Mutex
	evaluationDateObservers pricing.Observable
)

// SetConfig replaces the active configuration. Observers of the evaluation
// date are notified when it changes.
func SetConfig(c Config) {
	mu.Lock()
	changed := !cfg.Pricing.evaluationDate.Equal(c.Pricing.evaluationDate)
	cfg = c
	mu.Unlock()
	if changed {
		notifyEvaluationDate()
	}
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// SetEvaluationDate moves the global evaluation date and notifies its
// observers if the date changed.
func SetEvaluationDate(d time.Time) {
	d = utils.Date(d)
	mu.Lock()
	changed := !cfg.Pricing.evaluationDate.Equal(d)
	cfg.Pricing.evaluationDate = d
	cfg.Pricing.EvaluationDate = utils.FormatDate(d)
	mu.Unlock()
	if changed {
		notifyEvaluationDate()
	}
}

// RegisterEvaluationDateObserver subscribes o to evaluation date changes.
func RegisterEvaluationDateObserver(o pricing.Observer) {
	evaluationDateMu.Lock()
	defer evaluationDateMu.Unlock()
	evaluationDateObservers.Register(o)
}

// UnregisterEvaluationDateObserver removes o.
func UnregisterEvaluationDateObserver(o pricing.Observer) {
	evaluationDateMu.Lock()
	defer evaluationDateMu.Unlock()
	evaluationDateObservers.Unregister(o)
}

func notifyEvaluationDate() {
	evaluationDateMu.Lock()
	defer evaluationDateMu.Unlock()
	evaluationDateObservers.NotifyObservers()
}

// EvaluationDate returns the active evaluation date, defaulting to today (UTC).
func EvaluationDate() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	if !cfg.Pricing.evaluationDate.IsZero() {
		return cfg.Pricing.evaluationDate
	}
	return utils.Date(time.Now().UTC())
}

// IncludeReferenceDateEvents reports the active reference-date policy.
func IncludeReferenceDateEvents() bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.Pricing.IncludeReferenceDateEvents
}

// EnforceTodaysHistoricFixings reports whether today's fixing must be stored.
func EnforceTodaysHistoricFixings() bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.Pricing.EnforceTodaysHistoricFixings
}

// SensitivityTolerance returns the relative BPS threshold.
func SensitivityTolerance() float64 {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.Pricing.SensitivityTolerance
}
