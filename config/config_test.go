package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/swaplib/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ParsesAndDefaults(t *testing.T) {
	path := writeFile(t, `
pricing:
  evaluation_date: "2025-03-14"
  include_reference_date_events: true
log:
  format: json
`)
	c, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-14", c.Pricing.EvaluationDate)
	assert.True(t, c.Pricing.IncludeReferenceDateEvents)
	assert.Equal(t, config.DefaultConfig.Pricing.SensitivityTolerance, c.Pricing.SensitivityTolerance)
	assert.Equal(t, "swaplib.db", c.Storage.DSN)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)

	prev := config.GetConfig()
	t.Cleanup(func() { config.SetConfig(prev) })
	config.SetConfig(c)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), config.EvaluationDate())
	assert.True(t, config.IncludeReferenceDateEvents())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SWAPLIB_EVALUATION_DATE", "2026-01-09")
	t.Setenv("SWAPLIB_DB", ":memory:")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := config.Load(writeFile(t, "pricing:\n  evaluation_date: \"2025-01-01\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "2026-01-09", c.Pricing.EvaluationDate)
	assert.Equal(t, ":memory:", c.Storage.DSN)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = config.Load(writeFile(t, "pricing: [unclosed"))
	assert.Error(t, err)

	_, err = config.Load(writeFile(t, "pricing:\n  evaluation_date: \"14/03/2025\"\n"))
	assert.Error(t, err)
}

func TestSetEvaluationDate(t *testing.T) {
	prev := config.GetConfig()
	t.Cleanup(func() { config.SetConfig(prev) })

	config.SetEvaluationDate(time.Date(2030, 6, 1, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), config.EvaluationDate())
	assert.Equal(t, "2030-06-01", config.GetConfig().Pricing.EvaluationDate)
}

type countingObserver struct{ updates int }

func (o *countingObserver) Update() { o.updates++ }

func TestEvaluationDateObservers(t *testing.T) {
	prev := config.GetConfig()
	t.Cleanup(func() { config.SetConfig(prev) })

	d := time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC)
	config.SetEvaluationDate(d)

	o := &countingObserver{}
	config.RegisterEvaluationDateObserver(o)
	t.Cleanup(func() { config.UnregisterEvaluationDateObserver(o) })

	config.SetEvaluationDate(d)
	assert.Equal(t, 0, o.updates, "same date")

	config.SetEvaluationDate(d.AddDate(0, 0, 1))
	assert.Equal(t, 1, o.updates)

	config.SetConfig(config.DefaultConfig)
	assert.Equal(t, 2, o.updates, "SetConfig resets the date")

	config.SetConfig(config.DefaultConfig)
	assert.Equal(t, 2, o.updates)

	config.UnregisterEvaluationDateObserver(o)
	config.SetEvaluationDate(d)
	assert.Equal(t, 2, o.updates)
}
