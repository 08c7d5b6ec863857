package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/swaplib/utils"
)

// Load reads the YAML file at path, loads a .env file if present, applies
// environment overrides and defaults. The result is not activated; call
// SetConfig to make it the global configuration.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	if err := applyEnvOverrides(&c); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&c)

	if err := c.resolve(); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	return c, nil
}

// resolve parses the textual evaluation date into its time form.
func (c *Config) resolve() error {
	if c.Pricing.EvaluationDate == "" {
		return nil
	}
	d, err := utils.ParseDate(c.Pricing.EvaluationDate)
	if err != nil {
		return fmt.Errorf("evaluation_date: %w", err)
	}
	c.Pricing.evaluationDate = d
	return nil
}

func applyEnvOverrides(c *Config) error {
	if v := os.Getenv("SWAPLIB_EVALUATION_DATE"); v != "" {
		c.Pricing.EvaluationDate = v
	}
	if v := os.Getenv("SWAPLIB_INCLUDE_REFERENCE_DATE_EVENTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SWAPLIB_INCLUDE_REFERENCE_DATE_EVENTS: %w", err)
		}
		c.Pricing.IncludeReferenceDateEvents = b
	}
	if v := os.Getenv("SWAPLIB_DB"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

func setDefaults(c *Config) {
	if c.Pricing.SensitivityTolerance <= 0 {
		c.Pricing.SensitivityTolerance = DefaultConfig.Pricing.SensitivityTolerance
	}
	if c.Storage.DSN == "" {
		c.Storage.DSN = DefaultConfig.Storage.DSN
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultConfig.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultConfig.Log.Format
	}
}
