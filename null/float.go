// Package null provides an explicit optional float for values that may be
// absent, such as a fair rate an engine did not compute.
package null

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// Float is a float64 that may be null. The zero value is null.
type Float struct {
	value float64
	valid bool
}

// FloatFrom returns a valid Float holding v.
func FloatFrom(v float64) Float {
	return Float{value: v, valid: true}
}

// Get returns the value and whether it is set.
func (f Float) Get() (float64, bool) {
	return f.value, f.valid
}

// IsNull reports whether f holds no value.
func (f Float) IsNull() bool {
	return !f.valid
}

// Or returns the value, or def when f is null.
func (f Float) Or(def float64) float64 {
	if !f.valid {
		return def
	}
	return f.value
}

func (f Float) String() string {
	if !f.valid {
		return "null"
	}
	return strconv.FormatFloat(f.value, 'g', -1, 64)
}

// MarshalJSON encodes null as JSON null.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON accepts a number or null.
func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Float{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("null.Float: %w", err)
	}
	*f = FloatFrom(v)
	return nil
}

// Value implements driver.Valuer, storing null as SQL NULL.
func (f Float) Value() (driver.Value, error) {
	if !f.valid {
		return nil, nil
	}
	return f.value, nil
}

// Scan implements sql.Scanner.
func (f *Float) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = Float{}
	case float64:
		*f = FloatFrom(v)
	case int64:
		*f = FloatFrom(float64(v))
	case []byte:
		x, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return fmt.Errorf("null.Float: scan: %w", err)
		}
		*f = FloatFrom(x)
	default:
		return fmt.Errorf("null.Float: cannot scan %T", src)
	}
	return nil
}
