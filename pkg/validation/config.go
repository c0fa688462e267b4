package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigValidator provides a fluent interface for validating configuration values.
// It collects all validation errors rather than failing on the first one.
type ConfigValidator struct {
	errors []error
	name   string // config struct name for error messages
}

// NewConfigValidator creates a new config validator with the given config name.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{
		name:   configName,
		errors: make([]error, 0),
	}
}

// Positive validates that an int field is positive (> 0).
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %d must be positive", cv.name, field, value))
	}
	return cv
}

// NonNegative validates that an int field is non-negative (>= 0).
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %d must be non-negative", cv.name, field, value))
	}
	return cv
}

// MinInt validates that an int field is at least the minimum value.
func (cv *ConfigValidator) MinInt(field string, value, min int) *ConfigValidator {
	if value < min {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %d is below minimum %d", cv.name, field, value, min))
	}
	return cv
}

// PositiveFloat validates that a float field is positive (> 0).
func (cv *ConfigValidator) PositiveFloat(field string, value float64) *ConfigValidator {
	if value <= 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %g must be positive", cv.name, field, value))
	}
	return cv
}

// RangeFloat validates that a float field is within [min, max).
func (cv *ConfigValidator) RangeFloat(field string, value, min, max float64) *ConfigValidator {
	if value < min || value >= max {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %g is outside range [%g, %g)", cv.name, field, value, min, max))
	}
	return cv
}

// EachPositiveFloat validates that every element of a float slice is positive.
func (cv *ConfigValidator) EachPositiveFloat(field string, values []float64) *ConfigValidator {
	for i, v := range values {
		if v <= 0 {
			cv.errors = append(cv.errors, fmt.Errorf("%s.%s[%d]: value %g must be positive", cv.name, field, i, v))
		}
	}
	return cv
}

// NotEmptySlice validates that a slice field has at least one element.
func (cv *ConfigValidator) NotEmptySlice(field string, length int) *ConfigValidator {
	if length == 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: at least one value is required", cv.name, field))
	}
	return cv
}

// Check adds an error when ok is false. Escape hatch for conditions the
// typed helpers don't cover.
func (cv *ConfigValidator) Check(ok bool, format string, args ...any) *ConfigValidator {
	if !ok {
		cv.errors = append(cv.errors, fmt.Errorf("%s: %s", cv.name, fmt.Sprintf(format, args...)))
	}
	return cv
}

// Err returns nil when validation passed, or a single error joining every
// collected failure.
func (cv *ConfigValidator) Err() error {
	if len(cv.errors) == 0 {
		return nil
	}
	msgs := make([]string, len(cv.errors))
	for i, e := range cv.errors {
		msgs[i] = e.Error()
	}
	return errors.New(strings.Join(msgs, "; "))
}
