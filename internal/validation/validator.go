package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/tuantrunglc/ecom-backend-api/internal/errors"

	"github.com/shopspring/decimal"
)

// Validator collects field errors in the order checks run.
type Validator struct {
	Errors []apperrors.FieldError
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make([]apperrors.FieldError, 0)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	v.Errors = append(v.Errors, apperrors.FieldError{Field: field, Message: message})
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// HasError reports whether field already failed a check.
func (v *Validator) HasError(field string) bool {
	for _, e := range v.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Required fails on empty or whitespace-only strings.
func (v *Validator) Required(field, value, message string) {
	v.Check(strings.TrimSpace(value) != "", field, message)
}

// MaxLength counts characters, not bytes.
func (v *Validator) MaxLength(field, value string, n int) {
	v.Check(utf8.RuneCountInString(value) <= n, field,
		fmt.Sprintf("%s must not be more than %d characters long", field, n))
}

// OneOf fails unless value is one of allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.AddError(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
}

// Bounds on decimal input, enforced before any arithmetic on the parsed
// value.
const (
	MaxDecimalLength   = 32
	MaxDecimalExponent = 18
)

// Decimal parses raw as a decimal number, recording an error when it is
// missing, not numeric or outside the accepted magnitude. ok is false when
// parsing failed.
func (v *Validator) Decimal(field, raw string) (d decimal.Decimal, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.AddError(field, field+" is required")
		return decimal.Zero, false
	}
	if len(raw) > MaxDecimalLength {
		v.AddError(field, field+" must be numeric")
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v.AddError(field, field+" must be numeric")
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > MaxDecimalExponent || exp < -MaxDecimalExponent {
		v.AddError(field, field+" is out of range")
		return decimal.Zero, false
	}
	return d, true
}

// Between checks min <= value <= max.
func (v *Validator) Between(field string, value, min, max decimal.Decimal) {
	v.Check(value.GreaterThanOrEqual(min), field, fmt.Sprintf("%s must be at least %s", field, min.String()))
	v.Check(value.LessThanOrEqual(max), field, fmt.Sprintf("%s must not exceed %s", field, max.String()))
}

// MaxDecimalPlaces limits the fractional digits of value.
func (v *Validator) MaxDecimalPlaces(field string, value decimal.Decimal, places int32) {
	v.Check(value.Equal(value.Truncate(places)), field,
		fmt.Sprintf("%s must have at most %d decimal places", field, places))
}

// Err returns nil when valid, otherwise a validation DomainError.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return apperrors.Validation(v.Errors)
}
