package validation

import (
	"testing"
	"time"

	apperrors "github.com/tuantrunglc/ecom-backend-api/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidator_Decimal(t *testing.T) {
	v := New()

	d, ok := v.Decimal("amount", " 500000.50 ")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("500000.5")))

	_, ok = v.Decimal("amount", "")
	assert.False(t, ok)
	_, ok = v.Decimal("amount", "ten thousand")
	assert.False(t, ok)

	assert.Len(t, v.Errors, 2)
	assert.Equal(t, "amount is required", v.Errors[0].Message)
	assert.Equal(t, "amount must be numeric", v.Errors[1].Message)
}

func TestValidator_DecimalRejectsExtremeExponents(t *testing.T) {
	tests := []struct {
		raw     string
		message string
	}{
		{"1e100000000", "amount is out of range"},
		{"1e-100000000", "amount is out of range"},
		{"1E19", "amount is out of range"},
		{"0.0000000000000000001", "amount is out of range"},
		{"123456789012345678901234567890123", "amount must be numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := New()
			start := time.Now()
			_, ok := v.Decimal("amount", tt.raw)
			assert.Less(t, time.Since(start), time.Second)
			assert.False(t, ok)
			assert.Len(t, v.Errors, 1)
			assert.Equal(t, tt.message, v.Errors[0].Message)
		})
	}

	v := New()
	d, ok := v.Decimal("amount", "1e5")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(100000)))
}

func TestValidator_Between(t *testing.T) {
	min := decimal.NewFromInt(10000)
	max := decimal.NewFromInt(100000000)

	tests := []struct {
		value string
		valid bool
	}{
		{"10000", true},
		{"100000000", true},
		{"9999.99", false},
		{"100000000.01", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := New()
			v.Between("amount", decimal.RequireFromString(tt.value), min, max)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestValidator_MaxLengthCountsRunes(t *testing.T) {
	v := New()
	v.MaxLength("description", "Nạp tiền", 8)
	assert.True(t, v.Valid())

	v.MaxLength("description", "Nạp tiền!", 8)
	assert.True(t, v.HasError("description"))
}

func TestValidator_Err(t *testing.T) {
	v := New()
	assert.NoError(t, v.Err())

	v.Required("bank_account", "   ", "bank account is required")
	v.OneOf("status", "pending", "approved", "rejected")

	err := v.Err()
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	de, _ := apperrors.As(err)
	assert.Len(t, de.Fields, 2)
}

func TestValidator_MaxDecimalPlaces(t *testing.T) {
	v := New()
	v.MaxDecimalPlaces("amount", decimal.RequireFromString("10000.25"), 2)
	assert.True(t, v.Valid())

	v.MaxDecimalPlaces("amount", decimal.RequireFromString("10000.255"), 2)
	assert.False(t, v.Valid())
}
