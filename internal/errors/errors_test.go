package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation", Validation([]FieldError{{Field: "amount", Message: "required"}}), KindValidation},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("no deposit")), KindNotFound},
		{"invalid state", InvalidState("already processed"), KindInvalidState},
		{"forbidden", Forbidden("admin only"), KindForbidden},
		{"plain error is internal", stderrors.New("disk on fire"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInternal_HidesCause(t *testing.T) {
	cause := stderrors.New("pq: connection refused")
	err := Internal(cause)

	assert.Equal(t, "internal error", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestFieldMap(t *testing.T) {
	err := Validation([]FieldError{
		{Field: "amount", Message: "amount is required"},
		{Field: "amount", Message: "amount must be numeric"},
		{Field: "bank_account", Message: "bank account is required"},
	})

	fields := err.FieldMap()
	assert.Len(t, fields["amount"], 2)
	assert.Equal(t, []string{"bank account is required"}, fields["bank_account"])
	assert.Nil(t, NotFound("x").FieldMap())
}
