// Package errors defines the domain error taxonomy shared by services and
// handlers. Import it under an alias (apperrors) next to the standard
// library package.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure for callers and for the HTTP layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// FieldError reports one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError is the error type every service returns.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// FieldMap groups field errors by field name, the shape the API returns.
func (e *DomainError) FieldMap() map[string][]string {
	if len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

func Validation(fields []FieldError) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    "VALIDATION_FAILED",
		Message: "invalid input",
		Fields:  fields,
	}
}

func NotFound(message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: "NOT_FOUND", Message: message}
}

func InvalidState(message string) *DomainError {
	return &DomainError{Kind: KindInvalidState, Code: "INVALID_STATE", Message: message}
}

func Forbidden(message string) *DomainError {
	return &DomainError{Kind: KindForbidden, Code: "FORBIDDEN", Message: message}
}

// Internal wraps an unexpected failure. Only the generic message is shown
// to clients; the wrapped error goes to logs.
func Internal(err error) *DomainError {
	return &DomainError{Kind: KindInternal, Code: "INTERNAL", Message: "internal error", Err: err}
}

// As is errors.As specialised to *DomainError.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf classifies err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if de, ok := As(err); ok {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err belongs to kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
