package shipping

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRequiredField = errors.New("shipping: missing required field")
	ErrValidation           = errors.New("shipping: validation failed")
	ErrCarrier              = errors.New("shipping: carrier error")
)

// MissingRequiredFieldError reports a required field absent for an operation.
type MissingRequiredFieldError struct {
	Operation string
	Field     Field
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("shipping: %s: missing required field %s", e.Operation, e.Field)
}

func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// ValidationError reports a field that is present but structurally invalid.
type ValidationError struct {
	Operation string
	Field     Field
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("shipping: %s: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("shipping: %s field=%s: %s", e.Operation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// CarrierError reports a fault returned by the carrier or an unusable reply.
// Error returns the carrier text verbatim, e.g. "Error E001: Invalid meter".
type CarrierError struct {
	Carrier   string
	Operation string
	Code      string
	Message   string
	Text      string
}

// NewFaultError builds the combined "Error {code}: {message}" form.
func NewFaultError(carrier, operation, code, message string) *CarrierError {
	return &CarrierError{
		Carrier:   carrier,
		Operation: operation,
		Code:      code,
		Message:   message,
		Text:      fmt.Sprintf("Error %s: %s", code, message),
	}
}

func (e *CarrierError) Error() string {
	return e.Text
}

func (e *CarrierError) Is(target error) bool {
	return target == ErrCarrier
}
