package audit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the sentinel matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports fields that block a record from being committed.
//
// A ValidationError is recovered locally: the form keeps its data and the
// user is asked to fill in the listed fields.
type ValidationError struct {
	// Fields holds the offending field names in form order.
	Fields []Field

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(names, ", "))
}

// Is allows errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsValidationError checks if err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
