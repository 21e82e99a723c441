package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is matched by every input validation failure.
var ErrValidation = errors.New("please provide all required information")

// ValidationError lists the required fields that were missing or zero.
type ValidationError struct {
	Fields []string
	cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("service: %s", ErrValidation)
	}
	return fmt.Sprintf("service: missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Is reports ErrValidation as the target so callers can use errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}
