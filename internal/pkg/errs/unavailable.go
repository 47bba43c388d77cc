package errs

import (
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("unavailable")

// UnavailableError reports an operation that could not complete because a
// dependency failed or its deadline expired. The request may be retried.
type UnavailableError struct {
	Operation string
	Cause     error
}

func NewUnavailableError(operation string) *UnavailableError {
	return &UnavailableError{Operation: operation}
}

func NewUnavailableErrorWithCause(operation string, cause error) *UnavailableError {
	return &UnavailableError{
		Operation: operation,
		Cause:     cause,
	}
}

func (e *UnavailableError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrUnavailable, e.Operation), e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}
