package errs

import (
	"errors"
	"fmt"
)

var ErrConflict = errors.New("conflict")

// ConflictReason is the machine-readable reason carried by a ConflictError.
type ConflictReason string

const (
	// ConflictAlreadyAssigned means the order was claimed by a courier before this request.
	ConflictAlreadyAssigned ConflictReason = "already_assigned"
	// ConflictVersionMismatch means another writer committed after the order was read.
	ConflictVersionMismatch ConflictReason = "version_mismatch"
	// ConflictAlreadyExists means a record with the same identifier is already stored.
	ConflictAlreadyExists ConflictReason = "already_exists"
)

// ConflictError reports a write that lost against a concurrent writer or
// against state established by an earlier one. Callers may retry.
type ConflictError struct {
	Reason    ConflictReason
	ParamName string
	ID        any
	Cause     error
}

func NewConflictError(reason ConflictReason, paramName string, id any) *ConflictError {
	return &ConflictError{
		Reason:    reason,
		ParamName: paramName,
		ID:        id,
	}
}

func NewConflictErrorWithCause(reason ConflictReason, paramName string, id any, cause error) *ConflictError {
	return &ConflictError{
		Reason:    reason,
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ConflictError) Error() string {
	return withCause(fmt.Sprintf("%s: %s: %s %v", ErrConflict, e.Reason, e.ParamName, e.ID), e.Cause)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// IsConflictReason reports whether err is a ConflictError with the given reason.
func IsConflictReason(err error, reason ConflictReason) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict) && conflict.Reason == reason
}
