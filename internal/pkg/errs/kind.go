package errs

import (
	"context"
	"errors"
)

// Kind is the stable, transport-independent classification of an error.
type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindPermissionDenied    Kind = "permission_denied"
	KindConflict            Kind = "conflict"
	KindNotFound            Kind = "not_found"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindUnavailable         Kind = "unavailable"
	KindInternal            Kind = "internal"
)

// KindOf classifies err. A nil error has no kind and returns "".
// Expired or cancelled contexts are reported as KindUnavailable.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindUnavailable
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindInternal
	}
}

// IsRetryable reports whether the same request may succeed if repeated.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindConflict, KindUnavailable:
		return true
	default:
		return false
	}
}
