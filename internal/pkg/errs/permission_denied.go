package errs

import (
	"errors"
	"fmt"
)

var ErrPermissionDenied = errors.New("permission denied")

// PermissionDeniedError is returned when the authorization policy rejects an action.
type PermissionDeniedError struct {
	Role   string
	Action string
	Cause  error
}

func NewPermissionDeniedError(role string, action string) *PermissionDeniedError {
	return &PermissionDeniedError{
		Role:   role,
		Action: action,
	}
}

func NewPermissionDeniedErrorWithCause(role string, action string, cause error) *PermissionDeniedError {
	return &PermissionDeniedError{
		Role:   role,
		Action: action,
		Cause:  cause,
	}
}

func (e *PermissionDeniedError) Error() string {
	return withCause(fmt.Sprintf("%s: %s may not %s", ErrPermissionDenied, e.Role, e.Action), e.Cause)
}

func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}
