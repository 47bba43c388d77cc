// Package errs provides standardized error types for the café order service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for common error scenarios:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation failures
//   - ObjectNotFoundError: an order, account or collaborator record cannot be found
//   - PermissionDeniedError: the acting role may not perform the action
//   - ConflictError: a concurrent writer won, or the order is already claimed
//   - InsufficientBalanceError: a loyalty redemption exceeds the balance
//   - UnavailableError: a dependency or deadline prevented completion
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// KindOf classifies any error into a stable Kind used by transports and metrics.
package errs
