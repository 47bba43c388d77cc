package order

import (
	"fmt"
	"strings"

	"cafe/internal/pkg/errs"
)

// Status represents the fulfillment state of an order.
//
// State transitions:
//
//	Pending ──> Processing ──> Completed
//	   │             │
//	   └─────────────┴──────> Cancelled
//
// Completed and Cancelled are terminal. The string forms ("pending",
// "processing", "completed", "cancelled") are used on the wire and in storage.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the status of every newly created order.
	Pending

	// Processing means the order is being prepared or is out for delivery.
	Processing

	// Completed means the order was handed to the customer.
	Completed

	// Cancelled means the order was abandoned before completion.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Processing: "processing",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// getTransitions lists the outgoing edges of the state machine.
// Terminal states have no entry.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown states have no outgoing edges
	return map[Status][]Status{
		Pending:    {Processing, Cancelled},
		Processing: {Completed, Cancelled},
	}
}

// AllStatuses returns every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Processing, Completed, Cancelled}
}

// ParseStatus converts a wire name into a Status. Matching ignores case.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, status := range AllStatuses() {
		if status.String() == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the four lifecycle states.
func (s Status) Validate() error {
	if s < Pending || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, or "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// ValidateTransition checks that s -> to is an edge of the state machine.
//
// Returns:
//   - nil if the edge exists
//   - a validation error for unknown targets, self-transitions, edges out of
//     terminal states and skipped steps such as Pending -> Completed
//
// Example:
//
//	if err := order.Pending.ValidateTransition(order.Completed); err != nil {
//	    // Pending orders must be processed first
//	}
func (s Status) ValidateTransition(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	for _, next := range getTransitions()[s] {
		if next == to {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("transition from %s to %s is not allowed", s.String(), to.String()),
	)
}

// TransitionTo returns the target status when the edge is allowed.
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := s.ValidateTransition(to); err != nil {
		return 0, err
	}
	return to, nil
}
