package order

import (
	"fmt"
	"strings"

	"cafe/internal/pkg/errs"
)

// Type tells how the order reaches the customer.
type Type int

const (
	UnknownType Type = iota
	// Pickup orders are collected at the counter and never have a courier.
	Pickup
	// Delivery orders carry a delivery location and may be claimed by a courier.
	Delivery
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		UnknownType: "unknown",
		Pickup:      "pickup",
		Delivery:    "delivery",
	}
}

// AllTypes returns every valid order type.
func AllTypes() []Type {
	return []Type{Pickup, Delivery}
}

// ParseType converts a wire name into a Type. Matching ignores case.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllTypes() {
		if t.String() == name {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("orderType", fmt.Errorf("%q is not a valid order type", s))
}

func (t Type) Validate() error {
	if t != Pickup && t != Delivery {
		return errs.NewValueIsInvalidErrorWithCause("orderType", fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}
