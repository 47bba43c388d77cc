package kernel

import (
	"errors"
	"strings"

	"cafe/internal/pkg/errs"
	"cafe/internal/pkg/guard"
)

// ErrDeliveryLocationIsNotConstructed is returned when a DeliveryLocation was not
// created through NewDeliveryLocation.
var ErrDeliveryLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"delivery location must be created via NewDeliveryLocation")

// DeliveryLocation is the address a Delivery order is taken to.
// Both parts are trimmed and required.
//
// Example:
//
//	loc, err := kernel.NewDeliveryLocation("12 Baker St", "London")
//	if err != nil {
//	    // Handle validation error
//	}
type DeliveryLocation struct {
	address string
	city    string
	guard   guard.ConstructorGuard
}

// NewDeliveryLocation validates and builds a DeliveryLocation.
//
// Parameters:
//   - address: street address, required
//   - city: city name, required
//
// Returns:
//   - DeliveryLocation: the location when both parts are present
//   - error: joined validation errors otherwise
func NewDeliveryLocation(address string, city string) (DeliveryLocation, error) {
	loc := DeliveryLocation{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setAddress(address), loc.setCity(city)); err != nil {
		return DeliveryLocation{}, err
	}

	return loc, nil
}

func (l DeliveryLocation) Address() string {
	return l.address
}

func (l DeliveryLocation) City() string {
	return l.city
}

// Validate fails for a zero-value location.
func (l DeliveryLocation) Validate() error {
	return l.guard.Validate(ErrDeliveryLocationIsNotConstructed)
}

func (l DeliveryLocation) IsEqual(other DeliveryLocation) bool {
	return l.address == other.address && l.city == other.city
}

func (l DeliveryLocation) String() string {
	return l.address + ", " + l.city
}

func (l *DeliveryLocation) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	l.address = address
	return nil
}

func (l *DeliveryLocation) setCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	l.city = city
	return nil
}
