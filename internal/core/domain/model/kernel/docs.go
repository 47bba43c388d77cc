// Package kernel holds the value objects shared by every aggregate of the café
// domain: identifiers, money amounts and delivery addresses.
//
// The package includes:
//   - UUID: identifier for orders, actors and couriers
//   - Money: non-negative decimal amount with two-digit presentation
//   - DeliveryLocation: street address and city an order is delivered to
//
// All values are immutable. Zero values of UUID and DeliveryLocation are invalid
// and fail Validate, which lets aggregates detect fields that skipped construction.
package kernel
