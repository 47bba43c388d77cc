// Package order provides the Order aggregate of the café: what was ordered, by
// whom, how it is fulfilled, and where it stands in its lifecycle.
//
// The package includes:
//   - Order: the aggregate root owning line items, total, status and courier claim
//   - LineItem: a priced product line resolved from the catalog
//   - Status: the fulfillment state machine
//   - Type: pickup or delivery
//
// Key business rules:
//   - The total is always the sum of unit price times quantity over the lines
//   - Status follows Pending -> Processing -> Completed, and Pending or Processing -> Cancelled
//   - Completed and Cancelled are terminal
//   - Only delivery orders carry a delivery location and a courier
//   - A courier claims an order once; a second claim is a conflict
//   - Every committed write advances the version used for optimistic concurrency
package order
