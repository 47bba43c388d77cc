// Package services provides the domain services of the café fulfillment core:
// logic that spans aggregates or has no natural aggregate owner.
//
// The package includes:
//   - AuthorizationPolicy: the table of which role may perform which action on which order
//   - StatsCalculator: the pure recomputation of AggregateStats from an order set
//
// Both services are stateless and safe for concurrent use.
package services
