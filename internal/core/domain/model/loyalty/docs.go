// Package loyalty models the café's points program: per-customer balances,
// the program rules that convert spend into points and points into rewards,
// and the accrual entries that make per-order grants idempotent.
//
// Key business rules:
//   - Balances never go negative; an over-redemption is rejected, not clamped
//   - Accrual and redemption amounts are strictly positive
//   - An order grants points at most once
package loyalty
