// Package courier models the couriers known to the courier directory. The
// fulfillment core only needs a courier's identity and display name to record
// who claimed a delivery order.
package courier
