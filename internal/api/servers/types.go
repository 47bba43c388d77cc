// Package servers holds the wire types, routing and embedded OpenAPI document
// of the public HTTP API. The document in openapi.yaml is the contract; the Go
// types here mirror its schemas one to one.
package servers

import (
	"time"

	"github.com/google/uuid"
)

// Error codes. They match errs.Kind values plus unauthenticated.
const (
	ErrorCodeUnauthenticated = "unauthenticated"
)

// Error defines model for Error.
type Error struct {
	Code      string  `json:"code"`
	Message   string  `json:"message"`
	Retryable bool    `json:"retryable"`
	Reason    *string `json:"reason,omitempty"`
}

// Location defines model for Location.
type Location struct {
	Address string `json:"address"`
	City    string `json:"city"`
}

// LineItemInput defines model for LineItemInput.
type LineItemInput struct {
	ProductId string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	Id               *uuid.UUID      `json:"id,omitempty"`
	CustomerName     string          `json:"customerName"`
	Type             string          `json:"type"`
	LineItems        []LineItemInput `json:"lineItems"`
	DeliveryLocation *Location       `json:"deliveryLocation,omitempty"`
}

// LineItem defines model for LineItem.
type LineItem struct {
	ProductId string `json:"productId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// Order defines model for Order.
type Order struct {
	Id               uuid.UUID  `json:"id"`
	CustomerName     string     `json:"customerName"`
	Type             string     `json:"type"`
	Status           string     `json:"status"`
	LineItems        []LineItem `json:"lineItems"`
	Total            string     `json:"total"`
	DeliveryLocation *Location  `json:"deliveryLocation,omitempty"`
	CourierId        *uuid.UUID `json:"courierId,omitempty"`
	CourierName      *string    `json:"courierName,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	Version          int64      `json:"version"`
}

// AssignCourier defines model for AssignCourier. A missing courierId claims
// the order for the caller.
type AssignCourier struct {
	CourierId *uuid.UUID `json:"courierId,omitempty"`
}

// StatusChange defines model for StatusChange.
type StatusChange struct {
	Status string `json:"status"`
}

// DuplicateOrder defines model for DuplicateOrder.
type DuplicateOrder struct {
	Id *uuid.UUID `json:"id,omitempty"`
}

// Courier defines model for Courier.
type Courier struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductCount defines model for ProductCount.
type ProductCount struct {
	ProductId string `json:"productId"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
}

// CategoryRevenue defines model for CategoryRevenue.
type CategoryRevenue struct {
	Category string `json:"category"`
	Revenue  string `json:"revenue"`
}

// DailyRevenue defines model for DailyRevenue.
type DailyRevenue struct {
	Date    string `json:"date"`
	Revenue string `json:"revenue"`
}

// Stats defines model for Stats.
type Stats struct {
	TotalOrders       int                `json:"totalOrders"`
	TotalRevenue      string             `json:"totalRevenue"`
	CountsByStatus    map[string]int     `json:"countsByStatus"`
	CountsByType      map[string]int     `json:"countsByType"`
	TypeShares        map[string]float64 `json:"typeShares"`
	AverageOrderValue string             `json:"averageOrderValue"`
	TopProducts       []ProductCount     `json:"topProducts"`
	RevenueByCategory []CategoryRevenue  `json:"revenueByCategory"`
	DailyRevenue      []DailyRevenue     `json:"dailyRevenue"`
	ComputedAt        time.Time          `json:"computedAt"`
	SourceVersion     uint64             `json:"sourceVersion"`
}

// PointsChange defines model for PointsChange.
type PointsChange struct {
	Points int64 `json:"points"`
}

// Reward defines model for Reward.
type Reward struct {
	PointsThreshold int64  `json:"pointsThreshold"`
	Name            string `json:"name"`
}

// Account defines model for Account.
type Account struct {
	CustomerId      string    `json:"customerId"`
	Points          int64     `json:"points"`
	LastUpdated     time.Time `json:"lastUpdated"`
	EligibleRewards []Reward  `json:"eligibleRewards,omitempty"`
}

// AccrualResult defines model for AccrualResult.
type AccrualResult struct {
	Account Account `json:"account"`
	Points  int64   `json:"points"`
	Applied bool    `json:"applied"`
}

// Program defines model for Program.
type Program struct {
	PointsPerDollar string   `json:"pointsPerDollar"`
	Rewards         []Reward `json:"rewards"`
}

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	Type   *string `form:"type,omitempty" json:"type,omitempty"`
	Q      *string `form:"q,omitempty" json:"q,omitempty"`
}
