// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models shaped for the HTTP layer and never mutate state.
package queries

import (
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
)

// OrderView is the read model of a single order.
type OrderView struct {
	ID               kernel.UUID
	CustomerName     string
	Type             order.Type
	Status           order.Status
	LineItems        []LineItemView
	Total            kernel.Money
	DeliveryLocation *LocationView
	CourierID        *kernel.UUID
	CourierName      string
	CreatedAt        time.Time
	Version          int64
}

type LineItemView struct {
	ProductID string
	Name      string
	Category  string
	UnitPrice kernel.Money
	Quantity  int
	Subtotal  kernel.Money
}

type LocationView struct {
	Address string
	City    string
}

// NewOrderView copies an order into its read model.
func NewOrderView(o *order.Order) OrderView {
	items := o.LineItems()
	view := OrderView{
		ID:           o.ID(),
		CustomerName: o.CustomerName(),
		Type:         o.Type(),
		Status:       o.Status(),
		LineItems:    make([]LineItemView, 0, len(items)),
		Total:        o.Total(),
		CourierName:  o.CourierName(),
		CreatedAt:    o.CreatedAt(),
		Version:      o.Version(),
	}
	for _, item := range items {
		view.LineItems = append(view.LineItems, LineItemView{
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Category:  item.Category(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
			Subtotal:  item.Subtotal(),
		})
	}
	if loc := o.DeliveryLocation(); loc != nil {
		view.DeliveryLocation = &LocationView{Address: loc.Address(), City: loc.City()}
	}
	if id := o.CourierID(); id != nil {
		courierID := *id
		view.CourierID = &courierID
	}
	return view
}
