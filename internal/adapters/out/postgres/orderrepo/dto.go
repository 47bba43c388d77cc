// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"errors"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items are stored as a JSONB document; the total is stored for reporting
// queries but recomputed from the lines when an order is loaded.
type OrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerName string          `gorm:"type:varchar(255);not null"`
	Type         int             `gorm:"type:smallint;not null"`
	Status       int             `gorm:"type:smallint;not null;index"`
	LineItems    []LineItemDTO   `gorm:"type:jsonb;serializer:json;not null"`
	Total        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Location     LocationDTO     `gorm:"embedded;embeddedPrefix:location_"`
	CourierID    *uuid.UUID      `gorm:"type:uuid;index"`
	CourierName  string          `gorm:"type:varchar(255)"`
	CreatedAt    time.Time       `gorm:"not null;index"`
	Version      int64           `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one element of the line_items JSON document.
type LineItemDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LocationDTO represents the embedded delivery address within the order table.
// Both columns are NULL for pickup orders.
type LocationDTO struct {
	Address *string `gorm:"type:varchar(255)"`
	City    *string `gorm:"type:varchar(255)"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	var location LocationDTO
	if loc := aggregate.DeliveryLocation(); loc != nil {
		address, city := loc.Address(), loc.City()
		location = LocationDTO{Address: &address, City: &city}
	}

	items := aggregate.LineItems()
	lines := make([]LineItemDTO, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineItemDTO{
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Category:  item.Category(),
			UnitPrice: item.UnitPrice().Amount(),
			Quantity:  item.Quantity(),
		})
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		CustomerName: aggregate.CustomerName(),
		Type:         int(aggregate.Type()),
		Status:       int(aggregate.Status()),
		LineItems:    lines,
		Total:        aggregate.Total().Amount(),
		Location:     location,
		CourierID:    courierID,
		CourierName:  aggregate.CourierName(),
		CreatedAt:    aggregate.CreatedAt(),
		Version:      aggregate.Version(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}

		courierID = &cID
	}

	var location *kernel.DeliveryLocation
	if dto.Location.Address != nil && dto.Location.City != nil {
		loc, locErr := kernel.NewDeliveryLocation(*dto.Location.Address, *dto.Location.City)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	items := make([]order.LineItem, 0, len(dto.LineItems))
	var lineErrs []error
	for _, line := range dto.LineItems {
		price, priceErr := kernel.NewMoney(line.UnitPrice)
		if priceErr != nil {
			lineErrs = append(lineErrs, priceErr)
			continue
		}
		item, itemErr := order.NewLineItem(line.ProductID, line.Name, line.Category, price, line.Quantity)
		lineErrs = append(lineErrs, itemErr)
		items = append(items, item)
	}
	if err = errors.Join(lineErrs...); err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.CustomerName,
		order.Type(dto.Type),
		items,
		location,
		order.Status(dto.Status),
		courierID,
		dto.CourierName,
		dto.CreatedAt,
		dto.Version,
	)
}
