// Package courierrepo is the PostgreSQL courier directory. Couriers are
// maintained by an external roster; the fulfillment core only reads them to
// resolve names during assignment.
package courierrepo

import (
	"cafe/internal/core/domain/model/courier"
	"cafe/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure of a courier row.
type CourierDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(255);not null"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:   c.ID().Bytes(),
		Name: c.Name(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return courier.NewCourier(id, dto.Name)
}
