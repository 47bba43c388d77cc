// Package catalogrepo reads product prices from the products table.
package catalogrepo

import (
	"context"
	"errors"

	"cafe/internal/core/domain/model/catalog"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductDTO struct {
	ID       string          `gorm:"type:varchar(64);primaryKey"`
	Name     string          `gorm:"type:varchar(255);not null"`
	Category string          `gorm:"type:varchar(255)"`
	Price    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

// GormCatalog implements Catalog using GORM.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

// Upsert inserts or replaces a product. It is used to seed the catalog.
func (c *GormCatalog) Upsert(ctx context.Context, p catalog.Product) error {
	dto := ProductDTO{
		ID:       p.ID(),
		Name:     p.Name(),
		Category: p.Category(),
		Price:    p.Price().Amount(),
	}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "price"}),
	}).Create(&dto).Error
}

func (c *GormCatalog) GetProduct(ctx context.Context, productID string) (catalog.Product, error) {
	var dto ProductDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Product{}, errs.NewObjectNotFoundError("productID", productID)
		}
		return catalog.Product{}, err
	}

	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return catalog.Product{}, err
	}
	return catalog.NewProduct(dto.ID, dto.Name, dto.Category, price)
}
