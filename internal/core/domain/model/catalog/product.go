// Package catalog holds the read-only product view the fulfillment core uses to
// price order lines. Catalog maintenance happens elsewhere.
package catalog

import (
	"errors"
	"strings"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
)

// Product is a sellable item as published by the catalog.
type Product struct {
	id       string
	name     string
	category string
	price    kernel.Money
}

// NewProduct validates a catalog entry. Category may be empty.
func NewProduct(id string, name string, category string, price kernel.Money) (Product, error) {
	p := Product{
		id:       strings.TrimSpace(id),
		name:     strings.TrimSpace(name),
		category: strings.TrimSpace(category),
		price:    price,
	}

	var idErr, nameErr error
	if p.id == "" {
		idErr = errs.NewValueIsRequiredError("productId")
	}
	if p.name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(idErr, nameErr); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (p Product) ID() string {
	return p.id
}

func (p Product) Name() string {
	return p.name
}

func (p Product) Category() string {
	return p.category
}

func (p Product) Price() kernel.Money {
	return p.price
}
