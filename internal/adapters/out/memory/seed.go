package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"cafe/internal/core/domain/model/catalog"
	"cafe/internal/core/domain/model/courier"
	"cafe/internal/core/domain/model/kernel"
)

// Seed is the JSON document that fills the in-memory catalog and courier
// directory at startup.
//
//	{
//	  "products": [{"id": "P1", "name": "Latte", "category": "coffee", "price": "4.50"}],
//	  "couriers": [{"id": "2f0c...", "name": "Sam"}]
//	}
type Seed struct {
	Products []SeedProduct `json:"products"`
	Couriers []SeedCourier `json:"couriers"`
}

type SeedProduct struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
}

type SeedCourier struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err = json.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed file: %w", err)
	}
	return seed, nil
}

// Build converts the seed into domain objects, reporting every invalid entry.
func (s Seed) Build() ([]catalog.Product, []*courier.Courier, error) {
	var buildErrs []error

	products := make([]catalog.Product, 0, len(s.Products))
	for _, p := range s.Products {
		price, err := kernel.MoneyFromString(p.Price)
		if err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("product %q: %w", p.ID, err))
			continue
		}
		product, err := catalog.NewProduct(p.ID, p.Name, p.Category, price)
		if err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("product %q: %w", p.ID, err))
			continue
		}
		products = append(products, product)
	}

	couriers := make([]*courier.Courier, 0, len(s.Couriers))
	for _, c := range s.Couriers {
		id, err := kernel.UUIDFromString(c.ID)
		if err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("courier %q: %w", c.ID, err))
			continue
		}
		built, err := courier.NewCourier(id, c.Name)
		if err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("courier %q: %w", c.ID, err))
			continue
		}
		couriers = append(couriers, built)
	}

	return products, couriers, errors.Join(buildErrs...)
}
