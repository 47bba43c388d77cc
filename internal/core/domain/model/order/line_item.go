package order

import (
	"errors"
	"strings"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
	"cafe/internal/pkg/guard"
)

const (
	// MinQuantity is the smallest quantity a line may carry.
	MinQuantity = 1
	// MaxQuantity caps a single line to keep totals within storage precision.
	MaxQuantity = 999
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created through NewLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one product line of an order, priced at the moment the order was
// placed. Name, category and unit price are copied from the catalog so later
// catalog edits do not rewrite order history.
type LineItem struct {
	productID string
	name      string
	category  string
	unitPrice kernel.Money
	quantity  int
	guard     guard.ConstructorGuard
}

// NewLineItem validates and builds a line.
//
// Parameters:
//   - productID: catalog identifier, required
//   - name: product display name, required
//   - category: catalog category, may be empty
//   - unitPrice: price for one unit
//   - quantity: number of units, between MinQuantity and MaxQuantity
//
// Returns:
//   - LineItem: the constructed line
//   - error: joined validation errors for every invalid argument
func NewLineItem(productID string, name string, category string, unitPrice kernel.Money, quantity int) (LineItem, error) {
	item := LineItem{
		category:  strings.TrimSpace(category),
		unitPrice: unitPrice,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setName(name),
		item.setQuantity(quantity),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

func (l LineItem) ProductID() string {
	return l.productID
}

func (l LineItem) Name() string {
	return l.name
}

func (l LineItem) Category() string {
	return l.category
}

func (l LineItem) UnitPrice() kernel.Money {
	return l.unitPrice
}

func (l LineItem) Quantity() int {
	return l.quantity
}

// Subtotal returns unit price times quantity.
func (l LineItem) Subtotal() kernel.Money {
	return l.unitPrice.Times(l.quantity)
}

func (l LineItem) Validate() error {
	return l.guard.Validate(ErrLineItemIsNotConstructed)
}

func (l *LineItem) setProductID(productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	l.productID = productID
	return nil
}

func (l *LineItem) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	l.name = name
	return nil
}

func (l *LineItem) setQuantity(quantity int) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, MinQuantity, MaxQuantity)
	}
	l.quantity = quantity
	return nil
}
