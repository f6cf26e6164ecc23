package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrLineItemIsNotConstructed is returned when using an improperly initialized LineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is an immutable snapshot of one menu item at checkout time.
// Name and price are captured when the order is placed and stay frozen even
// if the restaurant later edits its menu.
type LineItem struct { //nolint:recvcheck //using for validation
	menuItemID kernel.UUID
	name       string
	price      decimal.Decimal
	quantity   int

	guard guard.ConstructorGuard
}

// NewLineItem creates a line item snapshot.
// Name must be non-empty, price non-negative, and quantity positive.
func NewLineItem(menuItemID kernel.UUID, name string, price decimal.Decimal, quantity int) (LineItem, error) {
	item := LineItem{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setMenuItemID(menuItemID),
		item.setName(name),
		item.setPrice(price),
		item.setQuantity(quantity),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate ensures the LineItem was created through the constructor.
func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

// MenuItemID returns the referenced menu item identifier.
func (i LineItem) MenuItemID() kernel.UUID {
	return i.menuItemID
}

// Name returns the item name captured at order time.
func (i LineItem) Name() string {
	return i.name
}

// Price returns the unit price captured at order time.
func (i LineItem) Price() decimal.Decimal {
	return i.price
}

// Quantity returns the ordered quantity.
func (i LineItem) Quantity() int {
	return i.quantity
}

// Total returns price multiplied by quantity.
func (i LineItem) Total() decimal.Decimal {
	return i.price.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *LineItem) setMenuItemID(menuItemID kernel.UUID) error {
	if err := menuItemID.Validate(); err != nil {
		return err
	}
	i.menuItemID = menuItemID
	return nil
}

func (i *LineItem) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = name
	return nil
}

func (i *LineItem) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	i.price = price
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
