package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRedispatchShopOrderCommandIsNotConstructed = errors.New(
	"RedispatchShopOrderCommand must be created via NewRedispatchShopOrderCommand constructor",
)

// RedispatchShopOrderCommand retries dispatch for a shop order that wants a
// courier but has no live broadcast. Issued by the dispatch retry job for
// shop orders whose earlier broadcast found no candidates.
type RedispatchShopOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	shopOrderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRedispatchShopOrderCommand creates a dispatch retry command.
func NewRedispatchShopOrderCommand(
	orderID kernel.UUID,
	shopOrderID kernel.UUID,
) (RedispatchShopOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), shopOrderID.Validate()); err != nil {
		return RedispatchShopOrderCommand{}, err
	}

	return RedispatchShopOrderCommand{
		orderID:     orderID,
		shopOrderID: shopOrderID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRedispatchShopOrderCommandIsNotConstructed if validation fails.
func (c RedispatchShopOrderCommand) Validate() error {
	return c.guard.Validate(ErrRedispatchShopOrderCommandIsNotConstructed)
}

// OrderID returns the owning order.
func (c RedispatchShopOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ShopOrderID returns the shop order to re-dispatch.
func (c RedispatchShopOrderCommand) ShopOrderID() kernel.UUID {
	return c.shopOrderID
}
