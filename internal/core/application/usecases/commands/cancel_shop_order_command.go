package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrCancelShopOrderCommandIsNotConstructed = errors.New(
	"CancelShopOrderCommand must be created via NewCancelShopOrderCommand constructor",
)

// CancelShopOrderCommand represents a cancellation request for one shop
// order. Cancellation rules depend on who asks: customers may only cancel
// while the shop order is still Pending, couriers must give a reason.
//
// Example:
//
//	cmd, err := NewCancelShopOrderCommand(orderID, shopOrderID,
//	    "kitchen out of stock", order.CancelledByOperator)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("cancellation failed: %w", err)
//	}
type CancelShopOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	shopOrderID kernel.UUID
	reason      string
	by          order.CancelActor

	guard guard.ConstructorGuard
}

// NewCancelShopOrderCommand creates a cancellation command.
// The actor must be a member of the closed actor set; the per-actor rules
// are enforced by the aggregate.
func NewCancelShopOrderCommand(
	orderID kernel.UUID,
	shopOrderID kernel.UUID,
	reason string,
	by order.CancelActor,
) (CancelShopOrderCommand, error) {
	command := CancelShopOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setShopOrderID(shopOrderID),
		command.setActor(by),
	); err != nil {
		return CancelShopOrderCommand{}, err
	}

	command.reason = reason
	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelShopOrderCommandIsNotConstructed if validation fails.
func (c CancelShopOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelShopOrderCommandIsNotConstructed)
}

// OrderID returns the parent order identity.
func (c CancelShopOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ShopOrderID returns the shop order to cancel.
func (c CancelShopOrderCommand) ShopOrderID() kernel.UUID {
	return c.shopOrderID
}

// Reason returns the cancellation reason. May be empty except for couriers.
func (c CancelShopOrderCommand) Reason() string {
	return c.reason
}

// By returns who requested the cancellation.
func (c CancelShopOrderCommand) By() order.CancelActor {
	return c.by
}

func (c *CancelShopOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CancelShopOrderCommand) setShopOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.shopOrderID = id
	return nil
}

func (c *CancelShopOrderCommand) setActor(by order.CancelActor) error {
	if err := by.Validate(); err != nil {
		return err
	}

	c.by = by
	return nil
}
