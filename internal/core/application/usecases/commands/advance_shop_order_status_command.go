package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceShopOrderStatusCommandIsNotConstructed = errors.New(
	"AdvanceShopOrderStatusCommand must be created via NewAdvanceShopOrderStatusCommand constructor",
)

// AdvanceShopOrderStatusCommand represents a restaurant operator pushing a
// shop order forward through its lifecycle. Advancing may trigger the
// dispatch chain; the status change and the dispatch outcome are independent.
//
// Example:
//
//	cmd, err := NewAdvanceShopOrderStatusCommand(orderID, shopID, order.Preparing)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("status push failed: %w", err)
//	}
type AdvanceShopOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	shopID    kernel.UUID
	newStatus order.Status

	guard guard.ConstructorGuard
}

// NewAdvanceShopOrderStatusCommand creates a command to advance a shop order.
// The target status must be a member of the closed state set; whether the
// transition is allowed from the current state is decided by the aggregate.
func NewAdvanceShopOrderStatusCommand(
	orderID kernel.UUID,
	shopID kernel.UUID,
	newStatus order.Status,
) (AdvanceShopOrderStatusCommand, error) {
	command := AdvanceShopOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setShopID(shopID),
		command.setNewStatus(newStatus),
	); err != nil {
		return AdvanceShopOrderStatusCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAdvanceShopOrderStatusCommandIsNotConstructed if validation fails.
func (c AdvanceShopOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceShopOrderStatusCommandIsNotConstructed)
}

// OrderID returns the parent order identity.
func (c AdvanceShopOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ShopID returns the restaurant whose portion is advanced.
func (c AdvanceShopOrderStatusCommand) ShopID() kernel.UUID {
	return c.shopID
}

// NewStatus returns the target status.
func (c AdvanceShopOrderStatusCommand) NewStatus() order.Status {
	return c.newStatus
}

func (c *AdvanceShopOrderStatusCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *AdvanceShopOrderStatusCommand) setShopID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.shopID = id
	return nil
}

func (c *AdvanceShopOrderStatusCommand) setNewStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.newStatus = status
	return nil
}
