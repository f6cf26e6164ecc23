package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrIssueDeliveryCodeCommandIsNotConstructed = errors.New(
	"IssueDeliveryCodeCommand must be created via NewIssueDeliveryCodeCommand constructor",
)

// IssueDeliveryCodeCommand requests a fresh one-time delivery code for a
// shop order. Re-issuing replaces any previously stored code.
type IssueDeliveryCodeCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	shopOrderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewIssueDeliveryCodeCommand creates a code issue command.
func NewIssueDeliveryCodeCommand(
	orderID kernel.UUID,
	shopOrderID kernel.UUID,
) (IssueDeliveryCodeCommand, error) {
	command := IssueDeliveryCodeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setShopOrderID(shopOrderID),
	); err != nil {
		return IssueDeliveryCodeCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrIssueDeliveryCodeCommandIsNotConstructed if validation fails.
func (c IssueDeliveryCodeCommand) Validate() error {
	return c.guard.Validate(ErrIssueDeliveryCodeCommandIsNotConstructed)
}

// OrderID returns the parent order identity.
func (c IssueDeliveryCodeCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ShopOrderID returns the shop order the code belongs to.
func (c IssueDeliveryCodeCommand) ShopOrderID() kernel.UUID {
	return c.shopOrderID
}

func (c *IssueDeliveryCodeCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *IssueDeliveryCodeCommand) setShopOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.shopOrderID = id
	return nil
}
