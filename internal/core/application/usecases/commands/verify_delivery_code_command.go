package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrVerifyDeliveryCodeCommandIsNotConstructed = errors.New(
	"VerifyDeliveryCodeCommand must be created via NewVerifyDeliveryCodeCommand constructor",
)

// VerifyDeliveryCodeCommand runs the verification half of the delivery
// completion handshake: the courier or the customer-facing UI submits the
// code presented at the door.
type VerifyDeliveryCodeCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	shopOrderID kernel.UUID
	code        string

	guard guard.ConstructorGuard
}

// NewVerifyDeliveryCodeCommand creates a verification command.
// The submitted code must be non-empty; whether it is accepted is decided by
// the aggregate.
func NewVerifyDeliveryCodeCommand(
	orderID kernel.UUID,
	shopOrderID kernel.UUID,
	code string,
) (VerifyDeliveryCodeCommand, error) {
	command := VerifyDeliveryCodeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setShopOrderID(shopOrderID),
		command.setCode(code),
	); err != nil {
		return VerifyDeliveryCodeCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrVerifyDeliveryCodeCommandIsNotConstructed if validation fails.
func (c VerifyDeliveryCodeCommand) Validate() error {
	return c.guard.Validate(ErrVerifyDeliveryCodeCommandIsNotConstructed)
}

// OrderID returns the parent order identity.
func (c VerifyDeliveryCodeCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ShopOrderID returns the shop order being completed.
func (c VerifyDeliveryCodeCommand) ShopOrderID() kernel.UUID {
	return c.shopOrderID
}

// Code returns the submitted code.
func (c VerifyDeliveryCodeCommand) Code() string {
	return c.code
}

func (c *VerifyDeliveryCodeCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *VerifyDeliveryCodeCommand) setShopOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.shopOrderID = id
	return nil
}

func (c *VerifyDeliveryCodeCommand) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}

	c.code = code
	return nil
}
