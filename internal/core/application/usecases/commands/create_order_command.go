package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// LineItemDraft is the checkout snapshot of one menu item.
type LineItemDraft struct {
	MenuItemID kernel.UUID
	Name       string
	Price      decimal.Decimal
	Quantity   int
}

// ShopOrderDraft is the checkout data for one restaurant's portion of the cart.
type ShopOrderDraft struct {
	ShopID     kernel.UUID
	ShopName   string
	OperatorID kernel.UUID
	Items      []LineItemDraft
}

// CreateOrderCommand represents a checkout request. It carries the full cart
// grouped per restaurant; prices are frozen into the order as snapshots.
//
// Example:
//
//	address, _ := kernel.NewGeoPoint(28.60, 77.10)
//	cmd, err := NewCreateOrderCommand(customerID, order.PaymentCashOnDelivery,
//	    "14 Lodhi Road, New Delhi", address, drafts)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	customerID      kernel.UUID
	paymentMethod   order.PaymentMethod
	addressText     string
	deliveryAddress kernel.GeoPoint
	shopOrders      []ShopOrderDraft

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a checkout command.
// Automatically generates a unique ID for the order. Validates the customer,
// payment method, address, and that at least one shop order draft is present.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	paymentMethod order.PaymentMethod,
	addressText string,
	deliveryAddress kernel.GeoPoint,
	shopOrders []ShopOrderDraft,
) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(kernel.NewUUID()),
		command.setCustomerID(customerID),
		command.setPaymentMethod(paymentMethod),
		command.setAddress(addressText, deliveryAddress),
		command.setShopOrders(shopOrders),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the generated order ID.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the ordering customer identity.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// PaymentMethod returns the selected payment method.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// AddressText returns the free-form delivery address.
func (c CreateOrderCommand) AddressText() string {
	return c.addressText
}

// DeliveryAddress returns the delivery coordinates.
func (c CreateOrderCommand) DeliveryAddress() kernel.GeoPoint {
	return c.deliveryAddress
}

// ShopOrders returns the per-restaurant cart drafts.
func (c CreateOrderCommand) ShopOrders() []ShopOrderDraft {
	return c.shopOrders
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}

func (c *CreateOrderCommand) setAddress(text string, point kernel.GeoPoint) error {
	if text == "" {
		return errs.NewValueIsRequiredError("address")
	}
	if err := point.Validate(); err != nil {
		return err
	}

	c.addressText = text
	c.deliveryAddress = point
	return nil
}

func (c *CreateOrderCommand) setShopOrders(drafts []ShopOrderDraft) error {
	if len(drafts) == 0 {
		return errs.NewValueIsRequiredError("shop orders")
	}

	c.shopOrders = drafts
	return nil
}
