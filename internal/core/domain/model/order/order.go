package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrRatingBeforeDelivery is returned when rating an order that has no
	// delivered shop order yet.
	ErrRatingBeforeDelivery = errors.New("order can only be rated after a delivery")
)

// PaymentMethod is the closed set of payment options captured at checkout.
type PaymentMethod string

const (
	// PaymentCashOnDelivery settles the order in cash at the door.
	PaymentCashOnDelivery PaymentMethod = "cod"
	// PaymentCard settles the order with a card at checkout.
	PaymentCard PaymentMethod = "card"
	// PaymentUPI settles the order with a UPI transfer at checkout.
	PaymentUPI PaymentMethod = "upi"
)

// Validate checks the payment method is a member of the closed set.
func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCashOnDelivery, PaymentCard, PaymentUPI:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", string(m)))
	}
}

// Order is the aggregate root for one customer checkout event. It groups one
// ShopOrder per distinct restaurant in the cart and owns the delivery address
// and payment details.
//
// Order follows these invariants:
//   - Must contain at least one shop order
//   - The total is the frozen sum of shop order subtotals
//   - Owned exclusively by the customer who created it
//   - Never deleted once any shop order has left Pending
type Order struct {
	id            kernel.UUID
	customerID    kernel.UUID
	paymentMethod PaymentMethod
	paid          bool

	addressText     string
	deliveryAddress kernel.GeoPoint

	total     decimal.Decimal
	orderedAt time.Time
	rating    *int

	shopOrders []*ShopOrder

	isConstructed bool
}

// NewOrder creates an order from checkout data. The total is computed from
// the shop order subtotals and frozen.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	paymentMethod PaymentMethod,
	addressText string,
	deliveryAddress kernel.GeoPoint,
	orderedAt time.Time,
	shopOrders []*ShopOrder,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		paymentMethod.Validate(),
		deliveryAddress.Validate(),
	); err != nil {
		return nil, err
	}
	if addressText == "" {
		return nil, errs.NewValueIsRequiredError("address")
	}
	if len(shopOrders) == 0 {
		return nil, errs.NewValueIsRequiredError("shop orders")
	}

	total := decimal.Zero
	for _, shopOrder := range shopOrders {
		if err := shopOrder.Validate(); err != nil {
			return nil, err
		}
		total = total.Add(shopOrder.Subtotal())
	}

	return &Order{
		id:              id,
		customerID:      customerID,
		paymentMethod:   paymentMethod,
		addressText:     addressText,
		deliveryAddress: deliveryAddress,
		total:           total,
		orderedAt:       orderedAt,
		shopOrders:      shopOrders,
		isConstructed:   true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	paymentMethod PaymentMethod,
	paid bool,
	addressText string,
	deliveryAddress kernel.GeoPoint,
	total decimal.Decimal,
	orderedAt time.Time,
	rating *int,
	shopOrders []*ShopOrder,
) (*Order, error) {
	if err := errors.Join(id.Validate(), customerID.Validate(), deliveryAddress.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		id:              id,
		customerID:      customerID,
		paymentMethod:   paymentMethod,
		paid:            paid,
		addressText:     addressText,
		deliveryAddress: deliveryAddress,
		total:           total,
		orderedAt:       orderedAt,
		rating:          rating,
		shopOrders:      shopOrders,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Order was created through a factory method.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the owning customer identity.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// PaymentMethod returns the payment method captured at checkout.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// IsPaid reports whether the payment is settled.
func (o *Order) IsPaid() bool {
	return o.paid
}

// MarkPaid records payment settlement.
func (o *Order) MarkPaid() {
	o.paid = true
}

// AddressText returns the free-form delivery address.
func (o *Order) AddressText() string {
	return o.addressText
}

// DeliveryAddress returns the delivery coordinates used for dispatch.
func (o *Order) DeliveryAddress() kernel.GeoPoint {
	return o.deliveryAddress
}

// Total returns the frozen order total.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// OrderedAt returns the checkout timestamp.
func (o *Order) OrderedAt() time.Time {
	return o.orderedAt
}

// Rating returns the post-delivery rating, if the customer left one.
func (o *Order) Rating() *int {
	return o.rating
}

// ShopOrders returns all per-restaurant portions of the order.
func (o *Order) ShopOrders() []*ShopOrder {
	return o.shopOrders
}

// ShopOrder finds a shop order by its identifier.
// Returns an ObjectNotFoundError if no portion matches.
func (o *Order) ShopOrder(shopOrderID kernel.UUID) (*ShopOrder, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	for _, shopOrder := range o.shopOrders {
		if shopOrder.ID().IsEqual(shopOrderID) {
			return shopOrder, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("shopOrderId", shopOrderID.String())
}

// ShopOrderForShop finds the shop order belonging to the given restaurant.
// Returns an ObjectNotFoundError if the restaurant is not part of the order.
func (o *Order) ShopOrderForShop(shopID kernel.UUID) (*ShopOrder, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	for _, shopOrder := range o.shopOrders {
		if shopOrder.ShopID().IsEqual(shopID) {
			return shopOrder, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("shopId", shopID.String())
}

// Rate records a post-delivery rating between 1 and 5.
// At least one shop order must be delivered.
func (o *Order) Rate(rating int) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if rating < 1 || rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", rating, 1, 5)
	}

	for _, shopOrder := range o.shopOrders {
		if shopOrder.Status() == Delivered {
			o.rating = &rating
			return nil
		}
	}
	return ErrRatingBeforeDelivery
}
