package ports

import (
	"context"
	"time"
)

// AssignmentOfferItem is one line of the order snapshot carried in an offer.
type AssignmentOfferItem struct {
	Name     string
	Price    string
	Quantity int
}

// AssignmentOfferNotification is the fan-out payload sent to every candidate
// courier when a broadcast opens. It carries the delivery address and the
// line-item snapshot so a courier can evaluate the job from the offer alone.
type AssignmentOfferNotification struct {
	AssignmentID string
	OrderID      string
	ShopOrderID  string
	ShopID       string
	ShopName     string
	AddressText  string
	DeliveryLat  float64
	DeliveryLon  float64
	Items        []AssignmentOfferItem
	Subtotal     string
	CourierIDs   []string
	CreatedAt    time.Time
}

// StatusChangedNotification informs the customer that a shop order moved to
// a new status.
type StatusChangedNotification struct {
	OrderID     string
	ShopOrderID string
	ShopName    string
	Status      string
	ChangedAt   time.Time
}

// CancellationNotification informs the customer and, when one was assigned,
// the courier that a shop order was cancelled.
type CancellationNotification struct {
	OrderID     string
	ShopOrderID string
	ShopName    string
	CourierID   string
	Reason      string
	CancelledAt time.Time
}

// DeliveryCompletedNotification confirms a successful delivery handshake.
type DeliveryCompletedNotification struct {
	OrderID     string
	ShopOrderID string
	CourierID   string
	DeliveredAt time.Time
}

// DeliveryCodeNotification carries a freshly issued delivery confirmation
// code to the customer. It never goes to the courier.
type DeliveryCodeNotification struct {
	OrderID     string
	ShopOrderID string
	Code        string
	ExpiresAt   time.Time
}

// NotificationPublisher is the outbound port for every notification the
// dispatch engine emits.
//
// Publishing is best effort: delivery state never depends on a notification
// having been sent, and callers log rather than fail when a publish errors
// after the state change was committed.
type NotificationPublisher interface {
	// PublishAssignmentOffer fans an open broadcast out to its candidates.
	PublishAssignmentOffer(ctx context.Context, notification AssignmentOfferNotification) error

	// PublishStatusChanged notifies the customer of a status transition.
	PublishStatusChanged(ctx context.Context, notification StatusChangedNotification) error

	// PublishCancellation notifies the affected parties of a cancellation.
	PublishCancellation(ctx context.Context, notification CancellationNotification) error

	// PublishDeliveryCompleted confirms a completed delivery handshake.
	PublishDeliveryCompleted(ctx context.Context, notification DeliveryCompletedNotification) error

	// SendDeliveryCode delivers a confirmation code to the customer.
	SendDeliveryCode(ctx context.Context, notification DeliveryCodeNotification) error
}
