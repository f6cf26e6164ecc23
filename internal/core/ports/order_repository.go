// Package ports defines the contracts between the application core and
// infrastructure adapters. Repositories persist aggregates, the unit of work
// scopes them to one transaction, and the outbound ports cover the
// geospatial index and courier notifications.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// An order is loaded and stored whole, including all of its shop orders.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByShopOrder retrieves the order aggregate containing the given
	// shop order. Used by dispatch and delivery flows that are addressed
	// by shop order rather than by the parent order.
	GetByShopOrder(ctx context.Context, shopOrderID kernel.UUID) (*order.Order, error)
}
