// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOpenBroadcastsQueryIsNotConstructed = errors.New(
	"GetOpenBroadcastsQuery must be created via NewGetOpenBroadcastsQuery constructor",
)

// GetOpenBroadcastsQuery retrieves the open assignment offers addressed to
// one courier. Powers the courier app's "available jobs" screen; offers
// whose shop order was cancelled in the meantime are filtered out.
//
// Example:
//
//	query, err := NewGetOpenBroadcastsQuery(courierID)
//	if err != nil {
//	    return fmt.Errorf("invalid courier: %w", err)
//	}
//
//	offers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load offers: %w", err)
//	}
type GetOpenBroadcastsQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOpenBroadcastsQuery creates a query for one courier's open offers.
func NewGetOpenBroadcastsQuery(courierID kernel.UUID) (GetOpenBroadcastsQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetOpenBroadcastsQuery{}, err
	}

	return GetOpenBroadcastsQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOpenBroadcastsQueryIsNotConstructed if validation fails.
func (q GetOpenBroadcastsQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenBroadcastsQueryIsNotConstructed)
}

// CourierID returns the courier whose offers are requested.
func (q GetOpenBroadcastsQuery) CourierID() kernel.UUID {
	return q.courierID
}

// GetOpenBroadcastsQueryResponse is one open offer in the read model.
type GetOpenBroadcastsQueryResponse struct {
	AssignmentID kernel.UUID
	ShopOrderID  kernel.UUID
	ShopName     string
	AddressText  string
	Destination  kernel.GeoPoint
	CreatedAt    time.Time
}
