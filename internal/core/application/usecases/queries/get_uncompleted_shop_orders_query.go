package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetUncompletedShopOrdersQueryIsNotConstructed = errors.New(
	"GetUncompletedShopOrdersQuery must be created via NewGetUncompletedShopOrdersQuery constructor",
)

// GetUncompletedShopOrdersQuery retrieves shop orders still moving through
// the pipeline. Powers the operations dashboard: everything not yet
// delivered and not cancelled is active workload.
//
// Example:
//
//	query := NewGetUncompletedShopOrdersQuery()
//	active, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get active shop orders: %w", err)
//	}
//
//	fmt.Printf("%d shop orders in flight\n", len(active))
type GetUncompletedShopOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUncompletedShopOrdersQuery creates a query for the active workload.
// This is a parameterless query that fetches every in-flight shop order.
func NewGetUncompletedShopOrdersQuery() GetUncompletedShopOrdersQuery {
	return GetUncompletedShopOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUncompletedShopOrdersQueryIsNotConstructed if validation fails.
func (q GetUncompletedShopOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUncompletedShopOrdersQueryIsNotConstructed)
}

// GetUncompletedShopOrdersQueryResponse is one in-flight shop order in the
// read model. CourierID is empty while no courier has claimed the delivery.
type GetUncompletedShopOrdersQueryResponse struct {
	ShopOrderID kernel.UUID
	OrderID     kernel.UUID
	ShopName    string
	Status      string
	CourierID   string
	AddressText string
}
