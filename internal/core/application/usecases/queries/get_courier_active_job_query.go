package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierActiveJobQueryIsNotConstructed = errors.New(
	"GetCourierActiveJobQuery must be created via NewGetCourierActiveJobQuery constructor",
)

// GetCourierActiveJobQuery retrieves the delivery a courier is currently
// carrying, if any. A courier holds at most one claimed assignment at a
// time, so the answer is a single job or nothing.
type GetCourierActiveJobQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCourierActiveJobQuery creates a query for one courier's active job.
func NewGetCourierActiveJobQuery(courierID kernel.UUID) (GetCourierActiveJobQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierActiveJobQuery{}, err
	}

	return GetCourierActiveJobQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetCourierActiveJobQueryIsNotConstructed if validation fails.
func (q GetCourierActiveJobQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierActiveJobQueryIsNotConstructed)
}

// CourierID returns the courier whose job is requested.
func (q GetCourierActiveJobQuery) CourierID() kernel.UUID {
	return q.courierID
}

// GetCourierActiveJobQueryResponse is the courier's current delivery in the
// read model. Status is the shop order status name so the courier app can
// render the pickup/drop-off phase without knowing the state machine.
type GetCourierActiveJobQueryResponse struct {
	AssignmentID kernel.UUID
	ShopOrderID  kernel.UUID
	ShopName     string
	Status       string
	AddressText  string
	Destination  kernel.GeoPoint
	AcceptedAt   time.Time
}
