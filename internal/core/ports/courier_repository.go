package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	// The courier must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	// The courier must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetByIDs retrieves the couriers with the given identifiers.
	// Unknown IDs are skipped, not reported as errors. The result order is
	// unspecified; callers that need proximity ranking must reorder against
	// the ID list the geospatial index produced.
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*courier.Courier, error)
}
