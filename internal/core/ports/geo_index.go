package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// CourierGeoIndex is the geospatial index over courier positions.
//
// The index is a lookup structure, not the source of truth: courier
// positions are persisted on the aggregate, and the index is refreshed on
// every location report. Dispatch queries it for the couriers nearest to a
// restaurant.
type CourierGeoIndex interface {
	// UpsertCourier records the courier's current position in the index.
	UpsertCourier(ctx context.Context, courierID kernel.UUID, location kernel.GeoPoint) error

	// RemoveCourier drops the courier from the index, e.g. when going offline.
	RemoveCourier(ctx context.Context, courierID kernel.UUID) error

	// NearestCouriers returns up to limit courier IDs within radiusKm of the
	// center, ordered nearest first.
	NearestCouriers(
		ctx context.Context,
		center kernel.GeoPoint,
		radiusKm float64,
		limit int,
	) ([]kernel.UUID, error)
}
