// Package redisgeo implements the courier geospatial index on Redis.
//
// Courier positions live in a single GEO set keyed by courier ID. The set
// is a lookup structure, not a source of truth: it is refreshed on every
// location report and rebuilt naturally as couriers move, so losing it
// costs at most one dispatch round.
package redisgeo

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const courierGeoKey = "dispatch:courier:geo"

// RedisCourierGeoIndex implements ports.CourierGeoIndex on a Redis GEO set.
type RedisCourierGeoIndex struct {
	client *redis.Client
}

// NewRedisCourierGeoIndex creates a geo index backed by the given client.
func NewRedisCourierGeoIndex(client *redis.Client) *RedisCourierGeoIndex {
	return &RedisCourierGeoIndex{client: client}
}

var _ ports.CourierGeoIndex = (*RedisCourierGeoIndex)(nil)

// UpsertCourier writes the courier's current position to the index.
func (i *RedisCourierGeoIndex) UpsertCourier(
	ctx context.Context,
	courierID kernel.UUID,
	location kernel.GeoPoint,
) error {
	return i.client.GeoAdd(ctx, courierGeoKey, &redis.GeoLocation{
		Name:      courierID.String(),
		Latitude:  location.Latitude(),
		Longitude: location.Longitude(),
	}).Err()
}

// RemoveCourier removes the courier from the index. Removing an absent
// courier is a no-op.
func (i *RedisCourierGeoIndex) RemoveCourier(ctx context.Context, courierID kernel.UUID) error {
	return i.client.ZRem(ctx, courierGeoKey, courierID.String()).Err()
}

// NearestCouriers returns up to limit courier IDs within radiusKm of the
// center, nearest first.
func (i *RedisCourierGeoIndex) NearestCouriers(
	ctx context.Context,
	center kernel.GeoPoint,
	radiusKm float64,
	limit int,
) ([]kernel.UUID, error) {
	locations, err := i.client.GeoSearchLocation(ctx, courierGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Latitude:   center.Latitude(),
			Longitude:  center.Longitude(),
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
	}).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(locations))
	for _, location := range locations {
		id, idErr := kernel.UUIDFromString(location.Name)
		if idErr != nil {
			// A foreign member in the set is an operational anomaly,
			// not a reason to fail dispatch.
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}
