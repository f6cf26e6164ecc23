// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain entity, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting couriers.
// Position columns are nullable because a freshly registered courier has
// never reported a location.
type CourierDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string
	Phone      string
	Lat        *float64
	Lon        *float64
	LocationAt *time.Time
	ChannelID  string
	Online     bool `gorm:"index"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain entity to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	var lat, lon *float64
	if location := aggregate.Location(); location != nil {
		latitude := location.Latitude()
		longitude := location.Longitude()
		lat, lon = &latitude, &longitude
	}

	return CourierDTO{
		ID:         aggregate.ID().Bytes(),
		Name:       aggregate.Name(),
		Phone:      aggregate.Phone(),
		Lat:        lat,
		Lon:        lon,
		LocationAt: aggregate.LocationAt(),
		ChannelID:  aggregate.ChannelID(),
		Online:     aggregate.IsOnline(),
	}
}

// toDomain converts a database DTO to a courier domain entity using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Lat != nil && dto.Lon != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lon)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Phone,
		location,
		dto.LocationAt,
		dto.ChannelID,
		dto.Online,
	)
}
