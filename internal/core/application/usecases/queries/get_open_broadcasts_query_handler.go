package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenBroadcastsQueryHandler reads a courier's open offers straight from
// the database. Uses direct SQL for optimal read performance in the CQRS
// pattern; the write-side aggregates are never loaded.
type GetOpenBroadcastsQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenBroadcastsQueryHandler creates a handler for open offer queries.
// Requires a GORM database connection for query execution.
func NewGetOpenBroadcastsQueryHandler(db *gorm.DB) GetOpenBroadcastsQueryHandler {
	return GetOpenBroadcastsQueryHandler{db: db}
}

// Handle executes the query to retrieve open offers for the courier.
// An offer is visible while its assignment is open, the courier is among
// the broadcast candidates, and the shop order has not been cancelled.
// Results are sorted oldest first so long-waiting orders surface on top.
func (h GetOpenBroadcastsQueryHandler) Handle(
	ctx context.Context,
	query GetOpenBroadcastsQuery,
) ([]GetOpenBroadcastsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	offers := make([]GetOpenBroadcastsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			a.id,
			a.shop_order_id,
			so.shop_name,
			o.address_text,
			o.delivery_lat,
			o.delivery_lon,
			a.created_at
		FROM assignments a
		JOIN shop_orders so ON so.id = a.shop_order_id
		JOIN orders o ON o.id = a.order_id
		WHERE a.status = 'Open'
		  AND ? = ANY(a.candidates)
		  AND so.status <> 'Cancelled'
		ORDER BY a.created_at
	`, query.CourierID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var offer GetOpenBroadcastsQueryResponse
		var assignmentID, shopOrderID uuid.UUID
		var lat, lon float64

		err = rows.Scan(
			&assignmentID,
			&shopOrderID,
			&offer.ShopName,
			&offer.AddressText,
			&lat,
			&lon,
			&offer.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		offer.AssignmentID, err = kernel.UUIDFromBytes(assignmentID[:])
		if err != nil {
			return nil, err
		}
		offer.ShopOrderID, err = kernel.UUIDFromBytes(shopOrderID[:])
		if err != nil {
			return nil, err
		}

		destination, pointErr := kernel.NewGeoPoint(lat, lon)
		if pointErr != nil {
			return nil, pointErr
		}
		offer.Destination = destination
		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return offers, nil
}
