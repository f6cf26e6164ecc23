package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCourierActiveJobQueryHandler reads the courier's claimed delivery
// straight from the database. Returns nil when the courier is free.
type GetCourierActiveJobQueryHandler struct {
	db *gorm.DB
}

// NewGetCourierActiveJobQueryHandler creates a handler for active job queries.
// Requires a GORM database connection for query execution.
func NewGetCourierActiveJobQueryHandler(db *gorm.DB) GetCourierActiveJobQueryHandler {
	return GetCourierActiveJobQueryHandler{db: db}
}

// Handle executes the query to retrieve the courier's claimed delivery.
// Returns (nil, nil) when no claimed assignment exists for the courier.
func (h GetCourierActiveJobQueryHandler) Handle(
	ctx context.Context,
	query GetCourierActiveJobQuery,
) (*GetCourierActiveJobQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			a.id,
			a.shop_order_id,
			so.shop_name,
			so.status,
			o.address_text,
			o.delivery_lat,
			o.delivery_lon,
			a.accepted_at
		FROM assignments a
		JOIN shop_orders so ON so.id = a.shop_order_id
		JOIN orders o ON o.id = a.order_id
		WHERE a.status = 'Claimed'
		  AND a.courier_id = ?
	`, query.CourierID().String()).Row()

	var job GetCourierActiveJobQueryResponse
	var assignmentID, shopOrderID uuid.UUID
	var lat, lon float64

	err := row.Scan(
		&assignmentID,
		&shopOrderID,
		&job.ShopName,
		&job.Status,
		&job.AddressText,
		&lat,
		&lon,
		&job.AcceptedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.AssignmentID, err = kernel.UUIDFromBytes(assignmentID[:])
	if err != nil {
		return nil, err
	}
	job.ShopOrderID, err = kernel.UUIDFromBytes(shopOrderID[:])
	if err != nil {
		return nil, err
	}

	destination, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return nil, err
	}
	job.Destination = destination

	return &job, nil
}
