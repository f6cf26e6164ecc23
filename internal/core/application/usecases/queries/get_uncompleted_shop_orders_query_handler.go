package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUncompletedShopOrdersQueryHandler retrieves the active delivery
// workload from the database. Filters out delivered and cancelled shop
// orders.
type GetUncompletedShopOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUncompletedShopOrdersQueryHandler creates a handler for workload queries.
// Requires a GORM database connection for query execution.
func NewGetUncompletedShopOrdersQueryHandler(db *gorm.DB) GetUncompletedShopOrdersQueryHandler {
	return GetUncompletedShopOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all in-flight shop orders.
// Results are sorted by shop order ID for consistent output.
func (h GetUncompletedShopOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUncompletedShopOrdersQuery,
) ([]GetUncompletedShopOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	shopOrders := make([]GetUncompletedShopOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			so.id,
			so.order_id,
			so.shop_name,
			so.status,
			so.courier_id,
			o.address_text
		FROM shop_orders so
		JOIN orders o ON o.id = so.order_id
		WHERE so.status NOT IN ('Delivered', 'Cancelled')
		ORDER BY so.id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var shopOrder GetUncompletedShopOrdersQueryResponse
		var shopOrderID, orderID uuid.UUID
		var courierID sql.NullString

		err = rows.Scan(
			&shopOrderID,
			&orderID,
			&shopOrder.ShopName,
			&shopOrder.Status,
			&courierID,
			&shopOrder.AddressText,
		)
		if err != nil {
			return nil, err
		}

		shopOrder.ShopOrderID, err = kernel.UUIDFromBytes(shopOrderID[:])
		if err != nil {
			return nil, err
		}
		shopOrder.OrderID, err = kernel.UUIDFromBytes(orderID[:])
		if err != nil {
			return nil, err
		}
		if courierID.Valid {
			shopOrder.CourierID = courierID.String
		}

		shopOrders = append(shopOrders, shopOrder)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return shopOrders, nil
}
