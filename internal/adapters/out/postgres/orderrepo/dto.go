// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Shop orders and their line items are stored in child tables and loaded
// together with the parent, so the aggregate always round-trips whole.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index"`
	PaymentMethod string
	Paid          bool
	AddressText   string
	DeliveryLat   float64
	DeliveryLon   float64
	Total         decimal.Decimal `gorm:"type:numeric(12,2)"`
	Rating        *int
	OrderedAt     time.Time
	ShopOrders    []ShopOrderDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ShopOrderDTO represents one restaurant's portion of an order in the database.
// Status is stored by its canonical name so the read side can filter on it
// without knowing the state machine's numeric values.
type ShopOrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	ShopID        uuid.UUID `gorm:"type:uuid;index"`
	ShopName      string
	OperatorID    uuid.UUID       `gorm:"type:uuid"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2)"`
	Status        string          `gorm:"index"`
	AssignmentID  *uuid.UUID      `gorm:"type:uuid"`
	CourierID     *uuid.UUID      `gorm:"type:uuid;index"`
	DeliveryCode  *string
	CodeExpiresAt *time.Time
	DeliveredAt   *time.Time
	CancelReason  string
	// Version is the optimistic-lock counter. Every Update bumps it and
	// predicates on the value the aggregate was loaded with, so a racing
	// writer cannot silently revert columns it never touched.
	Version int                `gorm:"not null;default:1"`
	Items   []ShopOrderItemDTO `gorm:"foreignKey:ShopOrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for shop order entities.
func (ShopOrderDTO) TableName() string {
	return "shop_orders"
}

// ShopOrderItemDTO represents one frozen line item snapshot. Items never
// change after checkout, so the composite key keeps re-saves idempotent.
type ShopOrderItemDTO struct {
	ShopOrderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	MenuItemID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	Price       decimal.Decimal `gorm:"type:numeric(12,2)"`
	Quantity    int
}

// TableName specifies the database table name for line item entities.
func (ShopOrderItemDTO) TableName() string {
	return "shop_order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	shopOrders := make([]ShopOrderDTO, 0, len(aggregate.ShopOrders()))
	for _, shopOrder := range aggregate.ShopOrders() {
		shopOrders = append(shopOrders, shopOrderFromDomain(aggregate.ID(), shopOrder))
	}

	return OrderDTO{
		ID:            aggregate.ID().Bytes(),
		CustomerID:    aggregate.CustomerID().Bytes(),
		PaymentMethod: string(aggregate.PaymentMethod()),
		Paid:          aggregate.IsPaid(),
		AddressText:   aggregate.AddressText(),
		DeliveryLat:   aggregate.DeliveryAddress().Latitude(),
		DeliveryLon:   aggregate.DeliveryAddress().Longitude(),
		Total:         aggregate.Total(),
		Rating:        aggregate.Rating(),
		OrderedAt:     aggregate.OrderedAt(),
		ShopOrders:    shopOrders,
	}
}

func shopOrderFromDomain(orderID kernel.UUID, shopOrder *order.ShopOrder) ShopOrderDTO {
	items := make([]ShopOrderItemDTO, 0, len(shopOrder.Items()))
	for _, item := range shopOrder.Items() {
		items = append(items, ShopOrderItemDTO{
			ShopOrderID: shopOrder.ID().Bytes(),
			MenuItemID:  item.MenuItemID().Bytes(),
			Name:        item.Name(),
			Price:       item.Price(),
			Quantity:    item.Quantity(),
		})
	}

	return ShopOrderDTO{
		ID:            shopOrder.ID().Bytes(),
		OrderID:       orderID.Bytes(),
		ShopID:        shopOrder.ShopID().Bytes(),
		ShopName:      shopOrder.ShopName(),
		OperatorID:    shopOrder.OperatorID().Bytes(),
		Subtotal:      shopOrder.Subtotal(),
		Status:        shopOrder.Status().String(),
		AssignmentID:  uuidPtrFromDomain(shopOrder.Assignment()),
		CourierID:     uuidPtrFromDomain(shopOrder.Courier()),
		DeliveryCode:  shopOrder.DeliveryCode(),
		CodeExpiresAt: shopOrder.CodeExpiresAt(),
		DeliveredAt:   shopOrder.DeliveredAt(),
		CancelReason:  shopOrder.CancelReason(),
		Items:         items,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including every shop order using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	deliveryAddress, err := kernel.NewGeoPoint(dto.DeliveryLat, dto.DeliveryLon)
	if err != nil {
		return nil, err
	}

	shopOrders := make([]*order.ShopOrder, 0, len(dto.ShopOrders))
	for _, shopOrderDTO := range dto.ShopOrders {
		shopOrder, shopOrderErr := shopOrderToDomain(shopOrderDTO)
		if shopOrderErr != nil {
			return nil, shopOrderErr
		}
		shopOrders = append(shopOrders, shopOrder)
	}

	return order.RestoreOrder(
		id,
		customerID,
		order.PaymentMethod(dto.PaymentMethod),
		dto.Paid,
		dto.AddressText,
		deliveryAddress,
		dto.Total,
		dto.OrderedAt,
		dto.Rating,
		shopOrders,
	)
}

func shopOrderToDomain(dto ShopOrderDTO) (*order.ShopOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}

	operatorID, err := kernel.UUIDFromBytes(dto.OperatorID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	assignmentID, err := uuidPtrToDomain(dto.AssignmentID)
	if err != nil {
		return nil, err
	}

	courierID, err := uuidPtrToDomain(dto.CourierID)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		menuItemID, itemErr := kernel.UUIDFromBytes(itemDTO.MenuItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.NewLineItem(menuItemID, itemDTO.Name, itemDTO.Price, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreShopOrder(
		id,
		shopID,
		dto.ShopName,
		operatorID,
		items,
		dto.Subtotal,
		status,
		assignmentID,
		courierID,
		dto.DeliveryCode,
		dto.CodeExpiresAt,
		dto.DeliveredAt,
		dto.CancelReason,
	)
}

func uuidPtrFromDomain(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func uuidPtrToDomain(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}

	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
