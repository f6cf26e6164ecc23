package http

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request and response bodies for the REST API. IDs travel as canonical
// UUID strings; money travels as decimal strings to keep paise exact.

type lineItemRequest struct {
	MenuItemID string          `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

type shopOrderRequest struct {
	ShopID     string            `json:"shopId"`
	ShopName   string            `json:"shopName"`
	OperatorID string            `json:"operatorId"`
	Items      []lineItemRequest `json:"items"`
}

type createOrderRequest struct {
	CustomerID    string             `json:"customerId"`
	PaymentMethod string             `json:"paymentMethod"`
	AddressText   string             `json:"addressText"`
	DeliveryLat   float64            `json:"deliveryLat"`
	DeliveryLon   float64            `json:"deliveryLon"`
	ShopOrders    []shopOrderRequest `json:"shopOrders"`
}

type createOrderResponse struct {
	OrderID string `json:"orderId"`
}

type advanceStatusRequest struct {
	Status string `json:"status"`
}

type cancelShopOrderRequest struct {
	Reason string `json:"reason"`
	By     string `json:"by"`
}

type verifyDeliveryCodeRequest struct {
	Code string `json:"code"`
}

type claimAssignmentRequest struct {
	CourierID string `json:"courierId"`
}

type createCourierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type createCourierResponse struct {
	CourierID string `json:"courierId"`
}

type updateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type setAvailabilityRequest struct {
	Online    bool   `json:"online"`
	ChannelID string `json:"channelId"`
}

type broadcastResponse struct {
	AssignmentID string    `json:"assignmentId"`
	ShopOrderID  string    `json:"shopOrderId"`
	ShopName     string    `json:"shopName"`
	AddressText  string    `json:"addressText"`
	DeliveryLat  float64   `json:"deliveryLat"`
	DeliveryLon  float64   `json:"deliveryLon"`
	CreatedAt    time.Time `json:"createdAt"`
}

type activeJobResponse struct {
	AssignmentID string    `json:"assignmentId"`
	ShopOrderID  string    `json:"shopOrderId"`
	ShopName     string    `json:"shopName"`
	Status       string    `json:"status"`
	AddressText  string    `json:"addressText"`
	DeliveryLat  float64   `json:"deliveryLat"`
	DeliveryLon  float64   `json:"deliveryLon"`
	AcceptedAt   time.Time `json:"acceptedAt"`
}

type uncompletedShopOrderResponse struct {
	ShopOrderID string `json:"shopOrderId"`
	OrderID     string `json:"orderId"`
	ShopName    string `json:"shopName"`
	Status      string `json:"status"`
	CourierID   string `json:"courierId,omitempty"`
	AddressText string `json:"addressText"`
}
