// Package http exposes the dispatch engine over a REST API.
//
// The write side binds request bodies into commands and lets the
// application layer decide; the read side serves the CQRS query handlers
// directly. All domain rules live behind the handlers, so this package
// only translates: JSON in, commands and queries through, JSON out.
package http

import (
	"fmt"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler        commands.CreateOrderCommandHandler
	advanceStatusHandler      commands.AdvanceShopOrderStatusCommandHandler
	cancelShopOrderHandler    commands.CancelShopOrderCommandHandler
	claimAssignmentHandler    commands.ClaimAssignmentCommandHandler
	issueDeliveryCodeHandler  commands.IssueDeliveryCodeCommandHandler
	verifyDeliveryCodeHandler commands.VerifyDeliveryCodeCommandHandler
	createCourierHandler      commands.CreateCourierCommandHandler
	updateLocationHandler     commands.UpdateCourierLocationCommandHandler
	setAvailabilityHandler    commands.SetCourierAvailabilityCommandHandler

	// Query handlers
	getOpenBroadcastsHandler        queries.GetOpenBroadcastsQueryHandler
	getCourierActiveJobHandler      queries.GetCourierActiveJobQueryHandler
	getUncompletedShopOrdersHandler queries.GetUncompletedShopOrdersQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	advanceStatusHandler commands.AdvanceShopOrderStatusCommandHandler,
	cancelShopOrderHandler commands.CancelShopOrderCommandHandler,
	claimAssignmentHandler commands.ClaimAssignmentCommandHandler,
	issueDeliveryCodeHandler commands.IssueDeliveryCodeCommandHandler,
	verifyDeliveryCodeHandler commands.VerifyDeliveryCodeCommandHandler,
	createCourierHandler commands.CreateCourierCommandHandler,
	updateLocationHandler commands.UpdateCourierLocationCommandHandler,
	setAvailabilityHandler commands.SetCourierAvailabilityCommandHandler,
	getOpenBroadcastsHandler queries.GetOpenBroadcastsQueryHandler,
	getCourierActiveJobHandler queries.GetCourierActiveJobQueryHandler,
	getUncompletedShopOrdersHandler queries.GetUncompletedShopOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:              createOrderHandler,
		advanceStatusHandler:            advanceStatusHandler,
		cancelShopOrderHandler:          cancelShopOrderHandler,
		claimAssignmentHandler:          claimAssignmentHandler,
		issueDeliveryCodeHandler:        issueDeliveryCodeHandler,
		verifyDeliveryCodeHandler:       verifyDeliveryCodeHandler,
		createCourierHandler:            createCourierHandler,
		updateLocationHandler:           updateLocationHandler,
		setAvailabilityHandler:          setAvailabilityHandler,
		getOpenBroadcastsHandler:        getOpenBroadcastsHandler,
		getCourierActiveJobHandler:      getCourierActiveJobHandler,
		getUncompletedShopOrdersHandler: getUncompletedShopOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.PATCH("/orders/:orderId/shops/:shopId/status", s.AdvanceShopOrderStatus)
	api.POST("/orders/:orderId/shop-orders/:shopOrderId/cancel", s.CancelShopOrder)
	api.POST("/orders/:orderId/shop-orders/:shopOrderId/delivery-code", s.IssueDeliveryCode)
	api.POST("/orders/:orderId/shop-orders/:shopOrderId/delivery-code/verify", s.VerifyDeliveryCode)

	api.POST("/assignments/:assignmentId/claim", s.ClaimAssignment)

	api.POST("/couriers", s.CreateCourier)
	api.PUT("/couriers/:courierId/location", s.UpdateCourierLocation)
	api.PUT("/couriers/:courierId/availability", s.SetCourierAvailability)
	api.GET("/couriers/:courierId/offers", s.GetOpenBroadcasts)
	api.GET("/couriers/:courierId/active-job", s.GetCourierActiveJob)

	api.GET("/shop-orders/active", s.GetUncompletedShopOrders)
}

// pathUUID parses a UUID path parameter.
func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(name))
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("%s: %w", name, err)
	}
	return id, nil
}

// cancelActorFromString parses the actor field of a cancellation request.
func cancelActorFromString(s string) (order.CancelActor, error) {
	for _, actor := range []order.CancelActor{
		order.CancelledByCustomer,
		order.CancelledByOperator,
		order.CancelledByCourier,
	} {
		if actor.String() == s {
			return actor, nil
		}
	}
	return order.CancelActorUnknown, fmt.Errorf("%q is not a valid cancellation actor", s)
}
