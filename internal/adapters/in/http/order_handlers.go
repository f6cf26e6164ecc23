package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders - checks out the customer's cart.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request createOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(request.CustomerID)
	if err != nil {
		return respondError(ctx, err)
	}

	deliveryAddress, err := kernel.NewGeoPoint(request.DeliveryLat, request.DeliveryLon)
	if err != nil {
		return respondError(ctx, err)
	}

	drafts := make([]commands.ShopOrderDraft, 0, len(request.ShopOrders))
	for _, shopOrder := range request.ShopOrders {
		draft, draftErr := shopOrderDraftFromRequest(shopOrder)
		if draftErr != nil {
			return respondError(ctx, draftErr)
		}
		drafts = append(drafts, draft)
	}

	cmd, err := commands.NewCreateOrderCommand(
		customerID,
		order.PaymentMethod(request.PaymentMethod),
		request.AddressText,
		deliveryAddress,
		drafts,
	)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createOrderResponse{
		OrderID: cmd.OrderID().String(),
	})
}

func shopOrderDraftFromRequest(request shopOrderRequest) (commands.ShopOrderDraft, error) {
	shopID, err := kernel.UUIDFromString(request.ShopID)
	if err != nil {
		return commands.ShopOrderDraft{}, err
	}

	operatorID, err := kernel.UUIDFromString(request.OperatorID)
	if err != nil {
		return commands.ShopOrderDraft{}, err
	}

	items := make([]commands.LineItemDraft, 0, len(request.Items))
	for _, item := range request.Items {
		menuItemID, itemErr := kernel.UUIDFromString(item.MenuItemID)
		if itemErr != nil {
			return commands.ShopOrderDraft{}, itemErr
		}

		items = append(items, commands.LineItemDraft{
			MenuItemID: menuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
		})
	}

	return commands.ShopOrderDraft{
		ShopID:     shopID,
		ShopName:   request.ShopName,
		OperatorID: operatorID,
		Items:      items,
	}, nil
}

// AdvanceShopOrderStatus handles PATCH /api/v1/orders/:orderId/shops/:shopId/status -
// pushes a shop order forward through the kitchen pipeline.
func (s *Server) AdvanceShopOrderStatus(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	shopID, err := pathUUID(ctx, "shopId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request advanceStatusRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	newStatus, err := order.StatusFromString(request.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewAdvanceShopOrderStatusCommand(orderID, shopID, newStatus)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.advanceStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelShopOrder handles POST /api/v1/orders/:orderId/shop-orders/:shopOrderId/cancel.
func (s *Server) CancelShopOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	shopOrderID, err := pathUUID(ctx, "shopOrderId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request cancelShopOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	actor, err := cancelActorFromString(request.By)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewCancelShopOrderCommand(orderID, shopOrderID, request.Reason, actor)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.cancelShopOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// IssueDeliveryCode handles POST .../delivery-code - generates and sends a
// fresh one-time code to the customer.
func (s *Server) IssueDeliveryCode(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	shopOrderID, err := pathUUID(ctx, "shopOrderId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewIssueDeliveryCodeCommand(orderID, shopOrderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.issueDeliveryCodeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// VerifyDeliveryCode handles POST .../delivery-code/verify - the courier-side
// completion handshake.
func (s *Server) VerifyDeliveryCode(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	shopOrderID, err := pathUUID(ctx, "shopOrderId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request verifyDeliveryCodeRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewVerifyDeliveryCodeCommand(orderID, shopOrderID, request.Code)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.verifyDeliveryCodeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ClaimAssignment handles POST /api/v1/assignments/:assignmentId/claim -
// first accepted claim wins, later ones get 409.
func (s *Server) ClaimAssignment(ctx echo.Context) error {
	assignmentID, err := pathUUID(ctx, "assignmentId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request claimAssignmentRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	courierID, err := kernel.UUIDFromString(request.CourierID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewClaimAssignmentCommand(assignmentID, courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.claimAssignmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetUncompletedShopOrders handles GET /api/v1/shop-orders/active - the
// operations dashboard view of everything still in flight.
func (s *Server) GetUncompletedShopOrders(ctx echo.Context) error {
	query := queries.NewGetUncompletedShopOrdersQuery()

	shopOrders, err := s.getUncompletedShopOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]uncompletedShopOrderResponse, len(shopOrders))
	for i, shopOrder := range shopOrders {
		response[i] = uncompletedShopOrderResponse{
			ShopOrderID: shopOrder.ShopOrderID.String(),
			OrderID:     shopOrder.OrderID.String(),
			ShopName:    shopOrder.ShopName,
			Status:      shopOrder.Status,
			CourierID:   shopOrder.CourierID,
			AddressText: shopOrder.AddressText,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}
