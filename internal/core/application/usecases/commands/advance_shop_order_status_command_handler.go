package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// AdvanceShopOrderStatusCommandHandler handles status pushes from restaurant
// operators and triggers the dispatch chain when the shop order wants a
// courier.
//
// The status change and the dispatch attempt run in separate transactions:
// a shop order may legitimately end up in Ready with no assignment when
// nobody is eligible, and a dispatch failure never rolls the status back.
type AdvanceShopOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	dispatcher Dispatcher
	publisher  ports.NotificationPublisher
	settings   DispatchSettings
	logger     *slog.Logger
}

// NewAdvanceShopOrderStatusCommandHandler creates a handler for status pushes.
func NewAdvanceShopOrderStatusCommandHandler(
	uowFactory UoWFactory,
	dispatcher Dispatcher,
	publisher ports.NotificationPublisher,
	settings DispatchSettings,
	logger *slog.Logger,
) AdvanceShopOrderStatusCommandHandler {
	return AdvanceShopOrderStatusCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		publisher:  publisher,
		settings:   settings,
		logger:     logger.With("component", "advance_shop_order_status"),
	}
}

// Handle processes the status push.
//
// First transaction: advance the status and commit. Then, outside that
// transaction, notify the customer and run the dispatch chain when the shop
// order has no live assignment. Zero candidates is a tolerated outcome.
func (h *AdvanceShopOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd AdvanceShopOrderStatusCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	shopOrder, err := h.advanceStatus(ctx, cmd)
	if err != nil {
		return err
	}

	h.notifyStatusChange(ctx, cmd, shopOrder)

	if shopOrder.NeedsDispatch() {
		h.runDispatch(ctx, cmd, shopOrder.Status())
	}

	return nil
}

// advanceStatus applies and persists the transition, returning the updated
// shop order.
func (h *AdvanceShopOrderStatusCommandHandler) advanceStatus(
	ctx context.Context,
	cmd AdvanceShopOrderStatusCommand,
) (*order.ShopOrder, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	shopOrder, err := aggregate.ShopOrderForShop(cmd.ShopID())
	if err != nil {
		return nil, err
	}

	if err = shopOrder.Advance(cmd.NewStatus()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return shopOrder, nil
}

// notifyStatusChange informs the customer. Best effort.
func (h *AdvanceShopOrderStatusCommandHandler) notifyStatusChange(
	ctx context.Context,
	cmd AdvanceShopOrderStatusCommand,
	shopOrder *order.ShopOrder,
) {
	err := h.publisher.PublishStatusChanged(ctx, ports.StatusChangedNotification{
		OrderID:     cmd.OrderID().String(),
		ShopOrderID: shopOrder.ID().String(),
		ShopName:    shopOrder.ShopName(),
		Status:      shopOrder.Status().String(),
		ChangedAt:   time.Now(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "status change notification failed",
			"shopOrderId", shopOrder.ID().String(),
			"error", err)
	}
}

// runDispatch executes the dispatch chain in its own transaction. Entering
// OutForDelivery without a courier escalates with the tighter radius.
func (h *AdvanceShopOrderStatusCommandHandler) runDispatch(
	ctx context.Context,
	cmd AdvanceShopOrderStatusCommand,
	status order.Status,
) {
	radiusKm := h.settings.StandardRadiusKm
	if status == order.OutForDelivery {
		radiusKm = h.settings.EscalationRadiusKm
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.ErrorContext(ctx, "dispatch transaction begin failed", "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		h.logger.ErrorContext(ctx, "dispatch reload failed", "error", err)
		return
	}

	shopOrder, err := aggregate.ShopOrderForShop(cmd.ShopID())
	if err != nil {
		h.logger.ErrorContext(ctx, "dispatch reload failed", "error", err)
		return
	}

	err = h.dispatcher.Dispatch(ctx, uow, aggregate, shopOrder, radiusKm)
	if errors.Is(err, ErrNoCandidatesAvailable) {
		h.logger.InfoContext(ctx, "no eligible couriers, shop order stays unassigned",
			"shopOrderId", shopOrder.ID().String(),
			"radiusKm", radiusKm)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "dispatch failed", "error", err)
		return
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		h.logger.ErrorContext(ctx, "dispatch persist failed", "error", err)
		return
	}

	if err = uow.Commit(ctx); err != nil {
		h.logger.ErrorContext(ctx, "dispatch commit failed", "error", err)
	}
}
