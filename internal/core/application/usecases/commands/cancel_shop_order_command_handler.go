package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// CancelShopOrderCommandHandler handles shop order cancellations.
//
// Cancelling a shop order with a live assignment terminates it, freeing the
// courier for subsequent dispatches. The termination is a conditional write:
// when a claim commits first, the cancellation still wins and the courier is
// released.
type CancelShopOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.NotificationPublisher
	logger     *slog.Logger
}

// NewCancelShopOrderCommandHandler creates a handler for cancellations.
func NewCancelShopOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.NotificationPublisher,
	logger *slog.Logger,
) CancelShopOrderCommandHandler {
	return CancelShopOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "cancel_shop_order"),
	}
}

// Handle processes the cancellation.
// Applies the actor rules, terminates any live assignment, and persists the
// change atomically. The affected parties are notified after the commit.
func (h *CancelShopOrderCommandHandler) Handle(ctx context.Context, cmd CancelShopOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	shopOrder, err := aggregate.ShopOrder(cmd.ShopOrderID())
	if err != nil {
		return err
	}

	// Captured before Cancel clears it, for the notification payload.
	assignmentID := shopOrder.Assignment()
	courierID := shopOrder.Courier()

	if err = shopOrder.Cancel(cmd.By(), cmd.Reason()); err != nil {
		return err
	}

	if assignmentID != nil {
		assignmentRepo := uow.AssignmentRepository()
		terminated, terminateErr := assignmentRepo.Terminate(ctx, *assignmentID)
		if terminateErr != nil {
			return terminateErr
		}
		if terminated {
			// A claim may have committed after the aggregate was loaded.
			// The terminated row carries the authoritative courier, so the
			// winning courier is notified even when the claim raced in.
			broadcast, getErr := assignmentRepo.Get(ctx, *assignmentID)
			if getErr != nil {
				return getErr
			}
			courierID = broadcast.Courier()
		}
		shopOrder.ReleaseAssignment()
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifyCancellation(ctx, cmd, shopOrder.ShopName(), courierID)
	return nil
}

func (h *CancelShopOrderCommandHandler) notifyCancellation(
	ctx context.Context,
	cmd CancelShopOrderCommand,
	shopName string,
	courierID *kernel.UUID,
) {
	notification := ports.CancellationNotification{
		OrderID:     cmd.OrderID().String(),
		ShopOrderID: cmd.ShopOrderID().String(),
		ShopName:    shopName,
		Reason:      cmd.Reason(),
		CancelledAt: time.Now(),
	}
	if courierID != nil {
		notification.CourierID = courierID.String()
	}

	if err := h.publisher.PublishCancellation(ctx, notification); err != nil {
		h.logger.WarnContext(ctx, "cancellation notification failed",
			"shopOrderId", cmd.ShopOrderID().String(),
			"error", err)
	}
}
