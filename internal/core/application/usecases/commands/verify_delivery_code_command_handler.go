package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"
)

// VerifyDeliveryCodeCommandHandler finalizes deliveries.
//
// On an accepted code the shop order becomes Delivered, delivered-at is
// stamped, and the linked assignment is terminated, freeing the courier.
// This handler is the only writer of the Delivered state. A second verify
// against an already delivered shop order fails cleanly: no re-stamp, no
// double termination, no repeated notifications.
type VerifyDeliveryCodeCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.NotificationPublisher
	masterCode string
	logger     *slog.Logger
}

// NewVerifyDeliveryCodeCommandHandler creates a handler for code verification.
// masterCode is the configured operational override; empty disables the bypass.
func NewVerifyDeliveryCodeCommandHandler(
	uowFactory UoWFactory,
	publisher ports.NotificationPublisher,
	masterCode string,
	logger *slog.Logger,
) VerifyDeliveryCodeCommandHandler {
	return VerifyDeliveryCodeCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		masterCode: masterCode,
		logger:     logger.With("component", "verify_delivery_code"),
	}
}

// Handle processes the verification.
// Status change and assignment termination commit atomically; completion
// notifications go out after the commit, best effort.
func (h *VerifyDeliveryCodeCommandHandler) Handle(ctx context.Context, cmd VerifyDeliveryCodeCommand) error {
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

	deliveredAt := time.Now()
	if err = shopOrder.CompleteDelivery(cmd.Code(), h.masterCode, deliveredAt); err != nil {
		return err
	}

	courierID := shopOrder.Courier()
	if assignmentID := shopOrder.Assignment(); assignmentID != nil {
		if _, err = uow.AssignmentRepository().Terminate(ctx, *assignmentID); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notification := ports.DeliveryCompletedNotification{
		OrderID:     cmd.OrderID().String(),
		ShopOrderID: cmd.ShopOrderID().String(),
		DeliveredAt: deliveredAt,
	}
	if courierID != nil {
		notification.CourierID = courierID.String()
	}

	if err = h.publisher.PublishDeliveryCompleted(ctx, notification); err != nil {
		h.logger.WarnContext(ctx, "delivery completion notification failed",
			"shopOrderId", cmd.ShopOrderID().String(),
			"error", err)
	}

	return nil
}
