package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"dispatch/internal/core/ports"

	"github.com/hibiken/asynq"
)

// NotificationWorker consumes notification tasks and hands them to the
// delivery gateways. Gateways are pluggable; the default wiring logs the
// delivery, which is enough for development and keeps the queue drained.
type NotificationWorker struct {
	logger *slog.Logger
}

// NewNotificationWorker creates a worker for notification tasks.
func NewNotificationWorker(logger *slog.Logger) *NotificationWorker {
	return &NotificationWorker{
		logger: logger.With("component", "notification_worker"),
	}
}

// Register attaches the worker's handlers to the mux.
func (w *NotificationWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeAssignmentOffer, w.handleAssignmentOffer)
	mux.HandleFunc(TypeStatusChanged, w.handleStatusChanged)
	mux.HandleFunc(TypeCancellation, w.handleCancellation)
	mux.HandleFunc(TypeDeliveryCompleted, w.handleDeliveryCompleted)
	mux.HandleFunc(TypeDeliveryCode, w.handleDeliveryCode)
}

func (w *NotificationWorker) handleAssignmentOffer(ctx context.Context, task *asynq.Task) error {
	var notification ports.AssignmentOfferNotification
	if err := json.Unmarshal(task.Payload(), &notification); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "assignment offer delivered",
		"assignmentId", notification.AssignmentID,
		"shopName", notification.ShopName,
		"candidates", len(notification.CourierIDs))
	return nil
}

func (w *NotificationWorker) handleStatusChanged(ctx context.Context, task *asynq.Task) error {
	var notification ports.StatusChangedNotification
	if err := json.Unmarshal(task.Payload(), &notification); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "status change delivered",
		"shopOrderId", notification.ShopOrderID,
		"status", notification.Status)
	return nil
}

func (w *NotificationWorker) handleCancellation(ctx context.Context, task *asynq.Task) error {
	var notification ports.CancellationNotification
	if err := json.Unmarshal(task.Payload(), &notification); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "cancellation delivered",
		"shopOrderId", notification.ShopOrderID,
		"courierId", notification.CourierID,
		"reason", notification.Reason)
	return nil
}

func (w *NotificationWorker) handleDeliveryCompleted(ctx context.Context, task *asynq.Task) error {
	var notification ports.DeliveryCompletedNotification
	if err := json.Unmarshal(task.Payload(), &notification); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "delivery confirmation delivered",
		"shopOrderId", notification.ShopOrderID)
	return nil
}

func (w *NotificationWorker) handleDeliveryCode(ctx context.Context, task *asynq.Task) error {
	var notification ports.DeliveryCodeNotification
	if err := json.Unmarshal(task.Payload(), &notification); err != nil {
		return err
	}

	// The code itself stays out of the logs.
	w.logger.InfoContext(ctx, "delivery code sent",
		"shopOrderId", notification.ShopOrderID,
		"expiresAt", notification.ExpiresAt)
	return nil
}
