package queue

import (
	"context"
	"encoding/json"

	"dispatch/internal/core/ports"

	"github.com/hibiken/asynq"
)

// AsynqNotificationPublisher implements ports.NotificationPublisher by
// enqueueing one asynq task per notification.
type AsynqNotificationPublisher struct {
	client *asynq.Client
}

// NewAsynqNotificationPublisher creates a publisher on the given client.
func NewAsynqNotificationPublisher(client *asynq.Client) *AsynqNotificationPublisher {
	return &AsynqNotificationPublisher{client: client}
}

var _ ports.NotificationPublisher = (*AsynqNotificationPublisher)(nil)

// PublishAssignmentOffer fans the broadcast out to every candidate device.
func (p *AsynqNotificationPublisher) PublishAssignmentOffer(
	ctx context.Context,
	notification ports.AssignmentOfferNotification,
) error {
	return p.enqueue(ctx, TypeAssignmentOffer, notification)
}

// PublishStatusChanged informs the customer about shop order progress.
func (p *AsynqNotificationPublisher) PublishStatusChanged(
	ctx context.Context,
	notification ports.StatusChangedNotification,
) error {
	return p.enqueue(ctx, TypeStatusChanged, notification)
}

// PublishCancellation informs affected parties about a cancellation.
func (p *AsynqNotificationPublisher) PublishCancellation(
	ctx context.Context,
	notification ports.CancellationNotification,
) error {
	return p.enqueue(ctx, TypeCancellation, notification)
}

// PublishDeliveryCompleted confirms the delivery handshake succeeded.
func (p *AsynqNotificationPublisher) PublishDeliveryCompleted(
	ctx context.Context,
	notification ports.DeliveryCompletedNotification,
) error {
	return p.enqueue(ctx, TypeDeliveryCompleted, notification)
}

// SendDeliveryCode carries the one-time code to the customer. The task
// deadline matches the code expiry so a stale send is dropped instead of
// delivered.
func (p *AsynqNotificationPublisher) SendDeliveryCode(
	ctx context.Context,
	notification ports.DeliveryCodeNotification,
) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeDeliveryCode, payload)
	_, err = p.client.EnqueueContext(ctx, task, asynq.Deadline(notification.ExpiresAt))
	return err
}

func (p *AsynqNotificationPublisher) enqueue(ctx context.Context, taskType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = p.client.EnqueueContext(ctx, asynq.NewTask(taskType, raw))
	return err
}
