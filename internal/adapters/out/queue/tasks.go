// Package queue implements the notification fan-out on asynq.
//
// The write side enqueues one task per notification after its transaction
// commits; asynq workers deliver them to courier devices and customer
// phones out of band. Losing a notification never loses state: the read
// queries serve the same facts on the next poll.
package queue

const (
	// TypeAssignmentOffer is broadcast to every candidate courier device.
	TypeAssignmentOffer = "notify:assignment_offer"

	// TypeStatusChanged informs the customer about shop order progress.
	TypeStatusChanged = "notify:status_changed"

	// TypeCancellation informs affected parties about a cancellation.
	TypeCancellation = "notify:cancellation"

	// TypeDeliveryCompleted confirms the delivery handshake succeeded.
	TypeDeliveryCompleted = "notify:delivery_completed"

	// TypeDeliveryCode carries the one-time code to the customer. Queued
	// with a deadline: a code delivered after expiry is useless.
	TypeDeliveryCode = "notify:delivery_code"
)
