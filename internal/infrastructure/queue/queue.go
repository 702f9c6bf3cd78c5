// Package queue provides the durable webhook delivery queue.
package queue

import (
	"context"
	"time"
)

// Delivery represents one queued phase-completion notification.
type Delivery struct {
	PublicID   string
	ScopeID    string
	Phase      string
	Percentage int
	Attempts   int
	QueuedAt   time.Time
}

// DeliveryQueue defines the interface for delivery queue operations.
type DeliveryQueue interface {
	// Enqueue adds a delivery to the queue
	Enqueue(ctx context.Context, d *Delivery) error

	// Dequeue claims the next queued delivery using SELECT FOR UPDATE SKIP
	// LOCKED and marks it in_progress; returns nil when the queue is empty
	Dequeue(ctx context.Context) (*Delivery, error)

	// MarkDelivered updates delivery status to delivered
	MarkDelivered(ctx context.Context, publicID string) error

	// MarkFailed updates delivery status to failed with the error message
	MarkFailed(ctx context.Context, publicID string, err error) error

	// Depth returns the number of queued deliveries
	Depth(ctx context.Context) (int64, error)
}
