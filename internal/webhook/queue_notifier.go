package webhook

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/infrastructure/queue"
)

// QueueNotifier enqueues notifications for the delivery workers. Enqueue
// happens inside the answering request but is cheap: one insert, no network.
type QueueNotifier struct {
	queue   queue.DeliveryQueue
	enabled bool
	log     zerolog.Logger
}

// NewQueueNotifier creates a queue-backed notifier. An empty URL disables
// enqueueing entirely.
func NewQueueNotifier(url string, q queue.DeliveryQueue, log zerolog.Logger) *QueueNotifier {
	return &QueueNotifier{
		queue:   q,
		enabled: url != "",
		log:     log.With().Str("component", "webhook").Logger(),
	}
}

var _ Notifier = (*QueueNotifier)(nil)

// NotifyPhaseCompleted queues a phase.completed delivery.
func (n *QueueNotifier) NotifyPhaseCompleted(scopeID string, phase string, percentage int) {
	if !n.enabled {
		n.log.Debug().Str("scope_id", scopeID).Msg("no webhook URL configured, skipping notification")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := n.queue.Enqueue(ctx, &queue.Delivery{
		ScopeID:    scopeID,
		Phase:      phase,
		Percentage: percentage,
	})
	if err != nil {
		n.log.Error().Err(err).
			Str("scope_id", scopeID).
			Str("phase", phase).
			Msg("webhook enqueue failed")
	}
}
