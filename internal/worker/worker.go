package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/domain/retry"
	"briefhq/intake-api/internal/infrastructure/queue"
	"briefhq/intake-api/internal/webhook"
)

// Worker drains the delivery queue and posts payloads to the webhook URL.
type Worker struct {
	id              int
	queue           queue.DeliveryQueue
	sender          webhook.Sender
	deliveryTimeout time.Duration
	executor        *retry.Executor
	log             zerolog.Logger
	stopChan        chan struct{}
}

// NewWorker creates a new delivery worker.
func NewWorker(
	id int,
	q queue.DeliveryQueue,
	sender webhook.Sender,
	deliveryTimeout time.Duration,
	log zerolog.Logger,
) *Worker {
	return &Worker{
		id:              id,
		queue:           q,
		sender:          sender,
		deliveryTimeout: deliveryTimeout,
		executor:        retry.NewExecutor(retry.WebhookPolicy()),
		log:             log.With().Int("worker_id", id).Str("component", "worker").Logger(),
		stopChan:        make(chan struct{}),
	}
}

// Start begins processing deliveries from the queue.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("worker started")

	ticker := time.NewTicker(2 * time.Second) // Poll every 2 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker stopped by context")
			return
		case <-w.stopChan:
			w.log.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			w.processNextDelivery(ctx)
		}
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) processNextDelivery(ctx context.Context) {
	delivery, err := w.queue.Dequeue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to dequeue delivery")
		return
	}

	if delivery == nil {
		// Queue is empty
		return
	}

	w.log.Info().
		Str("delivery_id", delivery.PublicID).
		Str("scope_id", delivery.ScopeID).
		Str("phase", delivery.Phase).
		Msg("processing webhook delivery")

	deliveryCtx, cancel := context.WithTimeout(ctx, w.deliveryTimeout)
	defer cancel()

	payload := webhook.PhasePayload{
		Event:      "phase.completed",
		ScopeID:    delivery.ScopeID,
		Phase:      delivery.Phase,
		Percentage: delivery.Percentage,
	}

	err = w.executor.Execute(deliveryCtx, func(ctx context.Context, attempt int) error {
		return w.sender.Deliver(ctx, payload)
	})
	if err != nil {
		w.log.Error().Err(err).Str("delivery_id", delivery.PublicID).Msg("webhook delivery failed")
		if markErr := w.queue.MarkFailed(ctx, delivery.PublicID, err); markErr != nil {
			w.log.Error().Err(markErr).Str("delivery_id", delivery.PublicID).Msg("failed to mark delivery as failed")
		}
		return
	}

	if err := w.queue.MarkDelivered(ctx, delivery.PublicID); err != nil {
		w.log.Error().Err(err).Str("delivery_id", delivery.PublicID).Msg("failed to mark delivery as delivered")
		return
	}

	w.log.Info().Str("delivery_id", delivery.PublicID).Msg("webhook delivered")
}
