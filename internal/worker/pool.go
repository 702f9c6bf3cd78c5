// Package worker runs the background webhook delivery workers.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"briefhq/intake-api/internal/infrastructure/queue"
	"briefhq/intake-api/internal/webhook"
)

// Pool manages multiple delivery workers.
type Pool struct {
	workers      []*Worker
	queue        queue.DeliveryQueue
	sender       webhook.Sender
	workerCount  int
	deliveryTime time.Duration
	log          zerolog.Logger
	wg           sync.WaitGroup
}

// Config contains worker pool configuration.
type Config struct {
	WorkerCount     int
	DeliveryTimeout time.Duration
}

// NewPool creates a new delivery worker pool.
func NewPool(
	q queue.DeliveryQueue,
	sender webhook.Sender,
	cfg Config,
	log zerolog.Logger,
) *Pool {
	return &Pool{
		queue:        q,
		sender:       sender,
		workerCount:  cfg.WorkerCount,
		deliveryTime: cfg.DeliveryTimeout,
		log:          log.With().Str("component", "worker-pool").Logger(),
	}
}

// Start initializes and starts all workers.
func (p *Pool) Start(ctx context.Context) {
	p.log.Info().Int("worker_count", p.workerCount).Msg("starting worker pool")

	if depth, err := p.queue.Depth(ctx); err != nil {
		p.log.Warn().Err(err).Msg("failed to read delivery backlog")
	} else if depth > 0 {
		p.log.Info().Int64("pending", depth).Msg("resuming queued deliveries")
	}

	p.workers = make([]*Worker, p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		worker := NewWorker(
			i+1,
			p.queue,
			p.sender,
			p.deliveryTime,
			p.log,
		)
		p.workers[i] = worker

		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Start(ctx)
		}(worker)
	}

	p.log.Info().Msg("worker pool started")
}

// Stop gracefully shuts down all workers.
func (p *Pool) Stop() {
	p.log.Info().Msg("stopping worker pool")

	for _, worker := range p.workers {
		worker.Stop()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info().Msg("all workers stopped gracefully")
	case <-time.After(30 * time.Second):
		p.log.Warn().Msg("worker pool shutdown timed out")
	}
}
