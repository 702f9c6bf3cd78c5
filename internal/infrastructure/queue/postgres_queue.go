package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"briefhq/intake-api/internal/infrastructure/database/entities"
)

// PostgresQueue implements DeliveryQueue on the webhook_deliveries table.
type PostgresQueue struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewPostgresQueue creates a new PostgreSQL-backed delivery queue.
func NewPostgresQueue(db *gorm.DB, log zerolog.Logger) *PostgresQueue {
	return &PostgresQueue{
		db:  db,
		log: log.With().Str("component", "postgres-queue").Logger(),
	}
}

var _ DeliveryQueue = (*PostgresQueue)(nil)

// Enqueue inserts a queued delivery row.
func (q *PostgresQueue) Enqueue(ctx context.Context, d *Delivery) error {
	if d.PublicID == "" {
		d.PublicID = uuid.NewString()
	}
	if d.QueuedAt.IsZero() {
		d.QueuedAt = time.Now().UTC()
	}

	entity := entities.WebhookDelivery{
		PublicID:   d.PublicID,
		ScopeID:    d.ScopeID,
		Phase:      d.Phase,
		Percentage: d.Percentage,
		Status:     "queued",
		QueuedAt:   d.QueuedAt,
	}
	if err := q.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return fmt.Errorf("enqueue delivery: %w", err)
	}
	return nil
}

// Dequeue claims the oldest queued delivery. The claim and the in_progress
// transition run in one transaction so two workers never take the same row.
func (q *PostgresQueue) Dequeue(ctx context.Context) (*Delivery, error) {
	var entity entities.WebhookDelivery

	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Raw("SELECT * FROM webhook_deliveries WHERE status = ? ORDER BY queued_at ASC LIMIT 1 FOR UPDATE SKIP LOCKED", "queued").
			Scan(&entity).Error
		if err != nil {
			return err
		}
		if entity.ID == 0 {
			return nil // No deliveries available
		}

		return tx.Model(&entities.WebhookDelivery{}).
			Where("id = ?", entity.ID).
			Updates(map[string]interface{}{
				"status":     "in_progress",
				"attempts":   gorm.Expr("attempts + 1"),
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("dequeue delivery: %w", err)
	}
	if entity.ID == 0 {
		return nil, nil
	}

	return &Delivery{
		PublicID:   entity.PublicID,
		ScopeID:    entity.ScopeID,
		Phase:      entity.Phase,
		Percentage: entity.Percentage,
		Attempts:   entity.Attempts + 1,
		QueuedAt:   entity.QueuedAt,
	}, nil
}

// MarkDelivered updates the delivery status to delivered.
func (q *PostgresQueue) MarkDelivered(ctx context.Context, publicID string) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.WebhookDelivery{}).
		Where("public_id = ?", publicID).
		Updates(map[string]interface{}{
			"status":       "delivered",
			"delivered_at": now,
			"updated_at":   now,
		})

	if result.Error != nil {
		return fmt.Errorf("mark delivered: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delivery not found: %s", publicID)
	}
	return nil
}

// MarkFailed updates the delivery status to failed.
func (q *PostgresQueue) MarkFailed(ctx context.Context, publicID string, deliveryErr error) error {
	message := deliveryErr.Error()
	result := q.db.WithContext(ctx).
		Model(&entities.WebhookDelivery{}).
		Where("public_id = ?", publicID).
		Updates(map[string]interface{}{
			"status":     "failed",
			"last_error": &message,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("mark failed: %w", result.Error)
	}
	return nil
}

// Depth returns the number of queued deliveries.
func (q *PostgresQueue) Depth(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&entities.WebhookDelivery{}).
		Where("status = ?", "queued").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("queue depth: %w", err)
	}
	return count, nil
}
