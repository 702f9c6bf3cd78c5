package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"briefhq/intake-api/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes for the intake domain.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Business{},
		&entities.Question{},
		&entities.ConversationEvent{},
		&entities.PhaseAnalysis{},
		&entities.WebhookDelivery{},
	); err != nil {
		return err
	}

	log.Info().Msg("database schema up to date")
	return nil
}
