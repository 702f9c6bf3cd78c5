//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"briefhq/intake-api/internal/config"
	"briefhq/intake-api/internal/domain/analysis"
	"briefhq/intake-api/internal/domain/business"
	"briefhq/intake-api/internal/domain/catalog"
	"briefhq/intake-api/internal/domain/conversation"
	"briefhq/intake-api/internal/domain/event"
	"briefhq/intake-api/internal/infrastructure/auth"
	"briefhq/intake-api/internal/infrastructure/database"
	"briefhq/intake-api/internal/infrastructure/logger"
	"briefhq/intake-api/internal/infrastructure/queue"
	analysisrepo "briefhq/intake-api/internal/infrastructure/repository/analysis"
	businessrepo "briefhq/intake-api/internal/infrastructure/repository/business"
	catalogrepo "briefhq/intake-api/internal/infrastructure/repository/catalog"
	eventrepo "briefhq/intake-api/internal/infrastructure/repository/event"
	"briefhq/intake-api/internal/interfaces/httpserver"
	"briefhq/intake-api/internal/webhook"
)

var intakeSet = wire.NewSet(
	catalogrepo.NewPostgresRepository,
	wire.Bind(new(catalog.Reader), new(*catalogrepo.PostgresRepository)),
	eventrepo.NewPostgresRepository,
	wire.Bind(new(event.Store), new(*eventrepo.PostgresRepository)),
	analysisrepo.NewPostgresRepository,
	wire.Bind(new(analysis.Repository), new(*analysisrepo.PostgresRepository)),
	businessrepo.NewPostgresRepository,
	wire.Bind(new(business.Repository), new(*businessrepo.PostgresRepository)),
	queue.NewPostgresQueue,
	wire.Bind(new(queue.DeliveryQueue), new(*queue.PostgresQueue)),
	newPhaseNotifier,
	wire.Bind(new(webhook.Notifier), new(*webhook.QueueNotifier)),
	conversation.NewService,
	wire.Bind(new(conversation.Service), new(*conversation.DefaultService)),
	analysis.NewService,
	wire.Bind(new(analysis.Service), new(*analysis.DefaultService)),
)

// BuildApplication demonstrates how to assemble the intake service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		intakeSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newPhaseNotifier(cfg *config.Config, q *queue.PostgresQueue, log zerolog.Logger) *webhook.QueueNotifier {
	return webhook.NewQueueNotifier(cfg.PhaseWebhookURL, q, log)
}
