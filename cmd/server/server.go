package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"briefhq/intake-api/internal/config"
	"briefhq/intake-api/internal/domain/analysis"
	"briefhq/intake-api/internal/domain/conversation"
	"briefhq/intake-api/internal/infrastructure/auth"
	"briefhq/intake-api/internal/infrastructure/database"
	"briefhq/intake-api/internal/infrastructure/logger"
	"briefhq/intake-api/internal/infrastructure/observability"
	"briefhq/intake-api/internal/infrastructure/queue"
	analysisrepo "briefhq/intake-api/internal/infrastructure/repository/analysis"
	businessrepo "briefhq/intake-api/internal/infrastructure/repository/business"
	catalogrepo "briefhq/intake-api/internal/infrastructure/repository/catalog"
	eventrepo "briefhq/intake-api/internal/infrastructure/repository/event"
	"briefhq/intake-api/internal/interfaces/httpserver"
	"briefhq/intake-api/internal/webhook"
	"briefhq/intake-api/internal/worker"
)

// @title Intake API
// @version 1.0
// @description Reconstructs questionnaire progress and conversation flow from an append-only event log.
// @contact.name BriefHQ Team
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	catalogRepository := catalogrepo.NewPostgresRepository(db)
	eventRepository := eventrepo.NewPostgresRepository(db)
	analysisRepository := analysisrepo.NewPostgresRepository(db)
	businessRepository := businessrepo.NewPostgresRepository(db)

	// Initialize webhook delivery infrastructure
	deliveryQueue := queue.NewPostgresQueue(db, log)
	phaseNotifier := webhook.NewQueueNotifier(cfg.PhaseWebhookURL, deliveryQueue, log)

	conversationService := conversation.NewService(catalogRepository, eventRepository, phaseNotifier, log)
	analysisService := analysis.NewService(analysisRepository)

	if cfg.PhaseWebhookURL != "" {
		workerPool := worker.NewPool(
			deliveryQueue,
			webhook.NewHTTPSender(cfg.PhaseWebhookURL, log),
			worker.Config{
				WorkerCount:     cfg.WebhookWorkers,
				DeliveryTimeout: cfg.WebhookTimeout,
			},
			log,
		)
		workerPool.Start(ctx)
		defer func() {
			log.Info().Msg("stopping worker pool")
			workerPool.Stop()
		}()
	}

	httpServer := httpserver.New(
		cfg,
		log,
		conversationService,
		analysisService,
		catalogRepository,
		businessRepository,
		authValidator,
	)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
