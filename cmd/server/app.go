package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pricewatch/pricewatch-api/internal/config"
	"github.com/pricewatch/pricewatch-api/internal/events"
	"github.com/pricewatch/pricewatch-api/internal/platform/postgres"
	"github.com/pricewatch/pricewatch-api/internal/pricefeed"
	"github.com/pricewatch/pricewatch-api/internal/service"
	"github.com/pricewatch/pricewatch-api/internal/service/auth"
	"github.com/pricewatch/pricewatch-api/internal/store"
	"github.com/pricewatch/pricewatch-api/internal/task"
	"golang.org/x/crypto/bcrypt"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore  store.UserStore
	alertStore store.AlertStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	alertService     service.AlertService

	// Event system and background processing
	eventEmitter events.EventEmitter
	taskRunner   *task.TaskRunner
	poller       *pricefeed.Poller
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	app.alertStore = postgres.NewPostgresAlertStore(db, logger)

	app.userService = service.NewUserService(app.userStore, app.passwordVerifier, logger)
	app.alertService = service.NewAlertService(db, app.alertStore, logger)

	app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: cfg.PriceFeed.WorkerCount,
		QueueSize:   cfg.PriceFeed.QueueSize,
	}, logger)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewQuoteEventHandler(app.alertService, app.taskRunner, logger))
	app.eventEmitter = emitter

	quoteSource := pricefeed.NewHTTPQuoteSource(
		cfg.PriceFeed.ProviderURL,
		cfg.PriceFeed.ProviderAPIKey,
		pricefeed.WithLogger(logger.With("component", "quote_source")),
	)

	app.poller = pricefeed.New(
		pricefeed.Config{
			Interval: time.Duration(cfg.PriceFeed.PollIntervalSeconds) * time.Second,
		},
		quoteSource,
		app.alertStore,
		app.eventEmitter,
		logger,
	)
	if err := app.poller.Start(ctx); err != nil {
		// The runner is already live; stop its workers before bailing out.
		app.taskRunner.Stop()
		return nil, fmt.Errorf("failed to start price feed poller: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.poller != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := app.poller.Stop(stopCtx); err != nil {
			app.logger.Error("error stopping price feed poller", "error", err)
		}
		cancel()
	}

	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
