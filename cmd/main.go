package main

import (
	"context"
	"customer-registry/internal/api"
	"customer-registry/internal/config"
	"customer-registry/internal/domain/customer"
	"customer-registry/internal/event"
	"customer-registry/internal/infrastructure/database/postgres"
	"customer-registry/internal/infrastructure/database/sqlite"
	"customer-registry/internal/infrastructure/logging"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// @title Customer Registry API
// @version 1.0
// @description Creates and lists customer records.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
func main() {
	cfg, logger := initializeApp()

	repo, err := initializeRepository(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize customer storage", "error", err)
		os.Exit(1)
	}
	defer closeRepository(repo, logger)

	publisher, closePublisher := initializePublisher(cfg.Events, logger)
	defer closePublisher()

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	customerService := customer.NewCustomerService(repo, logger, customer.WithEventPublisher(publisher))
	router := api.SetupRouter(appCtx, customerService, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", cfg.ConfigFile, "driver", cfg.Database.Driver)

	return cfg, logger
}

// initializeRepository opens the configured storage and makes sure the
// customers table exists.
func initializeRepository(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (customer.Repository, error) {
	var repo customer.Repository

	switch cfg.Driver {
	case "", config.DriverSQLite:
		db, err := sqlite.NewConnection(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		repo = sqlite.NewCustomerRepository(db, logger)
	case config.DriverPostgres:
		pool, err := postgres.NewConnectionPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		repo = postgres.NewCustomerRepository(pool, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logger.Info("Initializing customers table...")
	if err := repo.Initialize(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("failed to initialize customers table: %w", err)
	}
	return repo, nil
}

func closeRepository(repo customer.Repository, logger *slog.Logger) {
	logger.Info("Closing customer storage...")
	if err := repo.Close(); err != nil {
		logger.Error("Failed to close customer storage", "error", err)
	}
}

// initializePublisher falls back to a no-op publisher when events are
// disabled or the broker is unreachable.
func initializePublisher(cfg config.EventsConfig, logger *slog.Logger) (event.EventPublisher, func()) {
	if !cfg.Enabled {
		logger.Info("Event publishing disabled")
		return event.NoopPublisher{}, func() {}
	}

	conn, err := event.Dial(cfg.URL)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, customer events will not be published", "error", err)
		return event.NoopPublisher{}, func() {}
	}

	pub, err := event.NewRabbitMQEventPublisher(conn, cfg.ExchangeName, logger)
	if err != nil {
		logger.Warn("Failed to set up RabbitMQ publisher, customer events will not be published", "error", err)
		_ = conn.Close()
		return event.NoopPublisher{}, func() {}
	}

	return pub, func() {
		logger.Info("Closing RabbitMQ connection...")
		if err := conn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection", "error", err)
		}
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}
