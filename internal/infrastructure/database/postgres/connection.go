package postgres

import (
	"context"
	"customer-registry/internal/config"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 5 * time.Second

// NewConnectionPool opens the process-wide pool described by cfg.URL and
// tuned by cfg.Pool, and checks that the server answers.
func NewConnectionPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty in configuration")
	}

	poolConfig, err := configurePool(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Connecting to PostgreSQL database...",
		"host", poolConfig.ConnConfig.Host,
		"db", poolConfig.ConnConfig.Database,
		"max_conns", poolConfig.MaxConns,
		"min_conns", poolConfig.MinConns,
	)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := verifyConnection(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Successfully connected to PostgreSQL database.", "host", poolConfig.ConnConfig.Host, "db", poolConfig.ConnConfig.Database)
	return pool, nil
}

// configurePool applies cfg.Pool over the URL's settings. Zero fields keep
// whatever the URL or pgx chose.
func configurePool(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	p := cfg.Pool
	if p.MinConns < 0 || p.MaxConns < 0 || (p.MaxConns > 0 && p.MinConns > p.MaxConns) {
		return nil, fmt.Errorf("invalid pool size: minConns=%d maxConns=%d", p.MinConns, p.MaxConns)
	}
	if p.MaxConns > 0 {
		poolConfig.MaxConns = int32(p.MaxConns)
	}
	if p.MinConns > 0 {
		poolConfig.MinConns = int32(p.MinConns)
	}
	if p.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = p.MaxConnIdleTime
	}
	if p.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = p.MaxConnLifetime
	}
	if p.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = p.HealthCheckPeriod
	}
	if p.ApplicationName != "" {
		if _, set := poolConfig.ConnConfig.RuntimeParams["application_name"]; !set {
			poolConfig.ConnConfig.RuntimeParams["application_name"] = p.ApplicationName
		}
	}

	return poolConfig, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func verifyConnection(ctx context.Context, pool pinger, logger *slog.Logger) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		return fmt.Errorf("failed to ping database on connect: %w", err)
	}
	logger.Debug("Database ping succeeded")

	return nil
}
