package sqlite

import (
	"context"
	"customer-registry/internal/config"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// NewConnection opens the shared handle on the database file at cfg.Path.
// database/sql pools the underlying connections; every repository call
// checks one out for the duration of its statement only.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("database path is empty in configuration")
	}

	dsn := buildDSN(cfg)
	logger.Info("Opening SQLite database...", "path", filepath.Clean(cfg.Path))
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}

	configurePool(db, cfg.Pool)

	if err := verifyConnection(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("Successfully opened SQLite database.", "path", filepath.Clean(cfg.Path))
	return db, nil
}

func configurePool(db *sql.DB, cfg config.PoolConfig) {
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	idle := cfg.MaxConnIdleTime
	if idle <= 0 {
		idle = 5 * time.Minute
	}
	db.SetConnMaxIdleTime(idle)
	if cfg.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
}

func buildDSN(cfg config.DatabaseConfig) string {
	busyTimeout := cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")
	return filepath.Clean(cfg.Path) + "?" + params.Encode()
}

func verifyConnection(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	logger.Info("Pinging database...")
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		return fmt.Errorf("failed to ping database on connect: %w", err)
	}

	return nil
}
