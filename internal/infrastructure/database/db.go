package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"meal-deals/internal/infrastructure/config"
	"meal-deals/internal/pkg/common"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"go.uber.org/zap"
)

// Options pool and connectivity settings
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

var openDB = sql.Open

// OptionsFromConfig builds pool options from the database section
func OptionsFromConfig(cfg config.DatabaseConfig) Options {
	return Options{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		PingTimeout:     cfg.PingTimeout,
	}
}

// Connect opens a pooled *sql.DB for databaseURL and verifies it with a ping
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := db.Stats()
	common.LogInfo("database connected",
		zap.Int("max_open", stats.MaxOpenConnections),
		zap.Int("open", stats.OpenConnections),
	)
	return db, nil
}

// Ping checks connectivity, used by the readiness probe
func Ping(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.PingContext(ctx)
}
