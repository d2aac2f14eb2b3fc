package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"identity-facade/app/config"
)

// The invitation store is read-only and sees one lookup per name query, so
// the pool stays small.
var defaultPoolSettings = poolSettings{
	maxConns:        8,
	minConns:        1,
	maxConnLifetime: time.Hour,
	maxConnIdleTime: 15 * time.Minute,
	dialTimeout:     15 * time.Second,
	pingTimeout:     3 * time.Second,
}

var errPoolNotInitialized = errors.New("invitation store pool is not initialized")

type poolSettings struct {
	maxConns        int32
	minConns        int32
	maxConnLifetime time.Duration
	maxConnIdleTime time.Duration
	dialTimeout     time.Duration
	pingTimeout     time.Duration
}

func (s poolSettings) apply(pc *pgxpool.Config) {
	pc.MaxConns = s.maxConns
	pc.MinConns = s.minConns
	pc.MaxConnLifetime = s.maxConnLifetime
	pc.MaxConnIdleTime = s.maxConnIdleTime
	pc.ConnConfig.ConnectTimeout = s.dialTimeout
}

// DB owns the pgx pool backing the invitation store.
type DB struct {
	pool     *pgxpool.Pool
	logger   *slog.Logger
	settings poolSettings
}

// NewConnection opens the pool and verifies it with a ping.
func NewConnection(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse invitation store dsn: %w", err)
	}
	settings := defaultPoolSettings
	settings.apply(poolConfig)

	dialCtx, cancel := context.WithTimeout(ctx, settings.dialTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open invitation store pool: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping invitation store: %w", err)
	}

	logger.Info("invitation store connected",
		"host", poolConfig.ConnConfig.Host,
		"database", poolConfig.ConnConfig.Database,
		"table", cfg.InvitationTable,
		"max_conns", poolConfig.MaxConns)

	return &DB{pool: pool, logger: logger, settings: settings}, nil
}

func (db *DB) Close() {
	if db.pool == nil {
		return
	}
	db.pool.Close()
	db.logger.Info("invitation store closed")
}

// Pool exposes the pool to repositories.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// HealthCheck pings the store within the ping timeout.
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.pool == nil {
		return errPoolNotInitialized
	}

	pingTimeout := db.settings.pingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPoolSettings.pingTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("invitation store unreachable: %w", err)
	}
	return nil
}
