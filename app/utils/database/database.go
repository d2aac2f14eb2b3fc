package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

var errNotConnected = errors.New("database connection is nil")

// Config sizes the database/sql handle used by the migration tool. The
// service itself talks to the invitation store through pgx.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnTimeout     time.Duration
}

// DefaultConfig is enough for one migrator running statements in sequence.
func DefaultConfig(dsn string) *Config {
	return &Config{
		DSN:             dsn,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: 5 * time.Minute,
		ConnTimeout:     10 * time.Second,
	}
}

// Connection wraps a lib/pq handle.
type Connection struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewConnection opens the handle and pings it within cfg.ConnTimeout.
func NewConnection(ctx context.Context, cfg *Config, logger *slog.Logger) (*Connection, error) {
	logger = logger.With("component", "database")

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres handle: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.DebugContext(ctx, "postgres handle ready", "max_open_conns", cfg.MaxOpenConns)
	return &Connection{db: db, logger: logger}, nil
}

func (c *Connection) DB() *sql.DB {
	return c.db
}

func (c *Connection) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health pings the handle.
func (c *Connection) Health(ctx context.Context) error {
	if c.db == nil {
		return errNotConnected
	}
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}
