package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"identity-facade/app/config"
	"identity-facade/app/utils/database"
	"identity-facade/app/utils/logger"
	"identity-facade/app/utils/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	var (
		command = flag.String("command", "up", "Migration command (up, down, status)")
		steps   = flag.Int("steps", 1, "Number of steps for down migration")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := cfg.LogLevel
	if *verbose {
		logLevel = "debug"
	}

	appLogger, err := logger.New(logLevel)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger, *command, *steps); err != nil {
		appLogger.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger, command string, steps int) error {
	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}

	dbConn, err := database.NewConnection(ctx, database.DefaultConfig(cfg.DSN()), appLogger)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	migrator := migration.NewMigrator(dbConn.DB(), appLogger, migrations, cfg.InvitationTable)

	switch command {
	case "up":
		if err := migrator.Up(ctx); err != nil {
			return err
		}
		appLogger.InfoContext(ctx, "all migrations applied")

	case "down":
		if steps <= 0 {
			steps = 1
		}
		for i := 0; i < steps; i++ {
			if err := migrator.Down(ctx); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		appLogger.InfoContext(ctx, "migrations rolled back", "steps", steps)

	case "status":
		return migrator.Status(ctx)

	default:
		return fmt.Errorf("unknown command %q (available: up, down, status)", command)
	}

	return nil
}
