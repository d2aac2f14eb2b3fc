package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"identity-facade/app/config"
	"identity-facade/app/di"
	"identity-facade/app/utils/logger"
	"identity-facade/app/utils/otel"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("server exited")
}

func run(cfg *config.Config, appLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelCfg := otel.ConfigFromEnv()
	shutdownTracing, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			appLogger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	appLogger.Info("starting identity facade",
		"version", otelCfg.ServiceVersion,
		"port", cfg.Port,
		"idp_driver", cfg.IdPDriver,
		"log_level", cfg.LogLevel,
		"tracing", otelCfg.Enabled)

	container, err := di.NewContainer(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependency container: %w", err)
	}
	defer container.Close()

	e, err := container.CreateRouter(otelCfg.ServiceName, otelCfg.Enabled)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.RateLimiter.Run(gctx)
		return nil
	})

	g.Go(func() error {
		appLogger.Info("server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
