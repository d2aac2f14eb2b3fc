package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"identity-facade/app/config"
	"identity-facade/app/driver/keycloak"
	"identity-facade/app/driver/kratos"
	"identity-facade/app/driver/postgres"
	"identity-facade/app/port"
	"identity-facade/app/rest"
	custommw "identity-facade/app/rest/middleware"
	"identity-facade/app/usecase"
	"identity-facade/app/utils/logger"
)

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Drivers
	DB  *postgres.DB
	IdP port.IdentityProvider

	// Repositories
	InvitationRepository port.InvitationRepository

	// Usecases
	AdminUsecase      port.AdminUsecase
	UserUsecase       port.UserUsecase
	InvitationUsecase port.InvitationUsecase

	RateLimiter *custommw.RateLimiter
}

// NewContainer creates and initializes a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: appLogger,
	}

	var err error

	container.DB, err = postgres.NewConnection(ctx, cfg, logger.DatabaseLogger(appLogger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	container.IdP, err = newIdentityProvider(cfg, logger.IdPLogger(appLogger, cfg.IdPDriver))
	if err != nil {
		container.DB.Close()
		return nil, fmt.Errorf("failed to initialize identity provider: %w", err)
	}

	container.InvitationRepository = postgres.NewInvitationRepository(
		container.DB.Pool(),
		cfg.InvitationTable,
		cfg.DatabaseQueryTimeout,
		logger.DatabaseLogger(appLogger),
	)

	container.wireUsecases()
	container.RateLimiter = custommw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	appLogger.Info("container initialized",
		"idp_driver", cfg.IdPDriver,
		"default_realm", cfg.DefaultRealm,
		"invitation_table", cfg.InvitationTable)

	return container, nil
}

func (c *Container) wireUsecases() {
	c.AdminUsecase = usecase.NewAdminUseCase(c.IdP)
	c.UserUsecase = usecase.NewUserUseCase(c.IdP)
	c.InvitationUsecase = usecase.NewInvitationUseCase(c.InvitationRepository, c.IdP)
}

// newIdentityProvider selects the IdP adapter named by cfg.IdPDriver
func newIdentityProvider(cfg *config.Config, idpLogger *slog.Logger) (port.IdentityProvider, error) {
	switch cfg.IdPDriver {
	case config.IdPDriverKeycloak:
		return keycloak.NewClient(cfg, idpLogger)
	case config.IdPDriverKratos:
		return kratos.NewClient(cfg, idpLogger)
	default:
		return nil, fmt.Errorf("unsupported IdP driver: %q", cfg.IdPDriver)
	}
}

// HealthChecks returns the dependencies the readiness probe pings
func (c *Container) HealthChecks() map[string]port.HealthChecker {
	checks := make(map[string]port.HealthChecker, 2)
	if c.DB != nil {
		checks["database"] = c.DB
	}
	if c.IdP != nil {
		checks["idp"] = c.IdP
	}
	return checks
}

// CreateRouter creates and returns a fully configured Echo router
func (c *Container) CreateRouter(serviceName string, enableTracing bool) (*echo.Echo, error) {
	router, err := rest.NewRouter(rest.RouterConfig{
		Logger:                  c.Logger,
		AdminUsecase:            c.AdminUsecase,
		UserUsecase:             c.UserUsecase,
		InvitationUsecase:       c.InvitationUsecase,
		HealthChecks:            c.HealthChecks(),
		RateLimiter:             c.RateLimiter,
		DefaultRealm:            c.Config.DefaultRealm,
		CORSAllowOrigins:        c.Config.CORSAllowOrigins,
		ServiceName:             serviceName,
		EnableTracing:           enableTracing,
		EnableMetrics:           c.Config.EnableMetrics,
		EnableLegacyPasswordAPI: c.Config.EnableLegacyPasswordAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	c.Logger.Info("API router created",
		"metrics", c.Config.EnableMetrics,
		"legacy_password_api", c.Config.EnableLegacyPasswordAPI)
	return router, nil
}

// Close closes all resources
func (c *Container) Close() error {
	if c.DB != nil {
		c.DB.Close()
	}

	c.Logger.Info("container closed")
	return nil
}
