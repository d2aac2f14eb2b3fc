package rest

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"identity-facade/app/port"
	"identity-facade/app/rest/handlers"
	custommw "identity-facade/app/rest/middleware"
	"identity-facade/app/utils/metrics"
	"identity-facade/app/utils/validator"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger            *slog.Logger
	AdminUsecase      port.AdminUsecase
	UserUsecase       port.UserUsecase
	InvitationUsecase port.InvitationUsecase
	HealthChecks      map[string]port.HealthChecker
	RateLimiter       *custommw.RateLimiter

	DefaultRealm            string
	CORSAllowOrigins        []string
	ServiceName             string
	EnableTracing           bool
	EnableMetrics           bool
	EnableLegacyPasswordAPI bool
}

// NewRouter creates and configures the Echo router
func NewRouter(config RouterConfig) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	adminHandler := handlers.NewAdminHandler(config.AdminUsecase, config.DefaultRealm, config.Logger)
	userHandler := handlers.NewUserHandler(config.UserUsecase, config.InvitationUsecase, config.DefaultRealm, config.Logger)
	healthHandler := handlers.NewHealthHandler(config.HealthChecks, config.Logger)
	docsHandler, err := handlers.NewDocsHandler()
	if err != nil {
		return nil, err
	}

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if config.EnableTracing {
		e.Use(otelecho.Middleware(config.ServiceName))
	}
	e.Use(requestLogger(config.Logger))
	e.Use(custommw.CORS(config.CORSAllowOrigins))
	e.Use(custommw.SecurityHeaders())

	// ヘルスチェックとメトリクスはレート制限の対象外
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/health/ready", healthHandler.ReadinessCheck)
	e.GET("/health/live", healthHandler.LivenessCheck)
	if config.EnableMetrics {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	v1 := e.Group("/v1")
	if config.RateLimiter != nil {
		v1.Use(config.RateLimiter.RateLimit())
	}

	v1.GET("/api-doc", docsHandler.APIDoc)

	// Admin user management
	admin := v1.Group("/admin/users")
	admin.POST("", adminHandler.CreateUser)
	admin.GET("/email", adminHandler.GetUserByEmail)
	admin.GET("/id", adminHandler.GetUserID)
	admin.GET("/:identifier", adminHandler.GetUserByID)
	admin.DELETE("/:identifier", adminHandler.DeleteUser)

	// End-user endpoints
	users := v1.Group("/users")
	users.GET("/name", userHandler.GetUsername)
	users.POST("/auth", userHandler.Authenticate)
	users.POST("/refresh", userHandler.Refresh)
	if config.EnableLegacyPasswordAPI {
		users.PUT("/password", userHandler.ChangePassword)
	}

	v1.GET("/user/status", userHandler.GetUserStatus)

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURIPath:   true,
		LogError:     true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				logger.InfoContext(ctx, "request completed",
					"method", v.Method,
					"path", v.URIPath,
					"status", v.Status,
					"request_id", v.RequestID,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				logger.ErrorContext(ctx, "request failed",
					"method", v.Method,
					"path", v.URIPath,
					"status", v.Status,
					"request_id", v.RequestID,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	})
}
