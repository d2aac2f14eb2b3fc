package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const corsMaxAge = 12 * 60 * 60

// CORSConfig returns the echo CORS settings for the API. With no
// configured origins any origin is accepted, but credentials are never
// allowed alongside the wildcard.
func CORSConfig(allowOrigins []string) middleware.CORSConfig {
	cfg := middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, echo.HeaderXRequestID,
		},
		ExposeHeaders:    []string{echo.HeaderXRequestID, echo.HeaderRetryAfter},
		AllowCredentials: len(allowOrigins) > 0,
		MaxAge:           corsMaxAge,
	}
	if len(allowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	return cfg
}

// CORS builds the CORS middleware for the allowed origins.
func CORS(allowOrigins []string) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(CORSConfig(allowOrigins))
}
