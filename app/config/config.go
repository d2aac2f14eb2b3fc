package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported identity provider drivers
const (
	IdPDriverKeycloak = "keycloak"
	IdPDriverKratos   = "kratos"
)

// Config holds all configuration for the identity facade
type Config struct {
	// Server
	Port     string `env:"PORT" default:"9500"`
	Host     string `env:"HOST" default:"0.0.0.0"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`

	// Database
	DatabaseURL          string        `env:"DATABASE_URL"`
	DatabaseHost         string        `env:"DB_HOST" default:"facade-postgres"`
	DatabasePort         string        `env:"DB_PORT" default:"5432"`
	DatabaseName         string        `env:"DB_NAME" default:"facade_db"`
	DatabaseUser         string        `env:"DB_USER" default:"facade_user"`
	DatabasePassword     string        `env:"DB_PASSWORD"`
	DatabaseSSLMode      string        `env:"DB_SSL_MODE" default:"require"`
	DatabaseQueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" default:"5s"`
	InvitationTable      string        `env:"INVITATION_TABLE" default:"invitations"`

	// Identity provider
	IdPDriver    string        `env:"IDP_DRIVER" default:"keycloak"`
	IdPTimeout   time.Duration `env:"IDP_TIMEOUT" default:"10s"`
	DefaultRealm string        `env:"DEFAULT_REALM" default:"master"`

	// Keycloak
	KeycloakURL               string `env:"KEYCLOAK_URL"`
	KeycloakAdminRealm        string `env:"KEYCLOAK_ADMIN_REALM" default:"master"`
	KeycloakAdminClientID     string `env:"KEYCLOAK_ADMIN_CLIENT_ID"`
	KeycloakAdminClientSecret string `env:"KEYCLOAK_ADMIN_CLIENT_SECRET"`
	KeycloakClientID          string `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakClientSecret      string `env:"KEYCLOAK_CLIENT_SECRET"`
	KeycloakRealmCacheSize    int    `env:"KEYCLOAK_REALM_CACHE_SIZE" default:"64"`

	// Kratos
	KratosPublicURL string `env:"KRATOS_PUBLIC_URL"`
	KratosAdminURL  string `env:"KRATOS_ADMIN_URL"`

	// HTTP surface
	RateLimitRPS     float64  `env:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst   int      `env:"RATE_LIMIT_BURST" default:"20"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS"`

	// Features
	EnableMetrics           bool `env:"ENABLE_METRICS" default:"true"`
	EnableLegacyPasswordAPI bool `env:"ENABLE_LEGACY_PASSWORD_API" default:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{}
	var err error

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9500")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Database configuration
	if err := loadDatabase(config); err != nil {
		return nil, err
	}

	// Identity provider configuration
	config.IdPDriver = strings.ToLower(getEnvOrDefault("IDP_DRIVER", IdPDriverKeycloak))
	config.DefaultRealm = getEnvOrDefault("DEFAULT_REALM", "master")
	config.IdPTimeout, err = getDurationEnv("IDP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	config.KeycloakURL = strings.TrimRight(os.Getenv("KEYCLOAK_URL"), "/")
	config.KeycloakAdminRealm = getEnvOrDefault("KEYCLOAK_ADMIN_REALM", "master")
	config.KeycloakAdminClientID = os.Getenv("KEYCLOAK_ADMIN_CLIENT_ID")
	config.KeycloakAdminClientSecret = os.Getenv("KEYCLOAK_ADMIN_CLIENT_SECRET")
	config.KeycloakClientID = os.Getenv("KEYCLOAK_CLIENT_ID")
	config.KeycloakClientSecret = os.Getenv("KEYCLOAK_CLIENT_SECRET")
	config.KeycloakRealmCacheSize, err = getIntEnv("KEYCLOAK_REALM_CACHE_SIZE", 64)
	if err != nil {
		return nil, err
	}

	config.KratosPublicURL = os.Getenv("KRATOS_PUBLIC_URL")
	config.KratosAdminURL = os.Getenv("KRATOS_ADMIN_URL")

	switch config.IdPDriver {
	case IdPDriverKeycloak:
		if config.KeycloakURL == "" {
			return nil, fmt.Errorf("KEYCLOAK_URL is required")
		}
		if config.KeycloakAdminClientID == "" || config.KeycloakAdminClientSecret == "" {
			return nil, fmt.Errorf("KEYCLOAK_ADMIN_CLIENT_ID and KEYCLOAK_ADMIN_CLIENT_SECRET are required")
		}
		if config.KeycloakClientID == "" {
			return nil, fmt.Errorf("KEYCLOAK_CLIENT_ID is required")
		}
	case IdPDriverKratos:
		if config.KratosPublicURL == "" {
			return nil, fmt.Errorf("KRATOS_PUBLIC_URL is required")
		}
		if config.KratosAdminURL == "" {
			return nil, fmt.Errorf("KRATOS_ADMIN_URL is required")
		}
	}

	// Rate limiting
	rps := getEnvOrDefault("RATE_LIMIT_RPS", "10")
	config.RateLimitRPS, err = strconv.ParseFloat(rps, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	config.RateLimitBurst, err = getIntEnv("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}

	config.CORSAllowOrigins = getListEnv("CORS_ALLOW_ORIGINS")

	// Feature flags
	config.EnableMetrics = getBoolEnv("ENABLE_METRICS", true)
	config.EnableLegacyPasswordAPI = getBoolEnv("ENABLE_LEGACY_PASSWORD_API", false)

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadDatabase reads only the logging and database settings. It serves
// tools that never talk to the identity provider.
func LoadDatabase() (*Config, error) {
	config := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}
	if err := loadDatabase(config); err != nil {
		return nil, err
	}
	if config.InvitationTable == "" {
		return nil, fmt.Errorf("invitation table must not be empty")
	}
	return config, nil
}

func loadDatabase(config *Config) error {
	var err error

	config.DatabaseURL = os.Getenv("DATABASE_URL")
	config.DatabaseHost = getEnvOrDefault("DB_HOST", "facade-postgres")
	config.DatabasePort = getEnvOrDefault("DB_PORT", "5432")
	config.DatabaseName = getEnvOrDefault("DB_NAME", "facade_db")
	config.DatabaseUser = getEnvOrDefault("DB_USER", "facade_user")
	config.DatabasePassword = os.Getenv("DB_PASSWORD")
	if config.DatabaseURL == "" && config.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_URL or DB_PASSWORD is required")
	}
	config.DatabaseSSLMode = getEnvOrDefault("DB_SSL_MODE", "require")
	config.InvitationTable = getEnvOrDefault("INVITATION_TABLE", "invitations")

	config.DatabaseQueryTimeout, err = getDurationEnv("DB_QUERY_TIMEOUT", 5*time.Second)
	return err
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	switch c.IdPDriver {
	case IdPDriverKeycloak:
		if !isValidURL(c.KeycloakURL) {
			return fmt.Errorf("invalid Keycloak URL: %s", c.KeycloakURL)
		}
		if c.KeycloakRealmCacheSize < 1 {
			return fmt.Errorf("realm cache size must be positive, got: %d", c.KeycloakRealmCacheSize)
		}
	case IdPDriverKratos:
		if !isValidURL(c.KratosPublicURL) {
			return fmt.Errorf("invalid Kratos public URL: %s", c.KratosPublicURL)
		}
		if !isValidURL(c.KratosAdminURL) {
			return fmt.Errorf("invalid Kratos admin URL: %s", c.KratosAdminURL)
		}
	default:
		return fmt.Errorf("invalid IdP driver: %s (must be one of: %s, %s)", c.IdPDriver, IdPDriverKeycloak, IdPDriverKratos)
	}

	if c.DefaultRealm == "" {
		return fmt.Errorf("default realm must not be empty")
	}

	if c.IdPTimeout <= 0 {
		return fmt.Errorf("IdP timeout must be positive, got: %v", c.IdPTimeout)
	}

	if c.DatabaseQueryTimeout <= 0 {
		return fmt.Errorf("database query timeout must be positive, got: %v", c.DatabaseQueryTimeout)
	}

	if c.InvitationTable == "" {
		return fmt.Errorf("invitation table must not be empty")
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit must be positive, got: %v rps / %d burst", c.RateLimitRPS, c.RateLimitBurst)
	}

	return nil
}

// DSN returns DATABASE_URL when set, otherwise a URL built from the DB_* parts
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DatabaseUser, c.DatabasePassword),
		Host:     c.DatabaseHost + ":" + c.DatabasePort,
		Path:     "/" + c.DatabaseName,
		RawQuery: "sslmode=" + c.DatabaseSSLMode,
	}
	return u.String()
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(key), ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func isValidURL(urlStr string) bool {
	if urlStr == "" {
		return false
	}
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return parsedURL.Scheme != "" && parsedURL.Host != ""
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
