package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const serviceName = "identity-facade"

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// New returns the process logger writing to stdout.
func New(level string) (*slog.Logger, error) {
	l, err := NewWithWriter(level, os.Stdout)
	if err != nil {
		return nil, err
	}
	return WithComponent(l, "main"), nil
}

// NewWithWriter builds the service logger on w. Output is JSON when GO_ENV
// is production and logfmt text otherwise. Every record carries the
// service name and, when a span is active, its trace and span ids.
func NewWithWriter(level string, w io.Writer) (*slog.Logger, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: rfc3339Time,
	}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if isProduction() {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(NewTraceContextHandler(h)).With("service", serviceName), nil
}

func rfc3339Time(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey {
		return a
	}
	if t, ok := a.Value.Any().(time.Time); ok {
		a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
	}
	return a
}

func parseLogLevel(level string) (slog.Level, error) {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
	return lvl, nil
}

func isProduction() bool {
	switch strings.ToLower(os.Getenv("GO_ENV")) {
	case "production", "prod":
		return true
	}
	return false
}

func WithComponent(l *slog.Logger, component string) *slog.Logger {
	return l.With("component", component)
}

// DatabaseLogger tags records from the invitation store.
func DatabaseLogger(l *slog.Logger) *slog.Logger {
	return WithComponent(l, "database")
}

// IdPLogger tags records from an identity provider driver.
func IdPLogger(l *slog.Logger, driver string) *slog.Logger {
	return WithComponent(l, "idp").With("driver", driver)
}
