package kratos

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	kratosclient "github.com/ory/kratos-client-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"identity-facade/app/config"
	"identity-facade/app/utils/metrics"
)

const (
	driverName         = "kratos"
	healthCheckTimeout = 5 * time.Second
)

// Client is the Kratos identity provider. A realm is a Kratos identity
// schema id: users of one realm are the identities created with that schema.
// Login and session calls go to the public API, identity management to the
// admin API.
type Client struct {
	publicAPI *kratosclient.APIClient
	adminAPI  *kratosclient.APIClient
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	timeout := cfg.IdPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	publicAPI, err := newAPIClient("public", cfg.KratosPublicURL, timeout)
	if err != nil {
		return nil, err
	}
	adminAPI, err := newAPIClient("admin", cfg.KratosAdminURL, timeout)
	if err != nil {
		return nil, err
	}

	logger.Info("kratos driver ready", "public_url", cfg.KratosPublicURL, "admin_url", cfg.KratosAdminURL)

	return &Client{
		publicAPI: publicAPI,
		adminAPI:  adminAPI,
		tracer:    otel.Tracer("identity-facade/kratos"),
		logger:    logger,
	}, nil
}

func newAPIClient(surface, baseURL string, timeout time.Duration) (*kratosclient.APIClient, error) {
	if !isAbsoluteURL(baseURL) {
		return nil, fmt.Errorf("kratos %s url %q is not an absolute http url", surface, baseURL)
	}

	apiCfg := kratosclient.NewConfiguration()
	apiCfg.Servers = kratosclient.ServerConfigurations{{URL: strings.TrimRight(baseURL, "/")}}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}
	apiCfg.AddDefaultHeader("Accept", "application/json")
	return kratosclient.NewAPIClient(apiCfg), nil
}

// HealthCheck asks both Kratos surfaces for their version.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	surfaces := []struct {
		name string
		api  *kratosclient.APIClient
	}{
		{name: "public", api: c.publicAPI},
		{name: "admin", api: c.adminAPI},
	}
	for _, s := range surfaces {
		_, httpResp, err := s.api.MetadataAPI.GetVersion(ctx).Execute()
		if err != nil {
			return fmt.Errorf("kratos %s api unreachable: %w", s.name, err)
		}
		if httpResp.StatusCode != http.StatusOK {
			return fmt.Errorf("kratos %s api answered %d", s.name, httpResp.StatusCode)
		}
	}
	return nil
}

// startSpan opens a span and starts the IdP latency timer for operation.
func (c *Client) startSpan(ctx context.Context, operation, realm string) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "kratos."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("idp.realm", realm)),
	)
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
		metrics.ObserveIdPCall(driverName, operation, start)
	}
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
