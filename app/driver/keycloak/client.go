package keycloak

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"identity-facade/app/config"
	"identity-facade/app/domain"
	"identity-facade/app/utils/metrics"
)

const (
	driverName         = "keycloak"
	maxDiscoveryBody   = 1 << 20
	defaultIdPDeadline = 10 * time.Second
)

// Client talks to Keycloak. Token grants go through the per-realm OIDC
// token endpoint; user administration goes through gocloak, authorised by a
// client-credentials token from the admin realm.
type Client struct {
	baseURL      string
	adminRealm   string
	clientID     string
	clientSecret string

	httpClient    *http.Client
	lookupTimeout time.Duration

	admin       *gocloak.GoCloak
	adminTokens oauth2.TokenSource

	realms    *lru.Cache[string, *oauth2.Config]
	discovery singleflight.Group

	tracer trace.Tracer
	logger *slog.Logger
}

func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	realms, err := lru.New[string, *oauth2.Config](cfg.KeycloakRealmCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create realm cache: %w", err)
	}

	timeout := cfg.IdPTimeout
	if timeout <= 0 {
		timeout = defaultIdPDeadline
	}
	baseURL := strings.TrimRight(cfg.KeycloakURL, "/")
	httpClient := &http.Client{Timeout: timeout}

	adminGrant := clientcredentials.Config{
		ClientID:     cfg.KeycloakAdminClientID,
		ClientSecret: cfg.KeycloakAdminClientSecret,
		TokenURL:     tokenURL(baseURL, cfg.KeycloakAdminRealm),
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	adminTokens := adminGrant.TokenSource(context.WithValue(context.Background(), oauth2.HTTPClient, httpClient))

	admin := gocloak.NewClient(baseURL)
	admin.RestyClient().SetTimeout(timeout)
	admin.RestyClient().OnAfterResponse(keepErrorBody)

	logger.Info("Keycloak client initialized",
		"url", baseURL,
		"admin_realm", cfg.KeycloakAdminRealm,
		"client_id", cfg.KeycloakClientID)

	return &Client{
		baseURL:       baseURL,
		adminRealm:    cfg.KeycloakAdminRealm,
		clientID:      cfg.KeycloakClientID,
		clientSecret:  cfg.KeycloakClientSecret,
		httpClient:    httpClient,
		lookupTimeout: timeout,
		admin:         admin,
		adminTokens:   adminTokens,
		realms:        realms,
		tracer:        otel.Tracer("identity-facade/keycloak"),
		logger:        logger,
	}, nil
}

// HealthCheck fetches the admin realm discovery document
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL(c.baseURL, c.adminRealm), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to Keycloak: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Keycloak returned status %d", resp.StatusCode)
	}
	return nil
}

// oauthConfig returns the password-grant client for realm, discovering its
// endpoints on first use. Concurrent callers share one lookup, which runs
// detached from any single caller's cancellation; each caller still stops
// waiting when its own context ends.
func (c *Client) oauthConfig(ctx context.Context, realm string) (*oauth2.Config, error) {
	if conf, ok := c.realms.Get(realm); ok {
		return conf, nil
	}

	lookup := c.discovery.DoChan(realm, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.lookupTimeout)
		defer cancel()

		conf, err := c.discoverRealm(lctx, realm)
		if err != nil {
			return nil, err
		}
		c.realms.Add(realm, conf)
		return conf, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-lookup:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*oauth2.Config), nil
	}
}

// discoverRealm reads the realm's OpenID configuration. A non-200 answer,
// such as 404 for an unknown realm, is returned as a provider error carrying
// Keycloak's status and body. Tokens are never verified here, so the
// advertised issuer is not checked against the request URL.
func (c *Client) discoverRealm(ctx context.Context, realm string) (*oauth2.Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL(c.baseURL, realm), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to discover realm %s: %w", realm, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDiscoveryBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read realm %s discovery: %w", realm, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewProviderError(resp.StatusCode, body, fmt.Errorf("discover realm %s", realm))
	}

	var pc oidc.ProviderConfig
	if err := json.Unmarshal(body, &pc); err != nil {
		return nil, fmt.Errorf("failed to decode realm %s discovery: %w", realm, err)
	}
	if pc.TokenURL == "" {
		return nil, fmt.Errorf("realm %s advertises no token endpoint", realm)
	}

	endpoint := pc.NewProvider(oidc.ClientContext(ctx, c.httpClient)).Endpoint()
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	c.logger.Debug("realm discovered", "realm", realm, "token_url", endpoint.TokenURL)
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{oidc.ScopeOpenID},
	}, nil
}

// adminCall runs fn with a fresh admin access token. gocloak failures are
// mapped onto the error taxonomy with the body Keycloak actually sent.
func (c *Client) adminCall(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	token, err := c.adminTokens.Token()
	if err != nil {
		return classifyTransportError(err)
	}

	capture := &errorBody{}
	if err := fn(context.WithValue(ctx, errorBodyKey{}, capture), token.AccessToken); err != nil {
		return classifyAdminError(err, capture.body)
	}
	return nil
}

type errorBodyKey struct{}

type errorBody struct {
	body []byte
}

// keepErrorBody copies the raw body of a failed admin response into the
// request's errorBody, since gocloak reduces it to a status line.
func keepErrorBody(_ *resty.Client, resp *resty.Response) error {
	if !resp.IsError() || resp.Request == nil {
		return nil
	}
	if capture, ok := resp.Request.Context().Value(errorBodyKey{}).(*errorBody); ok {
		capture.body = append([]byte(nil), resp.Body()...)
	}
	return nil
}

// startSpan opens a span and starts the IdP latency timer for operation.
func (c *Client) startSpan(ctx context.Context, operation, realm string) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "keycloak."+operation,
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

func issuerURL(baseURL, realm string) string {
	return baseURL + "/realms/" + url.PathEscape(realm)
}

func discoveryURL(baseURL, realm string) string {
	return issuerURL(baseURL, realm) + "/.well-known/openid-configuration"
}

func tokenURL(baseURL, realm string) string {
	return issuerURL(baseURL, realm) + "/protocol/openid-connect/token"
}
