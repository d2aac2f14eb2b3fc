package kratos

import (
	"context"
	"time"

	kratosclient "github.com/ory/kratos-client-go"

	"identity-facade/app/domain"
)

const (
	// Kratos session tokens are opaque; the same token authenticates and
	// is extended on refresh.
	sessionTokenType = "session"
	passwordMethod   = "password"
)

// Authenticate runs a native (API) login flow with the password method
func (c *Client) Authenticate(ctx context.Context, realm, username, password string) (_ *domain.AuthSession, err error) {
	ctx, end := c.startSpan(ctx, "authenticate", realm)
	defer end(&err)

	flow, httpResp, err := c.publicAPI.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, classifyError(err, httpResp, rejectByStatus)
	}

	method := kratosclient.UpdateLoginFlowWithPasswordMethod{
		Identifier: username,
		Password:   password,
		Method:     passwordMethod,
	}

	result, httpResp, err := c.publicAPI.FrontendAPI.
		UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(kratosclient.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&method)).
		Execute()
	if err != nil {
		c.logger.InfoContext(ctx, "login flow rejected",
			"realm", realm,
			"flow_id", flow.Id,
			"http_status", getHTTPStatus(httpResp))
		return nil, classifyError(err, httpResp, rejectAsAuth)
	}

	if !inRealm(&result.Session, realm) {
		return nil, realmMismatch(realm, rejectAsAuth)
	}

	return toSession(result.GetSessionToken(), &result.Session), nil
}

// Refresh extends the session behind refreshToken and returns it with the
// new expiry
func (c *Client) Refresh(ctx context.Context, realm, refreshToken string) (_ *domain.AuthSession, err error) {
	ctx, end := c.startSpan(ctx, "refresh", realm)
	defer end(&err)

	session, httpResp, err := c.publicAPI.FrontendAPI.
		ToSession(ctx).
		XSessionToken(refreshToken).
		Execute()
	if err != nil {
		c.logger.InfoContext(ctx, "session lookup rejected",
			"realm", realm,
			"http_status", getHTTPStatus(httpResp))
		return nil, classifyError(err, httpResp, rejectAsProvider)
	}

	if !inRealm(session, realm) {
		return nil, realmMismatch(realm, rejectAsProvider)
	}

	extended, httpResp, err := c.adminAPI.IdentityAPI.ExtendSession(ctx, session.Id).Execute()
	if err != nil {
		return nil, classifyError(err, httpResp, rejectAsProvider)
	}

	return toSession(refreshToken, extended), nil
}

func inRealm(session *kratosclient.Session, realm string) bool {
	return session.Identity != nil && session.Identity.SchemaId == realm
}

func toSession(token string, session *kratosclient.Session) *domain.AuthSession {
	auth := &domain.AuthSession{
		AccessToken:  token,
		RefreshToken: token,
		TokenType:    sessionTokenType,
		SessionState: session.Id,
	}
	if session.ExpiresAt != nil {
		expiresIn := int64(time.Until(session.GetExpiresAt()).Round(time.Second).Seconds())
		if expiresIn > 0 {
			auth.ExpiresIn = expiresIn
			auth.RefreshExpiresIn = expiresIn
		}
	}
	return auth
}
