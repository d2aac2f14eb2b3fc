package keycloak

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/oauth2"

	"identity-facade/app/domain"
)

// Authenticate runs the resource-owner password grant against realm
func (c *Client) Authenticate(ctx context.Context, realm, username, password string) (_ *domain.AuthSession, err error) {
	ctx, end := c.startSpan(ctx, "authenticate", realm)
	defer end(&err)

	conf, err := c.oauthConfig(ctx, realm)
	if err != nil {
		return nil, domain.Classify(err)
	}

	token, err := conf.PasswordCredentialsToken(c.tokenContext(ctx), username, password)
	if err != nil {
		c.logger.InfoContext(ctx, "password grant rejected", "realm", realm, "error", err)
		return nil, classifyTokenError(err, true)
	}
	return toSession(token), nil
}

// Refresh exchanges refreshToken for a new token set
func (c *Client) Refresh(ctx context.Context, realm, refreshToken string) (_ *domain.AuthSession, err error) {
	ctx, end := c.startSpan(ctx, "refresh", realm)
	defer end(&err)

	conf, err := c.oauthConfig(ctx, realm)
	if err != nil {
		return nil, domain.Classify(err)
	}

	// An empty access token forces the source to hit the token endpoint
	token, err := conf.TokenSource(c.tokenContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		c.logger.InfoContext(ctx, "refresh grant rejected", "realm", realm, "error", err)
		return nil, classifyTokenError(err, false)
	}
	return toSession(token), nil
}

func (c *Client) tokenContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func toSession(token *oauth2.Token) *domain.AuthSession {
	session := &domain.AuthSession{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresIn:    token.ExpiresIn,
	}
	if session.ExpiresIn == 0 && !token.Expiry.IsZero() {
		session.ExpiresIn = int64(time.Until(token.Expiry).Round(time.Second).Seconds())
	}
	session.RefreshExpiresIn = extraInt(token, "refresh_expires_in")
	session.Scope, _ = token.Extra("scope").(string)
	session.SessionState, _ = token.Extra("session_state").(string)
	return session
}

func extraInt(token *oauth2.Token, key string) int64 {
	switch v := token.Extra(key).(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}
