package kratos

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	kratosclient "github.com/ory/kratos-client-go"

	"identity-facade/app/domain"
)

// CreateUser creates an identity with the realm's schema and its password
// credential in one call
func (c *Client) CreateUser(ctx context.Context, realm string, user *domain.NewUser) (_ *domain.UserIdentity, err error) {
	ctx, end := c.startSpan(ctx, "create_user", realm)
	defer end(&err)

	body := kratosclient.NewCreateIdentityBody(realm, traitsFromUser(user))
	body.SetState(stateFor(user.Enabled))
	if user.Credential.Type == domain.CredentialTypePassword && user.Credential.Secret != "" {
		body.SetCredentials(*passwordCredentials(user.Credential.Secret))
	}

	identity, httpResp, err := c.adminAPI.IdentityAPI.
		CreateIdentity(ctx).
		CreateIdentityBody(*body).
		Execute()
	if err != nil {
		c.logger.WarnContext(ctx, "create identity rejected",
			"realm", realm,
			"username", user.Username,
			"http_status", getHTTPStatus(httpResp),
			"error", err)
		return nil, classifyError(err, httpResp, rejectByStatus)
	}

	created, err := identityToDomain(identity)
	if err != nil {
		return nil, domain.NewUnknownError(err)
	}

	c.logger.InfoContext(ctx, "identity created", "realm", realm, "user_id", created.ID)
	return created, nil
}

// DeleteUser removes the identity with id userID
func (c *Client) DeleteUser(ctx context.Context, realm, userID string) (err error) {
	ctx, end := c.startSpan(ctx, "delete_user", realm)
	defer end(&err)

	if _, err = c.getIdentity(ctx, realm, userID); err != nil {
		return err
	}

	httpResp, err := c.adminAPI.IdentityAPI.DeleteIdentity(ctx, userID).Execute()
	if err != nil {
		err = classifyError(err, httpResp, rejectByStatus)
		if isStatus(err, http.StatusNotFound) {
			return domain.NewNotFoundError("user", err)
		}
		return err
	}

	c.logger.InfoContext(ctx, "identity deleted", "realm", realm, "user_id", userID)
	return nil
}

// GetUserID resolves username to the identity id
func (c *Client) GetUserID(ctx context.Context, realm, username string) (_ string, err error) {
	ctx, end := c.startSpan(ctx, "get_user_id", realm)
	defer end(&err)

	user, err := c.findByIdentifier(ctx, realm, username, func(u *domain.UserIdentity) bool {
		return strings.EqualFold(u.Username, username)
	})
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.NewNotFoundError("user", fmt.Errorf("no identity named %q in realm %s", username, realm))
	}
	return user.ID, nil
}

// GetUserByID fetches the identity with id userID
func (c *Client) GetUserByID(ctx context.Context, realm, userID string) (_ *domain.UserIdentity, err error) {
	ctx, end := c.startSpan(ctx, "get_user_by_id", realm)
	defer end(&err)

	identity, err := c.getIdentity(ctx, realm, userID)
	if err != nil {
		return nil, err
	}

	user, err := identityToDomain(identity)
	if err != nil {
		return nil, domain.NewUnknownError(err)
	}
	return user, nil
}

// GetUserByEmail returns the identity with email, or nil, nil when there is none
func (c *Client) GetUserByEmail(ctx context.Context, realm, email string) (_ *domain.UserIdentity, err error) {
	ctx, end := c.startSpan(ctx, "get_user_by_email", realm)
	defer end(&err)

	return c.findByIdentifier(ctx, realm, email, func(u *domain.UserIdentity) bool {
		return strings.EqualFold(u.Email, email)
	})
}

// ResetPassword replaces the password credential of userID. Kratos has no
// temporary passwords, so temporary is only logged.
func (c *Client) ResetPassword(ctx context.Context, realm, userID, password string, temporary bool) (err error) {
	ctx, end := c.startSpan(ctx, "reset_password", realm)
	defer end(&err)

	identity, err := c.getIdentity(ctx, realm, userID)
	if err != nil {
		return err
	}

	body := kratosclient.UpdateIdentityBody{
		SchemaId:    identity.SchemaId,
		State:       stateFor(identity.State == nil || identity.GetState() == stateActive),
		Traits:      traitsMap(identity.Traits),
		Credentials: passwordCredentials(password),
	}

	_, httpResp, err := c.adminAPI.IdentityAPI.
		UpdateIdentity(ctx, userID).
		UpdateIdentityBody(body).
		Execute()
	if err != nil {
		err = classifyError(err, httpResp, rejectByStatus)
		if isStatus(err, http.StatusNotFound) {
			return domain.NewNotFoundError("user", err)
		}
		return err
	}

	c.logger.InfoContext(ctx, "identity password reset",
		"realm", realm,
		"user_id", userID,
		"temporary_requested", temporary)
	return nil
}

// getIdentity fetches userID and rejects identities of another realm as
// absent.
func (c *Client) getIdentity(ctx context.Context, realm, userID string) (*kratosclient.Identity, error) {
	identity, httpResp, err := c.adminAPI.IdentityAPI.GetIdentity(ctx, userID).Execute()
	if err != nil {
		err = classifyError(err, httpResp, rejectByStatus)
		if isStatus(err, http.StatusNotFound) {
			return nil, domain.NewNotFoundError("user", err)
		}
		return nil, err
	}
	if identity.SchemaId != realm {
		return nil, domain.NewNotFoundError("user", fmt.Errorf("identity %s is not in realm %s", userID, realm))
	}
	return identity, nil
}

// findByIdentifier lists identities whose credentials use identifier and
// returns the first one in realm accepted by match.
func (c *Client) findByIdentifier(ctx context.Context, realm, identifier string, match func(*domain.UserIdentity) bool) (*domain.UserIdentity, error) {
	identities, httpResp, err := c.adminAPI.IdentityAPI.
		ListIdentities(ctx).
		CredentialsIdentifier(identifier).
		Execute()
	if err != nil {
		return nil, classifyError(err, httpResp, rejectByStatus)
	}

	for i := range identities {
		if identities[i].SchemaId != realm {
			continue
		}
		user, err := identityToDomain(&identities[i])
		if err != nil {
			return nil, domain.NewUnknownError(err)
		}
		if match(user) {
			return user, nil
		}
	}
	return nil, nil
}
