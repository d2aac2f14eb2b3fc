package keycloak

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Nerzal/gocloak/v13"

	"identity-facade/app/domain"
)

// CreateUser creates an enabled user with its password credential in one call
func (c *Client) CreateUser(ctx context.Context, realm string, user *domain.NewUser) (_ *domain.UserIdentity, err error) {
	ctx, end := c.startSpan(ctx, "create_user", realm)
	defer end(&err)

	rep := toKeycloakUser(user)
	err = c.adminCall(ctx, func(ctx context.Context, token string) error {
		id, err := c.admin.CreateUser(ctx, token, realm, rep)
		rep.ID = gocloak.StringP(id)
		return err
	})
	if err != nil {
		c.logger.WarnContext(ctx, "create user rejected", "realm", realm, "username", user.Username, "error", err)
		return nil, err
	}

	identity := toIdentity(&rep)
	c.logger.InfoContext(ctx, "user created", "realm", realm, "user_id", identity.ID)
	return identity, nil
}

// DeleteUser removes the user with id userID
func (c *Client) DeleteUser(ctx context.Context, realm, userID string) (err error) {
	ctx, end := c.startSpan(ctx, "delete_user", realm)
	defer end(&err)

	err = c.adminCall(ctx, func(ctx context.Context, token string) error {
		return c.admin.DeleteUser(ctx, token, realm, userID)
	})
	if err != nil {
		return notFoundAs404(err)
	}

	c.logger.InfoContext(ctx, "user deleted", "realm", realm, "user_id", userID)
	return nil
}

// GetUserID resolves username to the IdP user id
func (c *Client) GetUserID(ctx context.Context, realm, username string) (_ string, err error) {
	ctx, end := c.startSpan(ctx, "get_user_id", realm)
	defer end(&err)

	users, err := c.searchUsers(ctx, realm, gocloak.GetUsersParams{Username: gocloak.StringP(username)})
	if err != nil {
		return "", err
	}
	for _, u := range users {
		if strings.EqualFold(deref(u.Username), username) {
			return deref(u.ID), nil
		}
	}
	return "", domain.NewNotFoundError("user", fmt.Errorf("no user named %q in realm %s", username, realm))
}

// GetUserByID fetches the user with id userID
func (c *Client) GetUserByID(ctx context.Context, realm, userID string) (_ *domain.UserIdentity, err error) {
	ctx, end := c.startSpan(ctx, "get_user_by_id", realm)
	defer end(&err)

	var user *gocloak.User
	err = c.adminCall(ctx, func(ctx context.Context, token string) error {
		var err error
		user, err = c.admin.GetUserByID(ctx, token, realm, userID)
		return err
	})
	if err != nil {
		return nil, notFoundAs404(err)
	}
	return toIdentity(user), nil
}

// GetUserByEmail returns the user with email, or nil, nil when there is none
func (c *Client) GetUserByEmail(ctx context.Context, realm, email string) (_ *domain.UserIdentity, err error) {
	ctx, end := c.startSpan(ctx, "get_user_by_email", realm)
	defer end(&err)

	users, err := c.searchUsers(ctx, realm, gocloak.GetUsersParams{Email: gocloak.StringP(email)})
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(deref(u.Email), email) {
			return toIdentity(u), nil
		}
	}
	return nil, nil
}

// ResetPassword replaces the password credential of userID
func (c *Client) ResetPassword(ctx context.Context, realm, userID, password string, temporary bool) (err error) {
	ctx, end := c.startSpan(ctx, "reset_password", realm)
	defer end(&err)

	err = c.adminCall(ctx, func(ctx context.Context, token string) error {
		return c.admin.SetPassword(ctx, token, userID, realm, password, temporary)
	})
	if err != nil {
		return notFoundAs404(err)
	}
	return nil
}

// searchUsers runs an exact-match user search.
func (c *Client) searchUsers(ctx context.Context, realm string, params gocloak.GetUsersParams) ([]*gocloak.User, error) {
	params.Exact = gocloak.BoolP(true)

	var users []*gocloak.User
	err := c.adminCall(ctx, func(ctx context.Context, token string) error {
		var err error
		users, err = c.admin.GetUsers(ctx, token, realm, params)
		return err
	})
	return users, err
}

// notFoundAs404 turns a 404 on a user resource into KindNotFound.
func notFoundAs404(err error) error {
	if isStatus(err, http.StatusNotFound) {
		return domain.NewNotFoundError("user", err)
	}
	return err
}
