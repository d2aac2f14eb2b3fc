package domain

import (
	"fmt"
	"strings"
	"time"
)

// CredentialTypePassword is the only credential type the service creates by
// default.
const CredentialTypePassword = "password"

// UserState is the externally reported account state.
type UserState string

const (
	UserStateActive   UserState = "active"
	UserStateDisabled UserState = "disabled"
)

// Credential is write-only: it is sent to the IdP and never serialised back.
type Credential struct {
	Type   string `json:"-"`
	Secret string `json:"-"`
}

// UserIdentity is a user as reported by the IdP. No local copy is kept.
type UserIdentity struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Enabled   bool       `json:"enabled"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// State maps the enabled flag onto the reported account state.
func (u *UserIdentity) State() UserState {
	if u.Enabled {
		return UserStateActive
	}
	return UserStateDisabled
}

// NewUser is the input for creating a user in the IdP.
type NewUser struct {
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Enabled    bool
	Credential Credential
}

// NewPasswordUser builds an enabled user with a password credential. The
// email is passed through as given; the IdP decides whether it is acceptable.
func NewPasswordUser(username, password, email, firstName, lastName string) (*NewUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	return &NewUser{
		Username:  username,
		Email:     strings.TrimSpace(email),
		FirstName: firstName,
		LastName:  lastName,
		Enabled:   true,
		Credential: Credential{
			Type:   CredentialTypePassword,
			Secret: password,
		},
	}, nil
}

// UserStatus is the response body of the status lookup.
type UserStatus struct {
	Email  string    `json:"email"`
	Status UserState `json:"status"`
}
