package port

//go:generate mockgen -source=identity_port.go -destination=../mocks/mock_identity_port.go

import (
	"context"

	"identity-facade/app/domain"
)

// IdentityProvider is the adapter over the external IdP. A realm partitions
// users inside the IdP. Failures are returned as *domain.Error.
type IdentityProvider interface {
	CreateUser(ctx context.Context, realm string, user *domain.NewUser) (*domain.UserIdentity, error)
	DeleteUser(ctx context.Context, realm, userID string) error
	GetUserID(ctx context.Context, realm, username string) (string, error)
	GetUserByID(ctx context.Context, realm, userID string) (*domain.UserIdentity, error)
	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, realm, email string) (*domain.UserIdentity, error)

	Authenticate(ctx context.Context, realm, username, password string) (*domain.AuthSession, error)
	Refresh(ctx context.Context, realm, refreshToken string) (*domain.AuthSession, error)
	ResetPassword(ctx context.Context, realm, userID, password string, temporary bool) error

	HealthCheck(ctx context.Context) error
}

// HealthChecker is implemented by dependencies the readiness probe pings.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
