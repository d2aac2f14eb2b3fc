package port

//go:generate mockgen -source=user_port.go -destination=../mocks/mock_user_port.go

import (
	"context"

	"identity-facade/app/domain"
)

// AdminUsecase defines user administration against the IdP
type AdminUsecase interface {
	CreateUser(ctx context.Context, realm string, user *domain.NewUser) (*domain.UserIdentity, error)
	// DeleteUser accepts either an IdP user id or a username.
	DeleteUser(ctx context.Context, realm, identifier string) error
	GetUserID(ctx context.Context, realm, username string) (string, error)
	GetUserByID(ctx context.Context, realm, userID string) (*domain.UserIdentity, error)
	GetUserByEmail(ctx context.Context, realm, email string) (*domain.UserIdentity, error)
}

// UserUsecase defines end-user credential operations
type UserUsecase interface {
	Authenticate(ctx context.Context, realm, username, password string) (*domain.AuthSession, error)
	Refresh(ctx context.Context, realm, refreshToken string) (*domain.AuthSession, error)
	// ChangePassword is the legacy flow, routed only behind a feature flag.
	ChangePassword(ctx context.Context, realm, username, oldPassword, newPassword string) error
	GetUserStatus(ctx context.Context, realm, email string) (*domain.UserStatus, error)
}
