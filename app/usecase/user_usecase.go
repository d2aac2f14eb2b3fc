package usecase

import (
	"context"

	"identity-facade/app/domain"
	"identity-facade/app/port"
)

// UserUseCase implements end-user credential operations
type UserUseCase struct {
	idp port.IdentityProvider
}

// NewUserUseCase creates a new UserUseCase instance
func NewUserUseCase(idp port.IdentityProvider) *UserUseCase {
	return &UserUseCase{idp: idp}
}

// Authenticate exchanges username and password for a token set
func (uc *UserUseCase) Authenticate(ctx context.Context, realm, username, password string) (*domain.AuthSession, error) {
	if username == "" || password == "" {
		return nil, domain.NewMissingFieldError(domain.MsgMissingInformation)
	}

	session, err := uc.idp.Authenticate(ctx, realm, username, password)
	if err != nil {
		return nil, classify(err)
	}
	return session, nil
}

// Refresh exchanges a refresh token for a new token set
func (uc *UserUseCase) Refresh(ctx context.Context, realm, refreshToken string) (*domain.AuthSession, error) {
	if refreshToken == "" {
		return nil, domain.NewMissingFieldError(domain.MsgMissingRefreshToken)
	}

	session, err := uc.idp.Refresh(ctx, realm, refreshToken)
	if err != nil {
		return nil, classify(err)
	}
	return session, nil
}

// ChangePassword verifies oldPassword with a password grant, then resets
// the credential through the admin API. Failures are returned as
// *domain.PasswordChangeError naming the stage.
func (uc *UserUseCase) ChangePassword(ctx context.Context, realm, username, oldPassword, newPassword string) error {
	if username == "" || oldPassword == "" || newPassword == "" {
		return domain.NewMissingFieldError(domain.MsgMissingPasswordChange)
	}

	if _, err := uc.idp.Authenticate(ctx, realm, username, oldPassword); err != nil {
		return &domain.PasswordChangeError{Stage: domain.StageVerifyOldPassword, Err: classify(err)}
	}

	userID, err := uc.idp.GetUserID(ctx, realm, username)
	if err != nil {
		return &domain.PasswordChangeError{Stage: domain.StageLookupUser, Err: classify(err)}
	}

	if err := uc.idp.ResetPassword(ctx, realm, userID, newPassword, false); err != nil {
		return &domain.PasswordChangeError{Stage: domain.StageResetPassword, Err: classify(err)}
	}
	return nil
}

// GetUserStatus reports whether the user with email is active
func (uc *UserUseCase) GetUserStatus(ctx context.Context, realm, email string) (*domain.UserStatus, error) {
	if email == "" {
		return nil, domain.NewMissingFieldError(domain.MsgMissingEmail)
	}

	user, err := uc.idp.GetUserByEmail(ctx, realm, email)
	if err != nil {
		return nil, classify(err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user", nil)
	}

	return &domain.UserStatus{
		Email:  email,
		Status: user.State(),
	}, nil
}
