package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"identity-facade/app/domain"
	"identity-facade/app/port"
)

// AdminUseCase implements user administration against the identity provider
type AdminUseCase struct {
	idp port.IdentityProvider
}

// NewAdminUseCase creates a new AdminUseCase instance
func NewAdminUseCase(idp port.IdentityProvider) *AdminUseCase {
	return &AdminUseCase{idp: idp}
}

// CreateUser creates user in realm
func (uc *AdminUseCase) CreateUser(ctx context.Context, realm string, user *domain.NewUser) (*domain.UserIdentity, error) {
	if user == nil || user.Username == "" || user.Credential.Secret == "" {
		return nil, domain.NewMissingFieldError(domain.MsgMissingInformation)
	}

	created, err := uc.idp.CreateUser(ctx, realm, user)
	if err != nil {
		return nil, classify(err)
	}
	return created, nil
}

// DeleteUser deletes the user named by identifier. An identifier that parses
// as a UUID is taken as the IdP id, anything else as a username.
func (uc *AdminUseCase) DeleteUser(ctx context.Context, realm, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return domain.NewMissingFieldError(domain.MsgMissingInformation)
	}

	userID := identifier
	if _, err := uuid.Parse(identifier); err != nil {
		userID, err = uc.idp.GetUserID(ctx, realm, identifier)
		if err != nil {
			return classify(err)
		}
	}

	if err := uc.idp.DeleteUser(ctx, realm, userID); err != nil {
		return classify(err)
	}
	return nil
}

// GetUserID resolves username to its IdP id
func (uc *AdminUseCase) GetUserID(ctx context.Context, realm, username string) (string, error) {
	if username == "" {
		return "", domain.NewMissingFieldError(domain.MsgMissingInformation)
	}

	id, err := uc.idp.GetUserID(ctx, realm, username)
	if err != nil {
		return "", classify(err)
	}
	return id, nil
}

// GetUserByID fetches a user by IdP id
func (uc *AdminUseCase) GetUserByID(ctx context.Context, realm, userID string) (*domain.UserIdentity, error) {
	if userID == "" {
		return nil, domain.NewMissingFieldError(domain.MsgMissingInformation)
	}

	user, err := uc.idp.GetUserByID(ctx, realm, userID)
	if err != nil {
		return nil, classify(err)
	}
	return user, nil
}

// GetUserByEmail returns nil, nil when no user has email
func (uc *AdminUseCase) GetUserByEmail(ctx context.Context, realm, email string) (*domain.UserIdentity, error) {
	if email == "" {
		return nil, domain.NewMissingFieldError(domain.MsgMissingInformation)
	}

	user, err := uc.idp.GetUserByEmail(ctx, realm, email)
	if err != nil {
		return nil, classify(err)
	}
	return user, nil
}

// classify tags err, keeping a nil error nil.
func classify(err error) error {
	if err == nil {
		return nil
	}
	return domain.Classify(err)
}
