package port

//go:generate mockgen -source=invitation_port.go -destination=../mocks/mock_invitation_port.go

import (
	"context"

	"identity-facade/app/domain"
)

// InvitationRepository reads invite codes from the datastore.
type InvitationRepository interface {
	// FindByCode returns nil, nil when no row matches.
	FindByCode(ctx context.Context, code string) (*domain.Invitation, error)
}

// InvitationUsecase validates invite codes.
type InvitationUsecase interface {
	Validate(ctx context.Context, username, inviteCode string) (*domain.Invitation, error)
	ResolveUsername(ctx context.Context, realm, username, inviteCode string) (*domain.InvitedUser, error)
}
