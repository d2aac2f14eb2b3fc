package usecase

import (
	"context"
	"fmt"
	"time"

	"identity-facade/app/domain"
	"identity-facade/app/port"
	"identity-facade/app/utils/metrics"
)

// Invitation check outcomes recorded in metrics
const (
	checkMissing = "missing"
	checkInvalid = "invalid"
	checkExpired = "expired"
	checkValid   = "valid"
	checkError   = "error"
)

// InvitationUseCase validates invite codes and resolves invited usernames
type InvitationUseCase struct {
	repo port.InvitationRepository
	idp  port.IdentityProvider
	now  func() time.Time
}

// NewInvitationUseCase creates a new InvitationUseCase instance
func NewInvitationUseCase(repo port.InvitationRepository, idp port.IdentityProvider) *InvitationUseCase {
	return &InvitationUseCase{
		repo: repo,
		idp:  idp,
		now:  time.Now,
	}
}

// WithClock replaces the time source
func (uc *InvitationUseCase) WithClock(now func() time.Time) *InvitationUseCase {
	uc.now = now
	return uc
}

// Validate checks that inviteCode exists and has not expired. The returned
// invitation is bound to username. Codes are not consumed.
func (uc *InvitationUseCase) Validate(ctx context.Context, username, inviteCode string) (*domain.Invitation, error) {
	if username == "" || inviteCode == "" {
		metrics.RecordInvitationCheck(checkMissing)
		return nil, domain.NewMissingFieldError(domain.MsgMissingInformation)
	}

	invitation, err := uc.repo.FindByCode(ctx, inviteCode)
	if err != nil {
		metrics.RecordInvitationCheck(checkError)
		return nil, domain.NewUnknownError(fmt.Errorf("failed to load invitation: %w", err))
	}
	if invitation == nil {
		metrics.RecordInvitationCheck(checkInvalid)
		return nil, domain.ErrInvitationNotValid
	}

	if invitation.IsExpired(uc.now()) {
		metrics.RecordInvitationCheck(checkExpired)
		return nil, domain.ErrInvitationExpired
	}

	metrics.RecordInvitationCheck(checkValid)
	bound := *invitation
	bound.Username = username
	return &bound, nil
}

// ResolveUsername validates the invitation, then asks the IdP whether
// username is already registered in realm.
func (uc *InvitationUseCase) ResolveUsername(ctx context.Context, realm, username, inviteCode string) (*domain.InvitedUser, error) {
	invitation, err := uc.Validate(ctx, username, inviteCode)
	if err != nil {
		return nil, err
	}

	registered := true
	if _, err := uc.idp.GetUserID(ctx, realm, invitation.Username); err != nil {
		if domain.KindOf(err) != domain.KindNotFound {
			return nil, domain.NewUnknownError(err)
		}
		registered = false
	}

	return &domain.InvitedUser{
		Username:   invitation.Username,
		Registered: registered,
	}, nil
}
