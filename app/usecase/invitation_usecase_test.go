package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"identity-facade/app/domain"
	mock_port "identity-facade/app/mocks"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newTestInvitationUseCase(t *testing.T) (*InvitationUseCase, *mock_port.MockInvitationRepository, *mock_port.MockIdentityProvider) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_port.NewMockInvitationRepository(ctrl)
	idp := mock_port.NewMockIdentityProvider(ctrl)
	uc := NewInvitationUseCase(repo, idp).WithClock(func() time.Time { return fixedNow })
	return uc, repo, idp
}

func invitationExpiring(at time.Time) *domain.Invitation {
	return &domain.Invitation{
		Code:      "testing",
		Data:      "data",
		CreatedAt: fixedNow.Add(-24 * time.Hour),
		ExpiresAt: at,
	}
}

func TestInvitationUseCase_Validate(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		code       string
		setupMocks func(*mock_port.MockInvitationRepository)
		wantOK     bool
		wantErr    error
		wantKind   domain.ErrorKind
	}{
		{
			name:     "valid invitation",
			username: "unittestuser",
			code:     "testing",
			setupMocks: func(repo *mock_port.MockInvitationRepository) {
				repo.EXPECT().FindByCode(gomock.Any(), "testing").Return(invitationExpiring(fixedNow.Add(24*time.Hour)), nil)
			},
			wantOK: true,
		},
		{
			name:       "missing username",
			code:       "testing",
			setupMocks: func(repo *mock_port.MockInvitationRepository) {},
			wantKind:   domain.KindMissingField,
		},
		{
			name:       "missing code",
			username:   "unittestuser",
			setupMocks: func(repo *mock_port.MockInvitationRepository) {},
			wantKind:   domain.KindMissingField,
		},
		{
			name:     "unknown code",
			username: "unittestuser",
			code:     "testing",
			setupMocks: func(repo *mock_port.MockInvitationRepository) {
				repo.EXPECT().FindByCode(gomock.Any(), "testing").Return(nil, nil)
			},
			wantErr:  domain.ErrInvitationNotValid,
			wantKind: domain.KindInvalidInvitation,
		},
		{
			name:     "expired yesterday",
			username: "unittestuser",
			code:     "testing",
			setupMocks: func(repo *mock_port.MockInvitationRepository) {
				repo.EXPECT().FindByCode(gomock.Any(), "testing").Return(invitationExpiring(fixedNow.Add(-24*time.Hour)), nil)
			},
			wantErr:  domain.ErrInvitationExpired,
			wantKind: domain.KindExpiredInvitation,
		},
		{
			name:     "expires exactly now",
			username: "unittestuser",
			code:     "testing",
			setupMocks: func(repo *mock_port.MockInvitationRepository) {
				repo.EXPECT().FindByCode(gomock.Any(), "testing").Return(invitationExpiring(fixedNow), nil)
			},
			wantErr:  domain.ErrInvitationExpired,
			wantKind: domain.KindExpiredInvitation,
		},
		{
			name:     "datastore failure",
			username: "unittestuser",
			code:     "testing",
			setupMocks: func(repo *mock_port.MockInvitationRepository) {
				repo.EXPECT().FindByCode(gomock.Any(), "testing").Return(nil, errors.New("connection refused"))
			},
			wantKind: domain.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _ := newTestInvitationUseCase(t)
			tt.setupMocks(repo)

			invitation, err := uc.Validate(context.Background(), tt.username, tt.code)

			if tt.wantOK {
				require.NoError(t, err)
				assert.Equal(t, "unittestuser", invitation.Username)
				assert.Equal(t, "testing", invitation.Code)
				return
			}

			require.Error(t, err)
			assert.Nil(t, invitation)
			assert.Equal(t, tt.wantKind, domain.KindOf(err))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestInvitationUseCase_ValidateDoesNotMutateRow(t *testing.T) {
	uc, repo, _ := newTestInvitationUseCase(t)
	row := invitationExpiring(fixedNow.Add(time.Hour))
	row.Username = "someone-else"
	repo.EXPECT().FindByCode(gomock.Any(), "testing").Return(row, nil)

	invitation, err := uc.Validate(context.Background(), "unittestuser", "testing")
	require.NoError(t, err)
	assert.Equal(t, "unittestuser", invitation.Username)
	assert.Equal(t, "someone-else", row.Username)
}

func TestInvitationUseCase_ResolveUsername(t *testing.T) {
	t.Run("registered user", func(t *testing.T) {
		uc, repo, idp := newTestInvitationUseCase(t)
		repo.EXPECT().FindByCode(gomock.Any(), "testing").Return(invitationExpiring(fixedNow.Add(time.Hour)), nil)
		idp.EXPECT().GetUserID(gomock.Any(), testRealm, "unittestuser").Return(testUserID, nil)

		user, err := uc.ResolveUsername(context.Background(), testRealm, "unittestuser", "testing")
		require.NoError(t, err)
		assert.Equal(t, &domain.InvitedUser{Username: "unittestuser", Registered: true}, user)
	})

	t.Run("unregistered user", func(t *testing.T) {
		uc, repo, idp := newTestInvitationUseCase(t)
		repo.EXPECT().FindByCode(gomock.Any(), "testing").Return(invitationExpiring(fixedNow.Add(time.Hour)), nil)
		idp.EXPECT().GetUserID(gomock.Any(), testRealm, "newcomer").Return("", domain.NewNotFoundError("user", nil))

		user, err := uc.ResolveUsername(context.Background(), testRealm, "newcomer", "testing")
		require.NoError(t, err)
		assert.Equal(t, &domain.InvitedUser{Username: "newcomer", Registered: false}, user)
	})

	t.Run("provider failure becomes prose", func(t *testing.T) {
		uc, repo, idp := newTestInvitationUseCase(t)
		repo.EXPECT().FindByCode(gomock.Any(), "testing").Return(invitationExpiring(fixedNow.Add(time.Hour)), nil)
		idp.EXPECT().GetUserID(gomock.Any(), testRealm, "unittestuser").Return("", providerError)

		_, err := uc.ResolveUsername(context.Background(), testRealm, "unittestuser", "testing")
		require.Error(t, err)
		assert.Equal(t, domain.KindUnknown, domain.KindOf(err))
		assert.Equal(t, `500: { "error": "error" }`, err.Error())
	})

	t.Run("invalid invitation skips the provider", func(t *testing.T) {
		uc, repo, _ := newTestInvitationUseCase(t)
		repo.EXPECT().FindByCode(gomock.Any(), "testing").Return(nil, nil)

		_, err := uc.ResolveUsername(context.Background(), testRealm, "unittestuser", "testing")
		assert.ErrorIs(t, err, domain.ErrInvitationNotValid)
	})
}
