package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"identity-facade/app/domain"
	"identity-facade/app/port"
	"identity-facade/app/utils/metrics"
	"identity-facade/app/utils/validator"
)

// Legacy password change responses
const (
	msgInvalidNewPassword = "invalid new password"
	msgPasswordChanged    = "success"
	msgUserNotFound       = domain.MsgUserNotFound
)

// UserHandler handles end-user HTTP requests
type UserHandler struct {
	userUsecase       port.UserUsecase
	invitationUsecase port.InvitationUsecase
	defaultRealm      string
	logger            *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUsecase port.UserUsecase, invitationUsecase port.InvitationUsecase, defaultRealm string, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase:       userUsecase,
		invitationUsecase: invitationUsecase,
		defaultRealm:      defaultRealm,
		logger:            logger,
	}
}

// UsernameRequest is the query of GET /v1/users/name
type UsernameRequest struct {
	Username   string `query:"username" validate:"required"`
	InviteCode string `query:"invite_code" validate:"required"`
	Realm      string `query:"realm" validate:"omitempty,realm"`
}

// AuthRequest is the body of POST /v1/users/auth
type AuthRequest struct {
	Realm    string `json:"realm" validate:"omitempty,realm"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the body of POST /v1/users/refresh
type RefreshRequest struct {
	Realm        string `json:"realm" validate:"omitempty,realm"`
	RefreshToken string `json:"refreshtoken" validate:"required"`
}

// ChangePasswordRequest is the body of PUT /v1/users/password
type ChangePasswordRequest struct {
	Realm       string `json:"realm" validate:"omitempty,realm"`
	Username    string `json:"username" validate:"required"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// UserStatusRequest is the query of GET /v1/user/status
type UserStatusRequest struct {
	Email string `query:"email" validate:"required"`
	Realm string `query:"realm" validate:"omitempty,realm"`
}

// GetUsername validates an invitation and reports whether the invited
// username is already registered
// @Summary Resolve invited username
// @Tags users
// @Produce json
// @Param username query string true "Username"
// @Param invite_code query string true "Invite code"
// @Param realm query string false "Realm"
// @Success 200 {object} Envelope
// @Failure 400 {object} ErrorEnvelope
// @Failure 500 {object} ErrorEnvelope
// @Router /v1/users/name [get]
func (h *UserHandler) GetUsername(c echo.Context) error {
	var req UsernameRequest
	if err := bindAndValidate(c, &req, domain.MsgMissingInformation); err != nil {
		return respondError(c, siteLookupByInvite, err)
	}

	realm := realmOrDefault(req.Realm, h.defaultRealm)
	user, err := h.invitationUsecase.ResolveUsername(c.Request().Context(), realm, req.Username, req.InviteCode)
	if err != nil {
		h.logger.InfoContext(c.Request().Context(), "invitation rejected",
			"realm", realm,
			"kind", domain.KindOf(err).String(),
			"error", err)
		return respondError(c, siteLookupByInvite, err)
	}

	return respondOK(c, siteLookupByInvite, user)
}

// Authenticate exchanges credentials for a token set
// @Summary Authenticate
// @Tags users
// @Accept json
// @Produce json
// @Param request body AuthRequest true "Credentials"
// @Success 200 {object} Envelope
// @Failure 400 {object} ErrorEnvelope
// @Failure 500 {object} ErrorEnvelope
// @Router /v1/users/auth [post]
func (h *UserHandler) Authenticate(c echo.Context) error {
	var req AuthRequest
	if err := bindAndValidate(c, &req, domain.MsgMissingInformation); err != nil {
		return respondError(c, siteAuthenticate, err)
	}

	realm := realmOrDefault(req.Realm, h.defaultRealm)
	session, err := h.userUsecase.Authenticate(c.Request().Context(), realm, req.Username, req.Password)
	if err != nil {
		h.logger.InfoContext(c.Request().Context(), "authentication failed",
			"realm", realm,
			"kind", domain.KindOf(err).String())
		return respondError(c, siteAuthenticate, err)
	}

	return respondOK(c, siteAuthenticate, session)
}

// Refresh exchanges a refresh token for a new token set
// @Summary Refresh tokens
// @Tags users
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} Envelope
// @Failure 400 {object} ErrorEnvelope
// @Failure 500 {object} ErrorEnvelope
// @Router /v1/users/refresh [post]
func (h *UserHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req, domain.MsgMissingRefreshToken); err != nil {
		return respondError(c, siteRefresh, err)
	}

	realm := realmOrDefault(req.Realm, h.defaultRealm)
	session, err := h.userUsecase.Refresh(c.Request().Context(), realm, req.RefreshToken)
	if err != nil {
		h.logger.InfoContext(c.Request().Context(), "token refresh failed",
			"realm", realm,
			"kind", domain.KindOf(err).String())
		return respondError(c, siteRefresh, err)
	}

	return respondOK(c, siteRefresh, session)
}

// ChangePassword is the legacy password change, registered only when the
// legacy API is enabled
// @Summary Change password (legacy)
// @Tags users
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} Envelope
// @Failure 400 {object} ErrorEnvelope
// @Failure 406 {object} ErrorEnvelope
// @Failure 500 {object} ErrorEnvelope
// @Router /v1/users/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req, domain.MsgMissingPasswordChange); err != nil {
		return respondError(c, siteChangePassword, err)
	}

	if !validator.IsValidPassword(req.NewPassword) {
		return respondFailure(c, siteChangePassword, http.StatusNotAcceptable, domain.KindMissingField, msgInvalidNewPassword)
	}

	realm := realmOrDefault(req.Realm, h.defaultRealm)
	err := h.userUsecase.ChangePassword(c.Request().Context(), realm, req.Username, req.OldPassword, req.NewPassword)
	if err == nil {
		return respondOK(c, siteChangePassword, msgPasswordChanged)
	}

	var pcErr *domain.PasswordChangeError
	if !errors.As(err, &pcErr) {
		return respondError(c, siteChangePassword, err)
	}

	kind := domain.KindOf(pcErr.Err)
	switch pcErr.Stage {
	case domain.StageVerifyOldPassword:
		return respondFailure(c, siteChangePassword, http.StatusBadRequest, kind, "incorrect realm, username or old password: "+pcErr.Error())
	case domain.StageLookupUser:
		return respondFailure(c, siteChangePassword, http.StatusInternalServerError, kind, "cannot get user id: "+pcErr.Error())
	case domain.StageResetPassword:
		return respondFailure(c, siteChangePassword, http.StatusInternalServerError, kind, "invalid admin credentials: "+pcErr.Error())
	default:
		return respondError(c, siteChangePassword, pcErr.Err)
	}
}

// GetUserStatus reports whether the user with an email is active. The
// response is not enveloped on success.
// @Summary User status
// @Tags users
// @Produce json
// @Param email query string true "Email"
// @Param realm query string false "Realm"
// @Success 200 {object} domain.UserStatus
// @Failure 400 {object} ErrorEnvelope
// @Failure 404 {object} ErrorEnvelope
// @Router /v1/user/status [get]
func (h *UserHandler) GetUserStatus(c echo.Context) error {
	var req UserStatusRequest
	if err := bindAndValidate(c, &req, domain.MsgMissingEmail); err != nil {
		return respondError(c, siteUserStatus, err)
	}

	realm := realmOrDefault(req.Realm, h.defaultRealm)
	status, err := h.userUsecase.GetUserStatus(c.Request().Context(), realm, req.Email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return respondFailure(c, siteUserStatus, http.StatusNotFound, domain.KindNotFound, msgUserNotFound)
		}
		return respondError(c, siteUserStatus, err)
	}

	metrics.RecordRequest(siteUserStatus.operation, outcomeSuccess)
	return c.JSON(http.StatusOK, status)
}
