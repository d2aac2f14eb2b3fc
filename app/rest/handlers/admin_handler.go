package handlers

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"identity-facade/app/domain"
	"identity-facade/app/port"
)

// AdminHandler handles user administration HTTP requests
type AdminHandler struct {
	adminUsecase port.AdminUsecase
	defaultRealm string
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminUsecase port.AdminUsecase, defaultRealm string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
		defaultRealm: defaultRealm,
		logger:       logger,
	}
}

// CreateUserRequest is the body of POST /v1/admin/users
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Realm     string `json:"realm" validate:"omitempty,realm"`
}

// UserByEmailRequest is the query of GET /v1/admin/users/email
type UserByEmailRequest struct {
	Email string `query:"email" validate:"required"`
	Realm string `query:"realm" validate:"omitempty,realm"`
}

// UserIDRequest is the query of GET /v1/admin/users/id
type UserIDRequest struct {
	Username string `query:"username" validate:"required"`
	Realm    string `query:"realm" validate:"omitempty,realm"`
}

// UserRequest addresses one user by path identifier
type UserRequest struct {
	Identifier string `param:"identifier" validate:"required"`
	Realm      string `query:"realm" validate:"omitempty,realm"`
}

// UserIDResponse is the result of GET /v1/admin/users/id
type UserIDResponse struct {
	ID string `json:"id"`
}

// CreateUser creates a user with a password credential
// @Summary Create user
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User"
// @Success 200 {object} Envelope
// @Failure 400 {object} ErrorEnvelope
// @Failure 500 {object} ErrorEnvelope
// @Router /v1/admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req, domain.MsgMissingInformation); err != nil {
		return respondError(c, siteCreateUser, err)
	}

	user, err := domain.NewPasswordUser(req.Username, req.Password, req.Email, req.FirstName, req.LastName)
	if err != nil {
		return respondError(c, siteCreateUser, domain.NewMissingFieldError(domain.MsgMissingInformation))
	}

	realm := realmOrDefault(req.Realm, h.defaultRealm)
	created, err := h.adminUsecase.CreateUser(c.Request().Context(), realm, user)
	if err != nil {
		h.logger.WarnContext(c.Request().Context(), "create user failed",
			"realm", realm,
			"username", user.Username,
			"kind", domain.KindOf(err).String(),
			"error", err)
		return respondError(c, siteCreateUser, err)
	}

	h.logger.InfoContext(c.Request().Context(), "user created", "realm", realm, "user_id", created.ID)
	return respondOK(c, siteCreateUser, "User created successfully")
}

// DeleteUser deletes a user addressed by IdP id or username
// @Summary Delete user
// @Tags admin
// @Produce json
// @Param identifier path string true "User id or username"
// @Param realm query string false "Realm"
// @Success 200 {object} Envelope
// @Failure 404 {object} ErrorEnvelope
// @Failure 500 {object} ErrorEnvelope
// @Router /v1/admin/users/{identifier} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	var req UserRequest
	if err := bindAndValidate(c, &req, domain.MsgMissingInformation); err != nil {
		return respondError(c, siteDeleteUser, err)
	}

	realm := realmOrDefault(req.Realm, h.defaultRealm)
	if err := h.adminUsecase.DeleteUser(c.Request().Context(), realm, req.Identifier); err != nil {
		h.logger.WarnContext(c.Request().Context(), "delete user failed",
			"realm", realm,
			"identifier", req.Identifier,
			"kind", domain.KindOf(err).String(),
			"error", err)
		return respondError(c, siteDeleteUser, err)
	}

	return respondOK(c, siteDeleteUser, "User deleted successfully")
}

// GetUserByEmail looks a user up by email
// @Summary Get user by email
// @Tags admin
// @Produce json
// @Param email query string true "Email"
// @Param realm query string false "Realm"
// @Success 200 {object} Envelope
// @Failure 404 {object} ErrorEnvelope
// @Router /v1/admin/users/email [get]
func (h *AdminHandler) GetUserByEmail(c echo.Context) error {
	var req UserByEmailRequest
	if err := bindAndValidate(c, &req, domain.MsgMissingInformation); err != nil {
		return respondError(c, siteLookupByEmail, err)
	}

	realm := realmOrDefault(req.Realm, h.defaultRealm)
	user, err := h.adminUsecase.GetUserByEmail(c.Request().Context(), realm, req.Email)
	if err != nil {
		return respondError(c, siteLookupByEmail, err)
	}
	if user == nil {
		return respondError(c, siteLookupByEmail, domain.NewNotFoundError("user", nil))
	}

	return respondOK(c, siteLookupByEmail, user)
}

// GetUserID resolves a username to its IdP id
// @Summary Get user id
// @Tags admin
// @Produce json
// @Param username query string true "Username"
// @Param realm query string false "Realm"
// @Success 200 {object} Envelope
// @Failure 404 {object} ErrorEnvelope
// @Router /v1/admin/users/id [get]
func (h *AdminHandler) GetUserID(c echo.Context) error {
	var req UserIDRequest
	if err := bindAndValidate(c, &req, domain.MsgMissingInformation); err != nil {
		return respondError(c, siteLookupID, err)
	}

	realm := realmOrDefault(req.Realm, h.defaultRealm)
	id, err := h.adminUsecase.GetUserID(c.Request().Context(), realm, req.Username)
	if err != nil {
		return respondError(c, siteLookupID, err)
	}

	return respondOK(c, siteLookupID, UserIDResponse{ID: id})
}

// GetUserByID fetches a user by IdP id
// @Summary Get user by id
// @Tags admin
// @Produce json
// @Param identifier path string true "User id"
// @Param realm query string false "Realm"
// @Success 200 {object} Envelope
// @Failure 404 {object} ErrorEnvelope
// @Router /v1/admin/users/{identifier} [get]
func (h *AdminHandler) GetUserByID(c echo.Context) error {
	var req UserRequest
	if err := bindAndValidate(c, &req, domain.MsgMissingInformation); err != nil {
		return respondError(c, siteLookupID, err)
	}

	realm := realmOrDefault(req.Realm, h.defaultRealm)
	user, err := h.adminUsecase.GetUserByID(c.Request().Context(), realm, req.Identifier)
	if err != nil {
		return respondError(c, siteLookupID, err)
	}

	return respondOK(c, siteLookupID, user)
}

func realmOrDefault(realm, defaultRealm string) string {
	if realm == "" {
		return defaultRealm
	}
	return realm
}
