package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"identity-facade/app/domain"
	"identity-facade/app/utils/metrics"
	"identity-facade/app/utils/validator"
)

// Envelope is the success response shape. ErrorMsg is always present and
// empty.
type Envelope struct {
	ErrorMsg string      `json:"error_msg"`
	Result   interface{} `json:"result"`
}

// ErrorEnvelope is the failure response shape.
type ErrorEnvelope struct {
	Result interface{} `json:"result"`
}

// callSite names an operation and the prose prefix its unclassified
// failures are reported with. The prefixes are part of the wire contract
// and differ in punctuation per operation.
type callSite struct {
	operation string
	template  string
	// structural sites echo the provider's error body as JSON
	structural bool
}

var (
	siteCreateUser     = callSite{operation: "create_user", template: "User created failed: ", structural: true}
	siteAuthenticate   = callSite{operation: "authenticate", template: "User authentication failed : ", structural: true}
	siteRefresh        = callSite{operation: "refresh", template: "Token refresh failed: ", structural: true}
	siteLookupByInvite = callSite{operation: "lookup_by_invite", template: "query user by its name failed: "}
	siteLookupByEmail  = callSite{operation: "lookup_by_email", template: "query user by its email failed: "}
	siteLookupID       = callSite{operation: "lookup_id", template: "query user by its id failed: "}
	siteDeleteUser     = callSite{operation: "delete_user", template: "User deleted failed: ", structural: true}
	siteUserStatus     = callSite{operation: "user_status", template: "query user by its email failed: "}
	siteChangePassword = callSite{operation: "change_password"}
)

const outcomeSuccess = "success"

func respondOK(c echo.Context, site callSite, result interface{}) error {
	metrics.RecordRequest(site.operation, outcomeSuccess)
	return c.JSON(http.StatusOK, Envelope{ErrorMsg: "", Result: result})
}

func respondFailure(c echo.Context, site callSite, status int, kind domain.ErrorKind, result interface{}) error {
	metrics.RecordRequest(site.operation, kind.String())
	return c.JSON(status, ErrorEnvelope{Result: result})
}

// respondError maps err onto a status and result payload for site.
func respondError(c echo.Context, site callSite, err error) error {
	derr := domain.Classify(err)

	switch derr.Kind {
	case domain.KindMissingField, domain.KindInvalidInvitation, domain.KindExpiredInvitation:
		return respondFailure(c, site, http.StatusBadRequest, derr.Kind, derr.Message)
	case domain.KindNotFound:
		return respondFailure(c, site, http.StatusNotFound, derr.Kind, nil)
	case domain.KindProvider, domain.KindProviderAuth:
		if site.structural {
			return respondFailure(c, site, http.StatusInternalServerError, derr.Kind, providerResult(site, derr))
		}
		return respondFailure(c, site, http.StatusInternalServerError, derr.Kind, site.template+derr.Error())
	case domain.KindUnknown:
		return respondFailure(c, site, http.StatusInternalServerError, derr.Kind, site.template+derr.Error())
	default:
		return respondFailure(c, site, http.StatusInternalServerError, derr.Kind, site.template+derr.Error())
	}
}

// providerResult returns the provider body as JSON when it is JSON, as text
// when it is anything else, and as prose when there is no body.
func providerResult(site callSite, derr *domain.Error) interface{} {
	switch {
	case len(derr.Body) > 0 && json.Valid(derr.Body):
		return json.RawMessage(derr.Body)
	case len(derr.Body) > 0:
		return string(derr.Body)
	default:
		return site.template + derr.Error()
	}
}

// bindAndValidate binds the request into req and runs struct validation.
// Any failure is reported as missing input with missingMsg, except an
// invalid realm which gets its own message.
func bindAndValidate(c echo.Context, req interface{}, missingMsg string) error {
	if err := c.Bind(req); err != nil {
		return domain.NewMissingFieldError(missingMsg)
	}
	if err := c.Validate(req); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) && verr.Has("realm") {
			return domain.NewMissingFieldError(verr.Errors["realm"])
		}
		return domain.NewMissingFieldError(missingMsg)
	}
	return nil
}
