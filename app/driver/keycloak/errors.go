package keycloak

import (
	"errors"
	"net/http"

	"github.com/Nerzal/gocloak/v13"
	"golang.org/x/oauth2"

	"identity-facade/app/domain"
)

// classifyStatus maps a non-2xx admin API response onto the error taxonomy.
// 401 and 403 mean the service's own admin credentials were refused.
func classifyStatus(status int, body []byte, cause error) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewProviderAuthError(status, body, cause)
	default:
		return domain.NewProviderError(status, body, cause)
	}
}

// classifyAdminError maps a gocloak failure. A zero code means the request
// never got an answer.
func classifyAdminError(err error, body []byte) error {
	var apiErr *gocloak.APIError
	if !errors.As(err, &apiErr) || apiErr.Code == 0 {
		return domain.NewUnknownError(err)
	}
	if len(body) == 0 {
		body = []byte(apiErr.Message)
	}
	return classifyStatus(apiErr.Code, body, err)
}

// classifyTransportError maps a failed admin token fetch.
func classifyTransportError(err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return domain.NewProviderAuthError(retrieveStatus(rerr), rerr.Body, err)
	}
	return domain.NewUnknownError(err)
}

// classifyTokenError maps a failed token grant. authFailure selects
// KindProviderAuth (password grant) over KindProvider (refresh grant).
func classifyTokenError(err error, authFailure bool) error {
	var rerr *oauth2.RetrieveError
	if !errors.As(err, &rerr) {
		return domain.Classify(err)
	}
	if authFailure {
		return domain.NewProviderAuthError(retrieveStatus(rerr), rerr.Body, err)
	}
	return domain.NewProviderError(retrieveStatus(rerr), rerr.Body, err)
}

func retrieveStatus(rerr *oauth2.RetrieveError) int {
	if rerr.Response == nil {
		return 0
	}
	return rerr.Response.StatusCode
}

func isStatus(err error, status int) bool {
	var derr *domain.Error
	return errors.As(err, &derr) && derr.Kind == domain.KindProvider && derr.StatusCode == status
}
