package kratos

import (
	"errors"
	"fmt"
	"net/http"

	kratosclient "github.com/ory/kratos-client-go"

	"identity-facade/app/domain"
)

// rejection selects the kind a non-2xx Kratos answer is reported as.
type rejection int

const (
	// 401 and 403 are credential failures, anything else a provider error
	rejectByStatus rejection = iota
	rejectAsAuth
	rejectAsProvider
)

// classifyError maps a failed Kratos call onto the error taxonomy. Kratos
// returns non-2xx responses as *GenericOpenAPIError carrying the raw body.
func classifyError(err error, httpResp *http.Response, mode rejection) error {
	status := getHTTPStatus(httpResp)

	var apiErr *kratosclient.GenericOpenAPIError
	if errors.As(err, &apiErr) && status != 0 {
		body := apiErr.Body()
		switch {
		case mode == rejectAsAuth:
			return domain.NewProviderAuthError(status, body, err)
		case mode == rejectByStatus && (status == http.StatusUnauthorized || status == http.StatusForbidden):
			return domain.NewProviderAuthError(status, body, err)
		default:
			return domain.NewProviderError(status, body, err)
		}
	}

	if status >= http.StatusMultipleChoices {
		return domain.NewProviderError(status, nil, err)
	}
	return domain.NewUnknownError(err)
}

// realmMismatch reports a session whose identity belongs to another realm,
// in Kratos' own error shape.
func realmMismatch(realm string, mode rejection) error {
	body := []byte(fmt.Sprintf(`{"error":{"code":401,"status":"Unauthorized","message":"identity does not belong to realm %s"}}`, realm))
	if mode == rejectAsProvider {
		return domain.NewProviderError(http.StatusUnauthorized, body, nil)
	}
	return domain.NewProviderAuthError(http.StatusUnauthorized, body, nil)
}

func getHTTPStatus(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func isStatus(err error, status int) bool {
	var derr *domain.Error
	return errors.As(err, &derr) && derr.StatusCode == status
}
