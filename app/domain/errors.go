package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories every operation reports.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMissingField
	KindInvalidInvitation
	KindExpiredInvitation
	KindNotFound
	KindProvider
	KindProviderAuth
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingField:
		return "missing_field"
	case KindInvalidInvitation:
		return "invalid_invitation"
	case KindExpiredInvitation:
		return "expired_invitation"
	case KindNotFound:
		return "not_found"
	case KindProvider:
		return "provider"
	case KindProviderAuth:
		return "provider_auth"
	default:
		return "unknown"
	}
}

// User-facing messages that are part of the HTTP contract.
const (
	MsgMissingInformation  = "Missing required information"
	MsgMissingRefreshToken = "Missing refresh token"
	MsgMissingEmail        = "Missing email"
	MsgInvitationNotValid  = "Invitation not valid"
	MsgInvitationExpired   = "Invitation expired"
	MsgUserNotFound        = "User not found"

	MsgMissingPasswordChange = "missing username, old password or new password"
)

// Error is a tagged failure. Provider kinds carry the IdP status code and raw
// response body so handlers can echo them.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Body       []byte
	Cause      error
}

// Error renders provider failures as "<status>: <body>", unknown failures as
// the cause text, and everything else as the message.
func (e *Error) Error() string {
	switch e.Kind {
	case KindProvider, KindProviderAuth:
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Body)
	case KindUnknown:
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return e.Message
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on kind and message so sentinel comparisons work across copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	ErrInvitationNotValid = &Error{Kind: KindInvalidInvitation, Message: MsgInvitationNotValid}
	ErrInvitationExpired  = &Error{Kind: KindExpiredInvitation, Message: MsgInvitationExpired}
)

// NewMissingFieldError reports incomplete user input.
func NewMissingFieldError(message string) *Error {
	return &Error{Kind: KindMissingField, Message: message}
}

// NewNotFoundError reports an absent resource.
func NewNotFoundError(resource string, cause error) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found", Cause: cause}
}

// NewProviderError reports that the IdP rejected an operation.
func NewProviderError(statusCode int, body []byte, cause error) *Error {
	return &Error{Kind: KindProvider, Message: "identity provider error", StatusCode: statusCode, Body: body, Cause: cause}
}

// NewProviderAuthError reports that the IdP rejected credentials or the
// service's own admin credentials.
func NewProviderAuthError(statusCode int, body []byte, cause error) *Error {
	return &Error{Kind: KindProviderAuth, Message: "identity provider authentication error", StatusCode: statusCode, Body: body, Cause: cause}
}

// NewUnknownError wraps anything that is not otherwise classified.
func NewUnknownError(cause error) *Error {
	return &Error{Kind: KindUnknown, Cause: cause}
}

// KindOf returns the kind of err, or KindUnknown for unclassified errors.
func KindOf(err error) ErrorKind {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return KindUnknown
}

// Classify returns err as a tagged error, wrapping unclassified errors as
// KindUnknown. A nil err stays nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var derr *Error
	if errors.As(err, &derr) {
		return derr
	}
	return NewUnknownError(err)
}

// PasswordChangeStage identifies which step of the legacy password change
// failed.
type PasswordChangeStage int

const (
	StageVerifyOldPassword PasswordChangeStage = iota
	StageLookupUser
	StageResetPassword
)

// PasswordChangeError wraps a failure from one stage of a password change.
type PasswordChangeError struct {
	Stage PasswordChangeStage
	Err   error
}

func (e *PasswordChangeError) Error() string {
	return e.Err.Error()
}

func (e *PasswordChangeError) Unwrap() error {
	return e.Err
}
