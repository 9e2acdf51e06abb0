package auth

import (
	stderrors "errors"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeMissingSigningKey = "MISSING_SIGNING_KEY"
	TextCodeTokenInvalid      = "TOKEN_INVALID"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeUserNotFound      = "USER_NOT_FOUND"
	TextCodeExternalStore     = "EXTERNAL_STORE_ERROR"
	TextCodeInvalidProfile    = "INVALID_PROFILE"
	TextCodeInvalidPayload    = "INVALID_PAYLOAD"
	TextCodeProviderDisabled  = "PROVIDER_NOT_CONFIGURED"
	TextCodeSessionNotFound   = "SESSION_NOT_FOUND"
	TextCodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
)

// ErrMissingSigningKey is a configuration error, tokens can not be signed
var ErrMissingSigningKey = errors.New("token signing key is not configured", errors.CategoryInternal).
	WithTextCode(TextCodeMissingSigningKey).
	WithCode(errors.CodeInternal)

// ErrTokenInvalid covers forged, malformed or undecodable tokens
var ErrTokenInvalid = errors.New("token is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired token carried an exp claim that elapsed
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound credential lookup did not match an account
var ErrUserNotFound = errors.New("user not found", errors.CategoryAuth).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrExternalStore wraps failures of the session or account store
var ErrExternalStore = errors.New("external store failure", errors.CategoryInternal).
	WithTextCode(TextCodeExternalStore).
	WithCode(errors.CodeInternal)

// ErrInvalidProfile provider returned a profile we can not map
var ErrInvalidProfile = errors.New("provider profile is missing required fields", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidProfile).
	WithCode(errors.CodeBadRequest)

// ErrInvalidPayload request body failed validation
var ErrInvalidPayload = errors.New("invalid payload", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidPayload).
	WithCode(errors.CodeBadRequest)

// ErrProviderNotConfigured no sign in source registered under the requested name
var ErrProviderNotConfigured = errors.New("identity provider not configured", errors.CategoryNotFound).
	WithTextCode(TextCodeProviderDisabled).
	WithCode(errors.CodeNotFound)

// ErrSessionNotFound session id is unknown or expired
var ErrSessionNotFound = errors.New("session not found", errors.CategoryNotFound).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeNotFound)

// ErrAccountNotFound account store has no matching record
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// IsTokenInvalidError reports whether err is a token verification failure
func IsTokenInvalidError(err error) bool {
	return hasTextCode(err, TextCodeTokenInvalid)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsUserNotFoundError reports credential lookup misses
func IsUserNotFoundError(err error) bool {
	return hasTextCode(err, TextCodeUserNotFound)
}

// IsSessionNotFoundError reports unknown session ids
func IsSessionNotFoundError(err error) bool {
	return hasTextCode(err, TextCodeSessionNotFound)
}

// IsAccountNotFoundError reports account store misses
func IsAccountNotFoundError(err error) bool {
	return hasTextCode(err, TextCodeAccountNotFound)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if stderrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}

// ExternalStoreError wraps a session or account store failure
func ExternalStoreError(err error, message string) error {
	return errors.Wrap(err, ErrExternalStore.Category, message).
		WithTextCode(TextCodeExternalStore).
		WithCode(errors.CodeInternal)
}
