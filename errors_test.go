package auth_test

import (
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	auth "github.com/goliatone/go-guest-auth"
)

func TestErrorHelpers(t *testing.T) {
	wrappedInvalid := goerrors.Wrap(errors.New("signature is invalid"), goerrors.CategoryAuth, "token is invalid").
		WithTextCode(auth.TextCodeTokenInvalid)

	tests := []struct {
		name     string
		err      error
		check    func(error) bool
		expected bool
	}{
		{name: "expired sentinel", err: auth.ErrTokenExpired, check: auth.IsTokenExpiredError, expected: true},
		{name: "expired is not invalid", err: auth.ErrTokenExpired, check: auth.IsTokenInvalidError, expected: false},
		{name: "invalid sentinel", err: auth.ErrTokenInvalid, check: auth.IsTokenInvalidError, expected: true},
		{name: "wrapped invalid", err: wrappedInvalid, check: auth.IsTokenInvalidError, expected: true},
		{name: "fmt wrapped user not found", err: fmt.Errorf("sign in: %w", auth.ErrUserNotFound), check: auth.IsUserNotFoundError, expected: true},
		{name: "session not found", err: auth.ErrSessionNotFound, check: auth.IsSessionNotFoundError, expected: true},
		{name: "account not found", err: auth.ErrAccountNotFound, check: auth.IsAccountNotFoundError, expected: true},
		{name: "plain error", err: errors.New("token is expired"), check: auth.IsTokenExpiredError, expected: false},
		{name: "nil error", err: nil, check: auth.IsTokenInvalidError, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.check(tt.err))
		})
	}
}

func TestExternalStoreError(t *testing.T) {
	err := auth.ExternalStoreError(errors.New("connection refused"), "failed to load session")

	var richErr *goerrors.Error
	assert.True(t, errors.As(err, &richErr))
	assert.Equal(t, auth.TextCodeExternalStore, richErr.TextCode)
	assert.Equal(t, goerrors.CodeInternal, richErr.Code)
	assert.Equal(t, "failed to load session", richErr.Message)
}
