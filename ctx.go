package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

// DefaultClaimsKey is the Locals key identityware stores claims under
const DefaultClaimsKey = "identity"

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the IdentityClaims in the given context
func WithClaimsContext(ctx context.Context, claims *IdentityClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the IdentityClaims from the standard context
func ClaimsFromContext(ctx context.Context) (*IdentityClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*IdentityClaims)
	return raw, ok && raw != nil
}

// ClaimsFromLocals extracts the IdentityClaims from the router context
func ClaimsFromLocals(c router.Context, key string) (*IdentityClaims, bool) {
	if key == "" {
		key = DefaultClaimsKey
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*IdentityClaims)
	return claims, ok && claims != nil
}
