package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsFromContext(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func() context.Context
		wantOK   bool
	}{
		{
			name: "should return claims when present in context",
			setupCtx: func() context.Context {
				claims := NewGuestClaims("g1", "Ann")
				return WithClaimsContext(context.Background(), &claims)
			},
			wantOK: true,
		},
		{
			name: "should return false when no claims in context",
			setupCtx: func() context.Context {
				return context.Background()
			},
		},
		{
			name: "should return false when context has wrong type",
			setupCtx: func() context.Context {
				return context.WithValue(context.Background(), claimsCtxKey, "not-claims")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, ok := ClaimsFromContext(tt.setupCtx())
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, claims)
				assert.Equal(t, "g1", claims.UserID)
			}
		})
	}
}

func TestClaimsFromLocals(t *testing.T) {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App { return a })

	srv.Router().Get("/with", func(c router.Context) error {
		guest := NewGuestClaims("g1", "Ann")
		c.Locals(DefaultClaimsKey, &guest)
		claims, ok := ClaimsFromLocals(c, "")
		if !ok {
			return c.SendStatus(router.StatusTeapot)
		}
		return c.SendString(claims.Name)
	})
	srv.Router().Get("/without", func(c router.Context) error {
		if _, ok := ClaimsFromLocals(c, "custom"); ok {
			return c.SendStatus(router.StatusTeapot)
		}
		return c.SendStatus(router.StatusNoContent)
	})

	app := srv.WrappedRouter()

	resp, err := app.Test(httptest.NewRequest("GET", "/with", nil))
	require.NoError(t, err)
	assert.Equal(t, router.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/without", nil))
	require.NoError(t, err)
	assert.Equal(t, router.StatusNoContent, resp.StatusCode)
}
