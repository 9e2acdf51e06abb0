package identityware

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-router"

	auth "github.com/goliatone/go-guest-auth"
)

var (
	defaultTokenLookup         = "header:" + router.HeaderAuthorization
	ErrTokenMissingOrMalformed = errors.New("missing or malformed token")
	ErrGuestNotAllowed         = errors.New("guest identities are not allowed")
)

// TokenVerifier validates a raw identity token
type TokenVerifier interface {
	Verify(raw string) (*auth.IdentityClaims, error)
}

type Config struct {
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	// Verifier is required
	Verifier    TokenVerifier
	ContextKey  string
	TokenLookup string
	AuthScheme  string
	// RejectGuests fails requests whose token carries isGuest=true
	RejectGuests bool
	// ContextEnricher propagates claims to the standard context when set
	ContextEnricher func(ctx context.Context, claims *auth.IdentityClaims) context.Context
}

// New returns a middleware that verifies the identity token and stores
// its claims in Locals under ContextKey.
func New(config ...Config) router.MiddlewareFunc {
	cfg := GetDefaultConfig(config...)
	extractors := GetExtractors(cfg.TokenLookup, cfg.AuthScheme)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawToken(ctx, extractors)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			claims, err := cfg.Verifier.Verify(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if cfg.RejectGuests && claims.IsGuest {
				return cfg.ErrorHandler(ctx, ErrGuestNotAllowed)
			}

			ctx.Locals(cfg.ContextKey, claims)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), claims))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Verifier == nil {
		panic("AUTH: identity middleware configuration: Verifier is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = auth.DefaultClaimsKey
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// DefaultErrorHandler answers 400 for a missing token, 403 for rejected
// guests and 401 otherwise.
func DefaultErrorHandler(c router.Context, err error) error {
	status := router.StatusUnauthorized
	message := "invalid or expired token"

	switch {
	case errors.Is(err, ErrTokenMissingOrMalformed):
		status = router.StatusBadRequest
		message = ErrTokenMissingOrMalformed.Error()
	case errors.Is(err, ErrGuestNotAllowed):
		status = router.StatusForbidden
		message = ErrGuestNotAllowed.Error()
	case auth.IsTokenExpiredError(err):
		message = "token is expired"
	}

	return c.JSON(status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func ExtractRawToken(c router.Context, extractors []TokenExtractor) (string, error) {
	raw, err := "", ErrTokenMissingOrMalformed
	for _, extractor := range extractors {
		raw, err = extractor(c)
		if raw != "" && err == nil {
			break
		}
	}
	return raw, err
}

type TokenExtractor func(c router.Context) (string, error)

// GetExtractors parses a lookup such as "header:Authorization,cookie:guest"
func GetExtractors(tokenLookup string, authScheme string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}

		source, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		switch source {
		case "header":
			extractors = append(extractors, tokenFromHeader(name, authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(name))
		case "param":
			extractors = append(extractors, tokenFromParam(name))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(name))
		}
	}

	return extractors
}

func tokenFromHeader(header string, authScheme string) TokenExtractor {
	authScheme = strings.TrimSpace(authScheme)
	return func(c router.Context) (string, error) {
		a := c.Header(header)
		l := len(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrTokenMissingOrMalformed
	}
}

func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrTokenMissingOrMalformed
		}
		return token, nil
	}
}

func tokenFromParam(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Param(param)
		if token == "" {
			return "", ErrTokenMissingOrMalformed
		}
		return token, nil
	}
}

func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrTokenMissingOrMalformed
		}
		return token, nil
	}
}
