package auth

import (
	"context"

	"github.com/google/uuid"
)

// IdentityKind tags which branch produced a ResolvedIdentity
type IdentityKind string

const (
	IdentityNone          IdentityKind = "none"
	IdentityAuthenticated IdentityKind = "authenticated"
	IdentityGuest         IdentityKind = "guest"
)

// ResolvedIdentity is the request scoped outcome of identity resolution
type ResolvedIdentity struct {
	Kind    IdentityKind
	ID      string
	Name    string
	Token   string
	IsGuest bool
}

// Resolved reports whether an identity was found
func (r ResolvedIdentity) Resolved() bool {
	return r.Kind == IdentityAuthenticated || r.Kind == IdentityGuest
}

var noIdentity = ResolvedIdentity{Kind: IdentityNone}

// IdentityResolver decides, per request, whether the caller is an
// authenticated user, a returning guest, or nobody.
type IdentityResolver struct {
	sessions          SessionProvider
	tokens            *TokenService
	cookies           *GuestCookieStore
	logger            Logger
	sessionGuestClaim bool
}

// ResolverOption configures the resolver
type ResolverOption func(*IdentityResolver)

// WithResolverLogger sets the logger
func WithResolverLogger(logger Logger) ResolverOption {
	return func(r *IdentityResolver) {
		r.logger = normalizeLogger(logger)
	}
}

// WithSessionGuestClaim controls the isGuest claim minted for session
// users. Enabled by default: existing clients read session tokens with
// isGuest=true even though the resolved identity reports false.
func WithSessionGuestClaim(enabled bool) ResolverOption {
	return func(r *IdentityResolver) {
		r.sessionGuestClaim = enabled
	}
}

// NewIdentityResolver wires the resolver collaborators
func NewIdentityResolver(sessions SessionProvider, tokens *TokenService, cookies *GuestCookieStore, opts ...ResolverOption) *IdentityResolver {
	r := &IdentityResolver{
		sessions:          sessions,
		tokens:            tokens,
		cookies:           cookies,
		logger:            defLogger{},
		sessionGuestClaim: true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Resolve runs the precedence rules: session, then guest cookie, then none.
// It never returns an error, failures are logged and resolve fail-closed.
func (r *IdentityResolver) Resolve(ctx context.Context, req Request) ResolvedIdentity {
	if r.sessions != nil {
		sess, err := r.sessions.Session(ctx, req)
		if err != nil {
			r.logger.Error("identity resolver session lookup failed", "error", err)
			return r.none(req)
		}

		if sess.HasUser() {
			return r.fromSession(sess)
		}
	}

	raw, ok := r.cookies.Get(req)
	if !ok {
		return noIdentity
	}

	claims, err := r.tokens.Verify(raw)
	if err != nil {
		r.logger.Info("guest cookie rejected", "error", err)
		return r.none(req)
	}

	return r.rotateGuest(req, claims)
}

// none clears a guest cookie the client sent and resolves to no identity
func (r *IdentityResolver) none(req Request) ResolvedIdentity {
	if _, ok := r.cookies.Get(req); ok {
		r.cookies.Delete(req)
	}
	return noIdentity
}

func (r *IdentityResolver) fromSession(sess *ExternalSession) ResolvedIdentity {
	token, err := r.tokens.Issue(IdentityClaims{
		UserID:  sess.User.ID,
		Name:    sess.User.Name,
		IsGuest: r.sessionGuestClaim,
	})
	if err != nil {
		r.logger.Error("identity resolver failed to issue session token", "error", err, "user_id", sess.User.ID)
		return noIdentity
	}

	return ResolvedIdentity{
		Kind:    IdentityAuthenticated,
		ID:      sess.User.ID,
		Name:    sess.User.Name,
		Token:   token,
		IsGuest: false,
	}
}

func (r *IdentityResolver) rotateGuest(req Request, claims *IdentityClaims) ResolvedIdentity {
	token, err := r.tokens.Issue(NewGuestClaims(claims.UserID, claims.Name))
	if err != nil {
		r.logger.Error("identity resolver failed to rotate guest token", "error", err, "user_id", claims.UserID)
		return noIdentity
	}

	r.cookies.Set(req, token)

	return ResolvedIdentity{
		Kind:    IdentityGuest,
		ID:      claims.UserID,
		Name:    claims.Name,
		Token:   token,
		IsGuest: true,
	}
}

// StartGuest creates a new guest identity and writes its cookie
func (r *IdentityResolver) StartGuest(req Request, name string) (ResolvedIdentity, error) {
	claims := NewGuestClaims(uuid.NewString(), name)

	token, err := r.tokens.Issue(claims)
	if err != nil {
		r.logger.Error("identity resolver failed to issue guest token", "error", err)
		return noIdentity, err
	}

	r.cookies.Set(req, token)

	return ResolvedIdentity{
		Kind:    IdentityGuest,
		ID:      claims.UserID,
		Name:    claims.Name,
		Token:   token,
		IsGuest: true,
	}, nil
}
