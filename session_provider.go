package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// DefaultSessionCookieName carries the opaque session id
const DefaultSessionCookieName = "session"

// DefaultSessionDuration is used when Config does not provide one
const DefaultSessionDuration = 30 * 24 * time.Hour

// StoreSessionProvider resolves sessions by looking up the session cookie
// in a SessionStore.
type StoreSessionProvider struct {
	store      SessionStore
	cookieName string
	duration   time.Duration
	secure     bool
	logger     Logger
	now        func() time.Time
}

// NewStoreSessionProvider creates a provider backed by store
func NewStoreSessionProvider(store SessionStore, cfg Config) *StoreSessionProvider {
	name := cfg.GetSessionCookieName()
	if name == "" {
		name = DefaultSessionCookieName
	}

	duration := cfg.GetSessionDuration()
	if duration <= 0 {
		duration = DefaultSessionDuration
	}

	return &StoreSessionProvider{
		store:      store,
		cookieName: name,
		duration:   duration,
		secure:     cfg.IsProduction(),
		logger:     defLogger{},
		now:        time.Now,
	}
}

func (p *StoreSessionProvider) WithLogger(logger Logger) *StoreSessionProvider {
	p.logger = normalizeLogger(logger)
	return p
}

// Session implements SessionProvider. Unknown or expired ids resolve to no
// session, store failures are returned wrapped.
func (p *StoreSessionProvider) Session(ctx context.Context, req Request) (*ExternalSession, error) {
	id := req.Cookies(p.cookieName)
	if id == "" {
		return nil, nil
	}

	sess, err := p.store.Get(ctx, id)
	if err != nil {
		if IsSessionNotFoundError(err) {
			p.logger.Debug("session cookie does not match a stored session", "session_id", id)
			return nil, nil
		}
		return nil, ExternalStoreError(err, "failed to load session")
	}

	if !sess.HasUser() {
		return nil, nil
	}

	return sess, nil
}

// Start persists a new session for user and writes the session cookie
func (p *StoreSessionProvider) Start(ctx context.Context, req Request, sess ExternalSession) (*ExternalSession, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = p.now().Add(p.duration)
	}

	if err := p.store.Save(ctx, sess); err != nil {
		return nil, ExternalStoreError(err, "failed to save session")
	}

	req.Cookie(&router.Cookie{
		Name:     p.cookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(sess.ExpiresAt.Sub(p.now()) / time.Second),
		HTTPOnly: true,
		Secure:   p.secure,
		SameSite: router.CookieSameSiteLaxMode,
	})

	return &sess, nil
}

// End removes the stored session and expires the session cookie
func (p *StoreSessionProvider) End(ctx context.Context, req Request) error {
	id := req.Cookies(p.cookieName)

	req.Cookie(&router.Cookie{
		Name:     p.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  p.now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   p.secure,
		SameSite: router.CookieSameSiteLaxMode,
	})

	if id == "" {
		return nil
	}

	if err := p.store.Delete(ctx, id); err != nil {
		return ExternalStoreError(err, "failed to delete session")
	}
	return nil
}

var _ SessionProvider = (*StoreSessionProvider)(nil)
