package auth

import (
	"time"

	"github.com/goliatone/go-router"
)

const (
	// DefaultGuestCookieName is the cookie carrying the guest token
	DefaultGuestCookieName = "guest"
	// DefaultGuestCookieMaxAge is rewritten in full on every refresh
	DefaultGuestCookieMaxAge = 30 * 24 * time.Hour
)

// CookieAttributes are the fixed attributes applied on every write
type CookieAttributes struct {
	Name     string
	Path     string
	MaxAge   time.Duration
	HTTPOnly bool
	Secure   bool
	SameSite string
}

// GuestCookieAttributes derives the guest cookie attributes. Cross site
// cookies (SameSite=None) must be Secure, so both toggle on production.
func GuestCookieAttributes(name string, maxAge time.Duration, production bool) CookieAttributes {
	if name == "" {
		name = DefaultGuestCookieName
	}
	if maxAge <= 0 {
		maxAge = DefaultGuestCookieMaxAge
	}

	attrs := CookieAttributes{
		Name:     name,
		Path:     "/",
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   false,
		SameSite: router.CookieSameSiteStrictMode,
	}

	if production {
		attrs.Secure = true
		attrs.SameSite = router.CookieSameSiteNoneMode
	}

	return attrs
}

// GuestCookieStore reads, writes and deletes the guest cookie
type GuestCookieStore struct {
	attrs CookieAttributes
	now   func() time.Time
}

// NewGuestCookieStore creates a store with attributes resolved from cfg
func NewGuestCookieStore(cfg Config) *GuestCookieStore {
	return NewGuestCookieStoreWithAttributes(GuestCookieAttributes(
		cfg.GetGuestCookieName(),
		cfg.GetGuestCookieMaxAge(),
		cfg.IsProduction(),
	))
}

// NewGuestCookieStoreWithAttributes creates a store with explicit attributes
func NewGuestCookieStoreWithAttributes(attrs CookieAttributes) *GuestCookieStore {
	return &GuestCookieStore{attrs: attrs, now: time.Now}
}

// Attributes returns the attributes applied on write
func (s *GuestCookieStore) Attributes() CookieAttributes {
	return s.attrs
}

// Name returns the cookie name
func (s *GuestCookieStore) Name() string {
	return s.attrs.Name
}

// Get returns the raw guest token, false when the cookie is absent or empty
func (s *GuestCookieStore) Get(req Request) (string, bool) {
	val := req.Cookies(s.attrs.Name)
	if val == "" {
		return "", false
	}
	return val, true
}

// Set writes token with a full, refreshed expiry
func (s *GuestCookieStore) Set(req Request, token string) {
	req.Cookie(&router.Cookie{
		Name:     s.attrs.Name,
		Value:    token,
		Path:     s.attrs.Path,
		MaxAge:   int(s.attrs.MaxAge / time.Second),
		Expires:  s.now().Add(s.attrs.MaxAge),
		HTTPOnly: s.attrs.HTTPOnly,
		Secure:   s.attrs.Secure,
		SameSite: s.attrs.SameSite,
	})
}

// Delete expires the cookie on the client
func (s *GuestCookieStore) Delete(req Request) {
	req.Cookie(&router.Cookie{
		Name:     s.attrs.Name,
		Value:    "",
		Path:     s.attrs.Path,
		Expires:  s.now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: s.attrs.HTTPOnly,
		Secure:   s.attrs.Secure,
		SameSite: s.attrs.SameSite,
	})
}
