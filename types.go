package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-router"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() time.Duration
	GetIssuer() string
	IsProduction() bool
	GetGuestCookieName() string
	GetGuestCookieMaxAge() time.Duration
	GetSessionCookieName() string
	GetSessionDuration() time.Duration
}

// Request is the slice of an inbound HTTP request the resolver needs.
// router.Context satisfies it.
type Request interface {
	Cookies(key string, defaultValue ...string) string
	Cookie(cookie *router.Cookie)
	Header(key string) string
}

// SessionProvider resolves the authenticated session attached to a request.
// It returns nil, nil when the request carries no session.
type SessionProvider interface {
	Session(ctx context.Context, req Request) (*ExternalSession, error)
}

// SessionStore persists authenticated sessions.
type SessionStore interface {
	Save(ctx context.Context, sess ExternalSession) error
	Get(ctx context.Context, id string) (*ExternalSession, error)
	Delete(ctx context.Context, id string) error
}

// AccountStore is the account collaborator used by the callback bridge
type AccountStore interface {
	FindUnique(ctx context.Context, email string, provider Provider) (*Account, error)
	Upsert(ctx context.Context, email string, fields AccountFields) (*Account, error)
}

var _ Request = router.Context(nil)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Print("[ERR] AUTH " + line(format, args...))
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Print("[WRN] AUTH " + line(format, args...))
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Print("[INF] AUTH " + line(format, args...))
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Print("[DBG] AUTH " + line(format, args...))
}

// line renders a message followed by key=value pairs
func line(msg string, args ...any) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(msg, "\n"))
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
			continue
		}
		fmt.Fprintf(&b, " %v", args[i])
	}
	b.WriteString("\n")
	return b.String()
}
