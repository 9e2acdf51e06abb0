package auth

import (
	"fmt"
	"time"
)

// SessionUser is the user attached to an authenticated session
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ExternalSession is the session record owned by the session store.
// The resolver only reads it.
type ExternalSession struct {
	ID        string       `json:"id"`
	User      *SessionUser `json:"user,omitempty"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// HasUser reports whether the session resolved to a user
func (s *ExternalSession) HasUser() bool {
	return s != nil && s.User != nil && s.User.ID != ""
}

// Expired reports whether the session is past its expiry at the given time
func (s *ExternalSession) Expired(at time.Time) bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.IsZero() && !at.Before(s.ExpiresAt)
}

func (s ExternalSession) String() string {
	user := "<nil>"
	if s.User != nil {
		user = s.User.ID
	}
	return fmt.Sprintf("session=%s user=%s exp=%s", s.ID, user, s.ExpiresAt.Format(time.RFC1123))
}

// SessionToken is the working token object a sign in carries while the
// session is assembled.
type SessionToken struct {
	UID      string `json:"uid,omitempty"`
	JWTToken string `json:"jwtToken,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}
