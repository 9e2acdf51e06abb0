package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the payload carried by every bearer token we issue
type IdentityClaims struct {
	jwt.RegisteredClaims
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	IsGuest bool   `json:"isGuest"`
}

// NewGuestClaims builds claims for an anonymous guest identity
func NewGuestClaims(userID, name string) IdentityClaims {
	return IdentityClaims{UserID: userID, Name: name, IsGuest: true}
}

// Identity strips registered claims, leaving the fields that define who the
// holder is. Two tokens for the same identity compare equal here.
func (c IdentityClaims) Identity() IdentityClaims {
	return IdentityClaims{
		UserID:  c.UserID,
		Name:    c.Name,
		IsGuest: c.IsGuest,
	}
}

// Expires returns the expiration time, zero when the token never expires
func (c *IdentityClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *IdentityClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// TokenID returns the jti claim
func (c *IdentityClaims) TokenID() string {
	return c.RegisteredClaims.ID
}
