package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Provider is the identity source an account was created through
type Provider = string

const (
	// ProviderGoogle accounts come from the Google OAuth profile callback
	ProviderGoogle Provider = "GOOGLE"
	// ProviderGithub accounts come from the GitHub OAuth profile callback
	ProviderGithub Provider = "GITHUB"
	// ProviderGuest accounts sign in with the credentials form
	ProviderGuest Provider = "GUEST"
)

// ParseProvider maps a route or form value to a Provider
func ParseProvider(name string) (Provider, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case ProviderGoogle:
		return ProviderGoogle, true
	case ProviderGithub:
		return ProviderGithub, true
	case ProviderGuest, "CREDENTIALS":
		return ProviderGuest, true
	default:
		return "", false
	}
}

// Account is the persisted user record
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	Name          string    `bun:"name,notnull" json:"name"`
	Provider      Provider  `bun:"provider,notnull" json:"provider"`
	Token         string    `bun:"token" json:"token,omitempty"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// AccountFields are the profile fields written by an upsert
type AccountFields struct {
	Name     string
	Provider Provider
	Token    string
}

// ProviderUser returns the account in the shape consumed by the session layer
func (a *Account) ProviderUser() *ProviderUser {
	if a == nil {
		return nil
	}
	return &ProviderUser{
		ID:       a.ID.String(),
		Name:     a.Name,
		Email:    a.Email,
		Token:    a.Token,
		Provider: a.Provider,
	}
}
