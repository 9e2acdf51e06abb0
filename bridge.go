package auth

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// ProviderUser is the uniform shape every sign in source produces
type ProviderUser struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Token    string   `json:"token,omitempty"`
	Provider Provider `json:"provider"`
}

// SourceKind tags the SignInSource variants
type SourceKind string

const (
	SourceOAuthProfile SourceKind = "oauth_profile"
	SourceCredentials  SourceKind = "credentials"
)

// SignInInput is the raw outcome handed over by the external auth flow.
// OAuth sources read Profile, credential sources read Email and Name.
type SignInInput struct {
	Email   string         `json:"email" form:"email"`
	Name    string         `json:"name" form:"name"`
	Picture string         `json:"picture,omitempty" form:"picture"`
	Profile map[string]any `json:"profile,omitempty"`
}

// SignInSource turns an external sign in outcome into a ProviderUser
type SignInSource interface {
	Kind() SourceKind
	Provider() Provider
	Authorize(ctx context.Context, input SignInInput) (*ProviderUser, error)
}

// OAuthProfileSource upserts the account described by an OAuth profile
type OAuthProfileSource struct {
	provider Provider
	accounts AccountStore
}

// NewOAuthProfileSource creates a profile source for provider
func NewOAuthProfileSource(provider Provider, accounts AccountStore) *OAuthProfileSource {
	return &OAuthProfileSource{provider: provider, accounts: accounts}
}

func (s *OAuthProfileSource) Kind() SourceKind   { return SourceOAuthProfile }
func (s *OAuthProfileSource) Provider() Provider { return s.provider }

// Authorize maps email and name from the profile and upserts the account.
// Existing accounts only get their name refreshed.
func (s *OAuthProfileSource) Authorize(ctx context.Context, input SignInInput) (*ProviderUser, error) {
	email := firstNonEmpty(input.Email, profileString(input.Profile, "email"))
	name := firstNonEmpty(input.Name, profileString(input.Profile, "name"), profileString(input.Profile, "login"))

	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return nil, errors.Wrap(err, ErrInvalidProfile.Category, ErrInvalidProfile.Message).
			WithTextCode(TextCodeInvalidProfile).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"provider": s.provider, "field": "email"})
	}

	account, err := s.accounts.Upsert(ctx, email, AccountFields{
		Name:     name,
		Provider: s.provider,
	})
	if err != nil {
		return nil, err
	}

	return account.ProviderUser(), nil
}

// CredentialsSource looks up an existing guest account. It never creates one.
type CredentialsSource struct {
	accounts AccountStore
}

// NewCredentialsSource creates the credentials source
func NewCredentialsSource(accounts AccountStore) *CredentialsSource {
	return &CredentialsSource{accounts: accounts}
}

func (s *CredentialsSource) Kind() SourceKind   { return SourceCredentials }
func (s *CredentialsSource) Provider() Provider { return ProviderGuest }

func (s *CredentialsSource) Authorize(ctx context.Context, input SignInInput) (*ProviderUser, error) {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Email, validation.Required),
		validation.Field(&input.Name, validation.Required),
	)
	if err != nil {
		return nil, errors.Wrap(err, ErrInvalidPayload.Category, "email and name are required").
			WithTextCode(TextCodeInvalidPayload).
			WithCode(errors.CodeBadRequest)
	}

	account, err := s.accounts.FindUnique(ctx, input.Email, ProviderGuest)
	if err != nil {
		if IsAccountNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return account.ProviderUser(), nil
}

// CallbackBridge routes sign in outcomes to the source registered for the
// provider and hands back a normalized user. It does not decide precedence.
type CallbackBridge struct {
	sources map[Provider]SignInSource
	logger  Logger
}

// NewCallbackBridge registers sources by provider
func NewCallbackBridge(sources ...SignInSource) *CallbackBridge {
	b := &CallbackBridge{
		sources: make(map[Provider]SignInSource),
		logger:  defLogger{},
	}
	for _, src := range sources {
		if src != nil {
			b.sources[src.Provider()] = src
		}
	}
	return b
}

// OAuthClient is a provider client id/secret pair
type OAuthClient struct {
	ClientID     string
	ClientSecret string
}

// Configured reports whether both halves of the pair are set
func (c OAuthClient) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// NewCallbackBridgeFromClients registers the credentials source plus an
// OAuth profile source for every configured client.
func NewCallbackBridgeFromClients(accounts AccountStore, clients map[Provider]OAuthClient) *CallbackBridge {
	sources := []SignInSource{NewCredentialsSource(accounts)}
	for provider, client := range clients {
		if client.Configured() {
			sources = append(sources, NewOAuthProfileSource(provider, accounts))
		}
	}
	return NewCallbackBridge(sources...)
}

func (b *CallbackBridge) WithLogger(logger Logger) *CallbackBridge {
	b.logger = normalizeLogger(logger)
	return b
}

// Source returns the source registered for provider
func (b *CallbackBridge) Source(provider Provider) (SignInSource, bool) {
	src, ok := b.sources[provider]
	return src, ok
}

// SignIn authorizes input against the provider source
func (b *CallbackBridge) SignIn(ctx context.Context, provider Provider, input SignInInput) (*ProviderUser, error) {
	src, ok := b.sources[provider]
	if !ok {
		return nil, ErrProviderNotConfigured
	}

	user, err := src.Authorize(ctx, input)
	if err != nil {
		b.logger.Error("sign in failed", "provider", provider, "kind", src.Kind(), "error", err)
		return nil, err
	}

	if user == nil || user.ID == "" {
		return nil, ErrUserNotFound
	}

	b.logger.Debug("sign in succeeded", "provider", provider, "user_id", user.ID)
	return user, nil
}

// PropagateToken copies the user id and carried token onto tok. Nothing
// changes when no user signed in on this request.
func PropagateToken(tok *SessionToken, user *ProviderUser) {
	if tok == nil || user == nil {
		return
	}
	tok.UID = user.ID
	tok.JWTToken = user.Token
	if user.Email != "" {
		tok.Email = user.Email
	}
	if user.Name != "" {
		tok.Name = user.Name
	}
}

// PropagateSession copies the token uid onto the session user
func PropagateSession(sess *ExternalSession, tok SessionToken) {
	if sess == nil || sess.User == nil || tok.UID == "" {
		return
	}
	sess.User.ID = tok.UID
	sess.Token = tok.JWTToken
}

func profileString(profile map[string]any, key string) string {
	if profile == nil {
		return ""
	}
	if v, ok := profile[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
