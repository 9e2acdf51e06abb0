package auth

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService signs and verifies identity bearer tokens
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	logger     Logger
	now        func() time.Time
}

// NewTokenService creates a new TokenService instance. A zero ttl issues
// tokens without an exp claim.
func NewTokenService(signingKey []byte, ttl time.Duration, issuer string, logger Logger) (*TokenService, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	if ttl < 0 {
		return nil, errors.New("token TTL must be non-negative", errors.CategoryBadInput)
	}

	return &TokenService{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		logger:     normalizeLogger(logger),
		now:        time.Now,
	}, nil
}

// NewTokenServiceFromConfig builds a TokenService from Config
func NewTokenServiceFromConfig(cfg Config, logger Logger) (*TokenService, error) {
	return NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetTokenExpiration(), cfg.GetIssuer(), logger)
}

// WithClock overrides the time source
func (ts *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		ts.now = now
	}
	return ts
}

// TTL returns the configured token lifetime, zero means no expiry
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Issue signs the identity claims. Registered claims set by the caller are
// replaced: every token gets a fresh iat and jti.
func (ts *TokenService) Issue(claims IdentityClaims) (string, error) {
	if len(ts.signingKey) == 0 {
		return "", ErrMissingSigningKey
	}

	if claims.UserID == "" {
		return "", errors.New("claims must carry a user id", errors.CategoryBadInput)
	}

	now := ts.now()
	signed := claims.Identity()
	signed.RegisteredClaims = jwt.RegisteredClaims{
		ID:       uuid.NewString(),
		Issuer:   ts.issuer,
		Subject:  claims.UserID,
		IssuedAt: jwt.NewNumericDate(now),
	}

	if ts.ttl > 0 {
		signed.ExpiresAt = jwt.NewNumericDate(now.Add(ts.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, signed)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Verify parses the token, checks the signature and returns its claims
func (ts *TokenService) Verify(tokenString string) (*IdentityClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(TextCodeTokenInvalid).
			WithCode(errors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService verify could not decode claims")
		return nil, ErrTokenInvalid
	}

	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
