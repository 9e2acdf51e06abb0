package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-guest-auth"
)

func newTokenService(t *testing.T, key string, ttl time.Duration) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService([]byte(key), ttl, "", quietLogger())
	require.NoError(t, err)
	return ts
}

func TestNewTokenService(t *testing.T) {
	t.Run("missing signing key", func(t *testing.T) {
		ts, err := auth.NewTokenService(nil, 0, "", nil)
		assert.Nil(t, ts)
		assert.ErrorIs(t, err, auth.ErrMissingSigningKey)
	})

	t.Run("negative ttl", func(t *testing.T) {
		_, err := auth.NewTokenService([]byte("s3cr3t"), -time.Second, "", nil)
		assert.Error(t, err)
	})

	t.Run("from config", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.ttl = time.Hour
		ts, err := auth.NewTokenServiceFromConfig(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, ts.TTL())
	})

	t.Run("from config without key", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.signingKey = ""
		_, err := auth.NewTokenServiceFromConfig(cfg, nil)
		assert.ErrorIs(t, err, auth.ErrMissingSigningKey)
	})
}

func TestTokenService_RoundTrip(t *testing.T) {
	ts := newTokenService(t, "s3cr3t", 0)

	token, err := ts.Issue(auth.IdentityClaims{UserID: "g1", Name: "Ann", IsGuest: true})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, auth.NewGuestClaims("g1", "Ann"), claims.Identity())
	assert.Equal(t, "g1", claims.Subject)
	assert.NotEmpty(t, claims.TokenID())
	assert.False(t, claims.IssuedAt().IsZero())
	assert.True(t, claims.Expires().IsZero(), "no ttl means no exp claim")
}

func TestTokenService_RejectsEmptyUserID(t *testing.T) {
	ts := newTokenService(t, "s3cr3t", 0)

	_, err := ts.Issue(auth.IdentityClaims{Name: "Ann"})
	assert.Error(t, err)
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := newTokenService(t, "other", 0)
	verifier := newTokenService(t, "s3cr3t", 0)

	token, err := issuer.Issue(auth.NewGuestClaims("g1", "Ann"))
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	assert.Nil(t, claims)
	assert.True(t, auth.IsTokenInvalidError(err))
}

func TestTokenService_Malformed(t *testing.T) {
	ts := newTokenService(t, "s3cr3t", 0)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := ts.Verify(raw)
		assert.True(t, auth.IsTokenInvalidError(err), raw)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	ts := newTokenService(t, "s3cr3t", 0)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, auth.IdentityClaims{UserID: "g1", Name: "Ann"})
	raw, err := token.SignedString([]byte("s3cr3t"))
	require.NoError(t, err)

	_, err = ts.Verify(raw)
	assert.True(t, auth.IsTokenInvalidError(err))
}

func TestTokenService_RejectsMissingUserID(t *testing.T) {
	ts := newTokenService(t, "s3cr3t", 0)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"name": "Ann"})
	raw, err := token.SignedString([]byte("s3cr3t"))
	require.NoError(t, err)

	_, err = ts.Verify(raw)
	assert.True(t, auth.IsTokenInvalidError(err))
}

func TestTokenService_Expiry(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	ts := newTokenService(t, "s3cr3t", time.Hour).WithClock(func() time.Time { return now })

	token, err := ts.Issue(auth.NewGuestClaims("g1", "Ann"))
	require.NoError(t, err)

	claims, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Hour), claims.Expires().UTC())

	now = start.Add(2 * time.Hour)
	_, err = ts.Verify(token)
	assert.True(t, auth.IsTokenExpiredError(err))
	assert.False(t, auth.IsTokenInvalidError(err))
}

func TestTokenService_Issuer(t *testing.T) {
	ts, err := auth.NewTokenService([]byte("s3cr3t"), 0, "guest-auth", nil)
	require.NoError(t, err)
	other, err := auth.NewTokenService([]byte("s3cr3t"), 0, "elsewhere", nil)
	require.NoError(t, err)

	token, err := other.Issue(auth.NewGuestClaims("g1", "Ann"))
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.True(t, auth.IsTokenInvalidError(err))
}

func TestTokenService_RotationYieldsNewToken(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ts := newTokenService(t, "s3cr3t", 0).WithClock(func() time.Time { return fixed })

	first, err := ts.Issue(auth.NewGuestClaims("g1", "Ann"))
	require.NoError(t, err)
	second, err := ts.Issue(auth.NewGuestClaims("g1", "Ann"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	a, err := ts.Verify(first)
	require.NoError(t, err)
	b, err := ts.Verify(second)
	require.NoError(t, err)
	assert.Equal(t, a.Identity(), b.Identity())
}
