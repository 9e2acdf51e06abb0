package auth_test

import (
	"context"
	"time"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"

	auth "github.com/goliatone/go-guest-auth"
)

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// quietLogger accepts every call
func quietLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Debug", mock.Anything, mock.Anything).Maybe()
	l.On("Info", mock.Anything, mock.Anything).Maybe()
	l.On("Warn", mock.Anything, mock.Anything).Maybe()
	l.On("Error", mock.Anything, mock.Anything).Maybe()
	return l
}

// MockAccountStore implements auth.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindUnique(ctx context.Context, email string, provider auth.Provider) (*auth.Account, error) {
	args := m.Called(ctx, email, provider)
	if acc, ok := args.Get(0).(*auth.Account); ok {
		return acc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStore) Upsert(ctx context.Context, email string, fields auth.AccountFields) (*auth.Account, error) {
	args := m.Called(ctx, email, fields)
	if acc, ok := args.Get(0).(*auth.Account); ok {
		return acc, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionProvider implements auth.SessionProvider
type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) Session(ctx context.Context, req auth.Request) (*auth.ExternalSession, error) {
	args := m.Called(ctx, req)
	if sess, ok := args.Get(0).(*auth.ExternalSession); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionStore implements auth.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, sess auth.ExternalSession) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*auth.ExternalSession, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*auth.ExternalSession); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// fakeRequest records the cookies written on the response
type fakeRequest struct {
	cookies map[string]string
	headers map[string]string
	written []router.Cookie
}

func newFakeRequest(cookies map[string]string) *fakeRequest {
	if cookies == nil {
		cookies = map[string]string{}
	}
	return &fakeRequest{cookies: cookies, headers: map[string]string{}}
}

func (r *fakeRequest) Cookies(key string, defaultValue ...string) string {
	if v, ok := r.cookies[key]; ok && v != "" {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (r *fakeRequest) Cookie(cookie *router.Cookie) {
	r.written = append(r.written, *cookie)
}

func (r *fakeRequest) Header(key string) string {
	return r.headers[key]
}

func (r *fakeRequest) last() (router.Cookie, bool) {
	if len(r.written) == 0 {
		return router.Cookie{}, false
	}
	return r.written[len(r.written)-1], true
}

// testConfig implements auth.Config
type testConfig struct {
	signingKey    string
	ttl           time.Duration
	issuer        string
	production    bool
	guestCookie   string
	guestMaxAge   time.Duration
	sessionCookie string
	sessionTTL    time.Duration
}

func newTestConfig() *testConfig {
	return &testConfig{
		signingKey:  "s3cr3t",
		guestCookie: "guest",
		guestMaxAge: 30 * 24 * time.Hour,
	}
}

func (c *testConfig) GetSigningKey() string { return c.signingKey }
func (c *testConfig) GetTokenExpiration() time.Duration { return c.ttl }
func (c *testConfig) GetIssuer() string { return c.issuer }
func (c *testConfig) IsProduction() bool { return c.production }
func (c *testConfig) GetGuestCookieName() string { return c.guestCookie }
func (c *testConfig) GetGuestCookieMaxAge() time.Duration { return c.guestMaxAge }
func (c *testConfig) GetSessionCookieName() string { return c.sessionCookie }
func (c *testConfig) GetSessionDuration() time.Duration { return c.sessionTTL }

var (
	_ auth.Config          = (*testConfig)(nil)
	_ auth.Request         = (*fakeRequest)(nil)
	_ auth.Logger          = (*MockLogger)(nil)
	_ auth.AccountStore    = (*MockAccountStore)(nil)
	_ auth.SessionProvider = (*MockSessionProvider)(nil)
	_ auth.SessionStore    = (*MockSessionStore)(nil)
)
