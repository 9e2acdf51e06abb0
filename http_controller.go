package auth

import (
	"context"
	stderrors "errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// SessionStarter creates and ends authenticated sessions for a request
type SessionStarter interface {
	Start(ctx context.Context, req Request, sess ExternalSession) (*ExternalSession, error)
	End(ctx context.Context, req Request) error
}

// UserPayload is the user block of an identity response
type UserPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Token   string `json:"token,omitempty"`
	IsGuest bool   `json:"isGuest"`
}

// IdentityResponse is the body returned by every auth endpoint
type IdentityResponse struct {
	Success bool         `json:"success"`
	User    *UserPayload `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
	Code    string       `json:"code,omitempty"`
}

// GuestPayload is the body of a guest creation request
type GuestPayload struct {
	Name string `json:"name" form:"name"`
}

func (p GuestPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 64)),
	)
}

type AuthControllerRoutes struct {
	Refresh  string
	Guest    string
	Callback string
	SignOut  string
	Me       string
}

type AuthController struct {
	Logger   Logger
	Routes   *AuthControllerRoutes
	Resolver *IdentityResolver
	Bridge   *CallbackBridge
	Sessions SessionStarter
	MeGuard  router.MiddlewareFunc

	// ClaimsKey must match the ContextKey the MeGuard stores claims under
	ClaimsKey string
}

type AuthControllerOption func(*AuthController) *AuthController

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = normalizeLogger(logger)
		return c
	}
}

// WithMeGuard protects the me route, typically with identityware
func WithMeGuard(guard router.MiddlewareFunc) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.MeGuard = guard
		return c
	}
}

// WithClaimsKey sets the Locals key the me route reads claims from
func WithClaimsKey(key string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if key != "" {
			c.ClaimsKey = key
		}
		return c
	}
}

// WithRoutes overrides the default route paths
func WithRoutes(routes AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Routes = &routes
		return c
	}
}

func NewAuthController(resolver *IdentityResolver, bridge *CallbackBridge, sessions SessionStarter, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:    defLogger{},
		Resolver:  resolver,
		Bridge:    bridge,
		Sessions:  sessions,
		ClaimsKey: DefaultClaimsKey,
		Routes: &AuthControllerRoutes{
			Refresh:  "/api/auth/refresh",
			Guest:    "/api/auth/guest",
			Callback: "/api/auth/callback/:provider",
			SignOut:  "/api/auth/signout",
			Me:       "/api/auth/me",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// RegisterAuthRoutes mounts the controller on app
func RegisterAuthRoutes[T any](app router.Router[T], controller *AuthController) {
	app.Get(controller.Routes.Refresh, controller.Refresh).
		SetName("auth.refresh")
	app.Post(controller.Routes.Guest, controller.CreateGuest).
		SetName("auth.guest")
	app.Post(controller.Routes.Callback, controller.Callback).
		SetName("auth.callback")
	app.Post(controller.Routes.SignOut, controller.SignOut).
		SetName("auth.signout")

	if controller.MeGuard != nil {
		app.Get(controller.Routes.Me, controller.Me, controller.MeGuard).
			SetName("auth.me")
	}
}

// Refresh resolves the caller identity. It always answers 200, failures
// surface as success=false.
func (a *AuthController) Refresh(c router.Context) error {
	identity := a.Resolver.Resolve(c.Context(), c)
	if !identity.Resolved() {
		return c.JSON(router.StatusOK, IdentityResponse{Success: false})
	}

	return c.JSON(router.StatusOK, IdentityResponse{
		Success: true,
		User:    userPayload(identity),
	})
}

// CreateGuest starts a new guest identity
func (a *AuthController) CreateGuest(c router.Context) error {
	payload := GuestPayload{}
	if err := c.Bind(&payload); err != nil {
		return a.errorResponse(c, errors.Wrap(err, ErrInvalidPayload.Category, "unable to parse guest payload").
			WithTextCode(TextCodeInvalidPayload).
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.errorResponse(c, errors.Wrap(err, ErrInvalidPayload.Category, "invalid guest payload").
			WithTextCode(TextCodeInvalidPayload).
			WithCode(errors.CodeBadRequest))
	}

	identity, err := a.Resolver.StartGuest(c, payload.Name)
	if err != nil {
		return a.errorResponse(c, err)
	}

	return c.JSON(router.StatusCreated, IdentityResponse{
		Success: true,
		User:    userPayload(identity),
	})
}

// Callback consumes a provider sign in outcome and starts a session
func (a *AuthController) Callback(c router.Context) error {
	provider, ok := ParseProvider(c.Param("provider"))
	if !ok {
		return a.errorResponse(c, ErrProviderNotConfigured)
	}

	input := SignInInput{}
	if err := c.Bind(&input); err != nil {
		return a.errorResponse(c, errors.Wrap(err, ErrInvalidPayload.Category, "unable to parse sign in payload").
			WithTextCode(TextCodeInvalidPayload).
			WithCode(errors.CodeBadRequest))
	}

	ctx := c.Context()

	user, err := a.Bridge.SignIn(ctx, provider, input)
	if err != nil {
		return a.errorResponse(c, err)
	}

	tok := SessionToken{}
	PropagateToken(&tok, user)

	sess := ExternalSession{
		User: &SessionUser{Name: user.Name, Email: user.Email},
	}
	PropagateSession(&sess, tok)

	started, err := a.Sessions.Start(ctx, c, sess)
	if err != nil {
		return a.errorResponse(c, err)
	}

	identity := a.Resolver.fromSession(started)
	if !identity.Resolved() {
		return c.JSON(router.StatusOK, IdentityResponse{Success: false})
	}

	return c.JSON(router.StatusOK, IdentityResponse{
		Success: true,
		User:    userPayload(identity),
	})
}

// SignOut ends the authenticated session. The guest cookie is left alone.
func (a *AuthController) SignOut(c router.Context) error {
	if err := a.Sessions.End(c.Context(), c); err != nil {
		a.Logger.Error("sign out failed to delete session", "error", err)
	}
	return c.JSON(router.StatusOK, IdentityResponse{Success: true})
}

// Me echoes the identity carried by the bearer token
func (a *AuthController) Me(c router.Context) error {
	claims, ok := ClaimsFromLocals(c, a.ClaimsKey)
	if !ok {
		return a.errorResponse(c, ErrTokenInvalid)
	}

	return c.JSON(router.StatusOK, IdentityResponse{
		Success: true,
		User: &UserPayload{
			ID:      claims.UserID,
			Name:    claims.Name,
			IsGuest: claims.IsGuest,
		},
	})
}

func (a *AuthController) errorResponse(c router.Context, err error) error {
	var richErr *errors.Error
	if !stderrors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"auth controller error",
		"error", richErr.Message,
		"category", richErr.Category,
		"text_code", richErr.TextCode,
		"path", c.OriginalURL(),
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	status := richErr.Code
	if status == 0 {
		status = router.StatusInternalServerError
	}

	return c.JSON(status, IdentityResponse{
		Success: false,
		Error:   richErr.Message,
		Code:    richErr.TextCode,
	})
}

func userPayload(identity ResolvedIdentity) *UserPayload {
	return &UserPayload{
		ID:      identity.ID,
		Name:    identity.Name,
		Token:   identity.Token,
		IsGuest: identity.IsGuest,
	}
}
