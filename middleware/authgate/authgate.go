// Package authgate guards routes behind a minimum privilege tier. It
// resolves the caller's session from a credential cookie, asks the
// backend to validate it, and either lets the request through, sends
// the caller to login, or bounces them to the page their tier earns.
package authgate

import (
	"net/http"
	"time"

	errors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	session "github.com/ussdautopay/go-session"
)

const (
	// DefaultCookieName is the credential cookie set on login.
	DefaultCookieName = "autopay_session"

	// DefaultRejectedRouteKey stores the route a guest tried to reach,
	// so login can send them back after.
	DefaultRejectedRouteKey = "rejected_route"

	userContextKey = "authgate:user"
)

// Config wires the gate.
type Config struct {
	// Validator resolves credentials against the backend. Satisfied by
	// *session.Client.
	Validator session.AuthService

	// Policy decides where each tier lands when it falls short.
	// Zero value means session.DefaultRedirectPolicy.
	Policy session.RedirectPolicy

	// CookieName overrides DefaultCookieName.
	CookieName string

	// RejectedRouteKey overrides DefaultRejectedRouteKey.
	RejectedRouteKey string

	// ErrorHandler receives backend failures that are neither an
	// invalid session nor a privilege miss, network errors mostly.
	// Defaults to a 502 with the error message.
	ErrorHandler func(router.Context, error) error

	Logger session.Logger
}

// Gate authorizes requests route by route.
type Gate struct {
	svc          session.AuthService
	policy       session.RedirectPolicy
	cookieName   string
	rejectedKey  string
	errorHandler func(router.Context, error) error
	logger       session.Logger
}

// New builds a Gate from cfg. Validator is required.
func New(cfg Config) *Gate {
	g := &Gate{
		svc:          cfg.Validator,
		policy:       cfg.Policy,
		cookieName:   cfg.CookieName,
		rejectedKey:  cfg.RejectedRouteKey,
		errorHandler: cfg.ErrorHandler,
		logger:       cfg.Logger,
	}

	if g.policy.Login == "" {
		g.policy = session.DefaultRedirectPolicy()
	}
	if g.cookieName == "" {
		g.cookieName = DefaultCookieName
	}
	if g.rejectedKey == "" {
		g.rejectedKey = DefaultRejectedRouteKey
	}
	if g.errorHandler == nil {
		g.errorHandler = defaultErrorHandler
	}
	if g.logger == nil {
		g.logger = session.DefaultLogger()
	}

	return g
}

// Require returns middleware that admits callers at or above the given
// tier. A guest requirement only needs a live session.
func (g *Gate) Require(required session.UserType) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			state, err := g.resolve(ctx)
			if err != nil {
				return err
			}

			decision := session.Evaluate(state, required, g.policy)

			switch decision.Outcome {
			case session.OutcomeAllow:
				ctx.Set(userContextKey, state.User)
				ctx.Locals(userContextKey, state.User)
				return hf(ctx)

			case session.OutcomeLoginRedirect:
				g.logger.Info("no session for %s, redirecting to login", ctx.Path())
				g.setRejectedRoute(ctx)
				return ctx.Redirect(decision.Target, redirectStatus(ctx))

			default:
				g.logger.Info(
					"tier %s short of %s on %s, redirecting",
					state.User.Type(), required, ctx.Path(),
				)
				return ctx.Redirect(decision.Target, redirectStatus(ctx))
			}
		}
	}
}

// RequireSession admits any authenticated caller.
func (g *Gate) RequireSession() router.MiddlewareFunc {
	return g.Require(session.UserTypeGuest)
}

// Optional resolves the session when a credential is present but never
// blocks. Handlers read the outcome with UserFromContext.
func (g *Gate) Optional() router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			credential := ctx.Cookies(g.cookieName)
			if credential == "" {
				return hf(ctx)
			}

			user, err := g.svc.ValidateSession(ctx.Context(), credential)
			if err != nil {
				g.logger.Info("optional auth failed, proceeding: %v", err)
				return hf(ctx)
			}

			ctx.Set(userContextKey, user)
			ctx.Locals(userContextKey, user)
			return hf(ctx)
		}
	}
}

// resolve turns the request's cookie into a session state. An absent
// or rejected credential yields an unauthenticated state; a backend
// failure that is not a session rejection goes to the error handler
// without touching the cookie.
func (g *Gate) resolve(ctx router.Context) (session.State, error) {
	credential := ctx.Cookies(g.cookieName)
	if credential == "" {
		return session.Reduce(session.State{}, session.SignedOut()), nil
	}

	user, err := g.svc.ValidateSession(ctx.Context(), credential)
	if err != nil {
		if session.IsSessionInvalid(err) {
			g.logger.Info("credential rejected on %s, clearing cookie", ctx.Path())
			g.clearCookie(ctx, g.cookieName)
			return session.Reduce(session.State{}, session.SignedOut()), nil
		}
		return session.State{}, g.errorHandler(ctx, err)
	}

	return session.Reduce(session.State{}, session.AuthSucceeded(user, credential)), nil
}

// SetCredential stores the credential cookie after a successful login.
func (g *Gate) SetCredential(ctx router.Context, credential string, duration time.Duration) {
	ctx.Cookie(&router.Cookie{
		Name:     g.cookieName,
		Value:    credential,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// Credential returns the raw credential cookie, empty when absent.
func (g *Gate) Credential(ctx router.Context) string {
	return ctx.Cookies(g.cookieName)
}

// ClearCredential drops the credential cookie on logout.
func (g *Gate) ClearCredential(ctx router.Context) {
	g.clearCookie(ctx, g.cookieName)
}

// GetRedirect pops the remembered rejected route, falling back to def.
func (g *Gate) GetRedirect(ctx router.Context, def string) string {
	r := ctx.Cookies(g.rejectedKey)
	if r == "" {
		return def
	}
	g.clearCookie(ctx, g.rejectedKey)
	return r
}

func (g *Gate) setRejectedRoute(ctx router.Context) {
	ctx.Cookie(&router.Cookie{
		Name:     g.rejectedKey,
		Value:    ctx.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (g *Gate) clearCookie(ctx router.Context, name string) {
	ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// UserFromContext returns the user a gate middleware resolved for this
// request, or nil when the request carried no session.
func UserFromContext(ctx router.Context) *session.User {
	if v := ctx.Locals(userContextKey); v != nil {
		if u, ok := v.(*session.User); ok {
			return u
		}
	}
	if v, ok := ctx.Get(userContextKey, nil).(*session.User); ok {
		return v
	}
	return nil
}

func redirectStatus(ctx router.Context) int {
	if ctx.Method() == string(router.GET) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}

func defaultErrorHandler(ctx router.Context, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Code >= http.StatusBadRequest {
		return ctx.Status(richErr.Code).SendString(richErr.Message)
	}
	return ctx.Status(http.StatusBadGateway).SendString(err.Error())
}
