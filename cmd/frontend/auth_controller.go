package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"

	session "github.com/ussdautopay/go-session"
)

const (
	sessionDuration         = 24 * time.Hour
	extendedSessionDuration = 30 * 24 * time.Hour

	googleStateCookie = "google_oauth_state"
)

// AuthController owns the login, registration, social sign-in and
// logout pages.
type AuthController struct {
	app    *App
	logger session.Logger
}

func NewAuthController(app *App) *AuthController {
	return &AuthController{app: app, logger: app.logger}
}

func (a *AuthController) LoginShow(ctx router.Context) error {
	return ctx.Render("login", router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

type loginForm struct {
	session.LoginPayload
	RememberMe bool `form:"remember_me" json:"remember_me"`
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(loginForm)

	if err := ctx.Bind(payload); err != nil {
		a.logger.Error("login parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render("login", router.ViewContext{
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render("login", router.ViewContext{
			"record":     payload,
			"validation": session.FormatValidationErrorToMap(err),
		})
	}

	result, err := a.app.client.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.logger.Error("login error: %v", err)
		return ctx.Render("login", router.ViewContext{
			"errors": map[string]string{
				"authentication": session.ErrorMessage(err),
			},
			"record": payload,
		})
	}

	duration := sessionDuration
	if payload.RememberMe {
		duration = extendedSessionDuration
	}
	a.app.gate.SetCredential(ctx, result.Token, duration)

	redirect := a.app.gate.GetRedirect(ctx, landingFor(result.User))
	return ctx.Redirect(redirect, router.StatusSeeOther)
}

func (a *AuthController) LogOut(ctx router.Context) error {
	credential := a.app.gate.Credential(ctx)

	// Best effort server invalidation; the cookie goes either way.
	if credential != "" {
		if err := a.app.client.Scoped(credential).Logout(ctx.Context()); err != nil {
			a.logger.Warn("logout call failed: %v", err)
		}
	}

	a.app.gate.ClearCredential(ctx)
	return ctx.Redirect("/", router.StatusSeeOther)
}

func (a *AuthController) RegistrationShow(ctx router.Context) error {
	return ctx.Render("register", router.ViewContext{
		"errors": map[string]string{},
		"record": session.RegistrationPayload{},
	})
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(session.RegistrationPayload)

	if err := ctx.Bind(payload); err != nil {
		a.logger.Error("register parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render("register", router.ViewContext{
			"errors": map[string]string{"form": "Failed to parse form"},
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		a.logger.Error("register validate payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render("register", router.ViewContext{
			"record":     payload,
			"validation": session.FormatValidationErrorToMap(err),
		})
	}

	result, err := a.app.client.Register(ctx.Context(), session.RegisterData{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		a.logger.Error("register error: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  session.ErrorMessage(err),
			"system_message": "Registration failed",
		}).Render("register", router.ViewContext{
			"record": payload,
			"errors": map[string]string{"registration": session.ErrorMessage(err)},
		})
	}

	a.app.gate.SetCredential(ctx, result.Token, sessionDuration)

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Welcome aboard",
	}).Redirect(landingFor(result.User), fiber.StatusSeeOther)
}

func (a *AuthController) GoogleStart(ctx router.Context) error {
	state := a.app.google.NewState()

	ctx.Cookie(&router.Cookie{
		Name:     googleStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})

	return ctx.Redirect(a.app.google.AuthCodeURL(state), router.StatusSeeOther)
}

func (a *AuthController) GoogleCallback(ctx router.Context) error {
	state := ctx.Query("state", "")
	if state == "" || state != ctx.Cookies(googleStateCookie) {
		a.logger.Warn("google callback with bad state")
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "Sign-in attempt could not be verified, try again",
		}).Redirect("/login", fiber.StatusSeeOther)
	}

	code := ctx.Query("code", "")
	if code == "" {
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "Google did not return an authorization code",
		}).Redirect("/login", fiber.StatusSeeOther)
	}

	idToken, err := a.app.google.Exchange(ctx.Context(), code)
	if err != nil {
		a.logger.Error("google exchange: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"system_message": session.ErrorMessage(err),
		}).Redirect("/login", fiber.StatusSeeOther)
	}

	result, err := a.app.client.FederatedLogin(ctx.Context(), idToken)
	if err != nil {
		a.logger.Error("google login: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"system_message": session.ErrorMessage(err),
		}).Redirect("/login", fiber.StatusSeeOther)
	}

	a.app.gate.SetCredential(ctx, result.Token, sessionDuration)

	redirect := a.app.gate.GetRedirect(ctx, landingFor(result.User))
	return ctx.Redirect(redirect, router.StatusSeeOther)
}

// landingFor sends each tier to its home page after sign-in.
func landingFor(user *session.User) string {
	policy := session.DefaultRedirectPolicy()
	switch user.Type() {
	case session.UserTypeAdmin:
		return "/admin/users"
	case session.UserTypeSubscribed:
		return "/dashboard"
	default:
		return policy.Targets[session.UserTypeUser]
	}
}
