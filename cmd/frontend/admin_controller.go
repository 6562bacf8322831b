package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"

	session "github.com/ussdautopay/go-session"
	"github.com/ussdautopay/go-session/middleware/authgate"
)

// AdminController owns the user and influencer management pages.
type AdminController struct {
	app    *App
	logger session.Logger
}

func NewAdminController(app *App) *AdminController {
	return &AdminController{app: app, logger: app.logger}
}

func (a *AdminController) scoped(ctx router.Context) *session.Client {
	return a.app.client.Scoped(a.app.gate.Credential(ctx))
}

func (a *AdminController) UsersIndex(ctx router.Context) error {
	client := a.scoped(ctx)

	users, err := client.Admin().Users(ctx.Context())
	if err != nil {
		a.logger.Error("admin users list: %v", err)
		return ctx.Render("errors/500", router.ViewContext{
			"message": session.ErrorMessage(err),
		})
	}

	influencers, err := client.Influencers().Shortcodes(ctx.Context())
	if err != nil {
		a.logger.Error("shortcode list: %v", err)
	}

	return ctx.Render("admin_users", router.ViewContext{
		"users":       users,
		"influencers": influencers,
		"user":        authgate.UserFromContext(ctx),
	})
}

func (a *AdminController) UserActivate(ctx router.Context) error {
	return a.userLifecycle(ctx, "activate")
}

func (a *AdminController) UserDeactivate(ctx router.Context) error {
	return a.userLifecycle(ctx, "deactivate")
}

func (a *AdminController) userLifecycle(ctx router.Context, action string) error {
	id := ctx.ParamsInt("id", 0)
	if id <= 0 {
		return ctx.Redirect("/admin/users", router.StatusSeeOther)
	}

	client := a.scoped(ctx)

	var err error

	switch action {
	case "activate":
		err = client.Admin().ActivateUser(ctx.Context(), int64(id))
	case "deactivate":
		err = client.Admin().DeactivateUser(ctx.Context(), int64(id))
	}

	if err != nil {
		a.logger.Error("admin user %s: %v", action, err)
		return flash.WithError(ctx, router.ViewContext{
			"system_message": session.ErrorMessage(err),
		}).Redirect("/admin/users", fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "User updated",
	}).Redirect("/admin/users", fiber.StatusSeeOther)
}

// InfluencerLifecycle drives suspend, activate and terminate from one
// route, the action name rides in the path.
func (a *AdminController) InfluencerLifecycle(ctx router.Context) error {
	id := ctx.ParamsInt("id", 0)
	if id <= 0 {
		return ctx.Redirect("/admin/users", router.StatusSeeOther)
	}

	svc := a.scoped(ctx).Influencers()

	var err error

	switch ctx.Param("action") {
	case "suspend":
		err = svc.Suspend(ctx.Context(), int64(id))
	case "activate":
		err = svc.Activate(ctx.Context(), int64(id))
	case "terminate":
		err = svc.Terminate(ctx.Context(), int64(id))
	default:
		return ctx.Status(fiber.StatusNotFound).SendString("unknown action")
	}

	if err != nil {
		a.logger.Error("influencer lifecycle: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"system_message": session.ErrorMessage(err),
		}).Redirect("/admin/users", fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Influencer updated",
	}).Redirect("/admin/users", fiber.StatusSeeOther)
}
