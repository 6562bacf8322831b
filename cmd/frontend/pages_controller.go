package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"

	session "github.com/ussdautopay/go-session"
	"github.com/ussdautopay/go-session/middleware/authgate"
)

// PagesController owns the public pages and the signed-in user surface.
type PagesController struct {
	app    *App
	logger session.Logger
}

func NewPagesController(app *App) *PagesController {
	return &PagesController{app: app, logger: app.logger}
}

func (p *PagesController) Home(ctx router.Context) error {
	influencers, err := p.app.client.Influencers().List(ctx.Context())
	if err != nil {
		p.logger.Error("influencer list: %v", err)
		influencers = nil
	}

	return ctx.Render("home", router.ViewContext{
		"influencers": influencers,
		"user":        authgate.UserFromContext(ctx),
	})
}

func (p *PagesController) InfluencerShow(ctx router.Context) error {
	id := ctx.ParamsInt("id", 0)
	if id <= 0 {
		return ctx.Redirect("/", router.StatusSeeOther)
	}

	influencer, err := p.app.client.Influencers().Get(ctx.Context(), int64(id))
	if err != nil {
		p.logger.Error("influencer show: %v", err)
		return ctx.Render("errors/500", router.ViewContext{
			"message": session.ErrorMessage(err),
		})
	}

	return ctx.Render("influencer", router.ViewContext{
		"influencer": influencer,
		"user":       authgate.UserFromContext(ctx),
	})
}

func (p *PagesController) SubscribeShow(ctx router.Context) error {
	influencers, err := p.app.client.Influencers().List(ctx.Context())
	if err != nil {
		p.logger.Error("influencer list: %v", err)
	}

	return ctx.Render("subscribe", router.ViewContext{
		"influencers": influencers,
		"user":        authgate.UserFromContext(ctx),
		"record":      session.SubscribePayload{},
	})
}

func (p *PagesController) SubscribePost(ctx router.Context) error {
	payload := new(session.SubscribePayload)

	if err := ctx.Bind(payload); err != nil {
		p.logger.Error("subscribe parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render("subscribe", router.ViewContext{
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "Check the highlighted fields",
		}).Render("subscribe", router.ViewContext{
			"record":     payload,
			"validation": session.FormatValidationErrorToMap(err),
		})
	}

	scoped := p.app.client.Scoped(p.app.gate.Credential(ctx))
	_, err := scoped.Subscribers().Create(ctx.Context(), session.SubscriptionInput{
		InfluencerID: payload.InfluencerID,
		FanPhone:     payload.Phone,
		Amount:       payload.Amount,
		Frequency:    payload.Frequency,
	})
	if err != nil {
		p.logger.Error("subscribe create: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  session.ErrorMessage(err),
			"system_message": "Subscription failed",
		}).Render("subscribe", router.ViewContext{
			"record": payload,
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Subscription active",
	}).Redirect("/dashboard", fiber.StatusSeeOther)
}

func (p *PagesController) Dashboard(ctx router.Context) error {
	scoped := p.app.client.Scoped(p.app.gate.Credential(ctx))

	subs, err := scoped.Subscribers().List(ctx.Context())
	if err != nil {
		p.logger.Error("subscription list: %v", err)
		return ctx.Render("errors/500", router.ViewContext{
			"message": session.ErrorMessage(err),
		})
	}

	return ctx.Render("dashboard", router.ViewContext{
		"subscriptions": subs,
		"user":          authgate.UserFromContext(ctx),
	})
}

func (p *PagesController) ProfileShow(ctx router.Context) error {
	return ctx.Render("profile", router.ViewContext{
		"user":   authgate.UserFromContext(ctx),
		"record": session.ProfileUpdatePayload{},
	})
}

func (p *PagesController) ProfileUpdate(ctx router.Context) error {
	payload := new(session.ProfileUpdatePayload)

	if err := ctx.Bind(payload); err != nil {
		p.logger.Error("profile parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render("profile", router.ViewContext{
			"user":   authgate.UserFromContext(ctx),
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "Check the highlighted fields",
		}).Render("profile", router.ViewContext{
			"user":       authgate.UserFromContext(ctx),
			"record":     payload,
			"validation": session.FormatValidationErrorToMap(err),
		})
	}

	scoped := p.app.client.Scoped(p.app.gate.Credential(ctx))
	user, err := scoped.UpdateProfile(ctx.Context(), payload.ToUpdate())
	if err != nil {
		p.logger.Error("profile update: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  session.ErrorMessage(err),
			"system_message": "Profile update failed",
		}).Render("profile", router.ViewContext{
			"user":   authgate.UserFromContext(ctx),
			"record": payload,
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Profile saved",
	}).Render("profile", router.ViewContext{
		"user":   user,
		"record": payload,
	})
}

func (p *PagesController) ChangePassword(ctx router.Context) error {
	payload := new(session.ChangePasswordPayload)

	if err := ctx.Bind(payload); err != nil {
		p.logger.Error("password parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Redirect("/profile", fiber.StatusSeeOther)
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "Check the password fields",
		}).Render("profile", router.ViewContext{
			"user":       authgate.UserFromContext(ctx),
			"validation": session.FormatValidationErrorToMap(err),
		})
	}

	scoped := p.app.client.Scoped(p.app.gate.Credential(ctx))
	if err := scoped.ChangePassword(ctx.Context(), payload.CurrentPassword, payload.Password); err != nil {
		p.logger.Error("password change: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  session.ErrorMessage(err),
			"system_message": "Password change rejected",
		}).Render("profile", router.ViewContext{
			"user": authgate.UserFromContext(ctx),
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Password updated",
	}).Redirect("/profile", fiber.StatusSeeOther)
}
