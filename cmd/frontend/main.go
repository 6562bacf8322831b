package main

import (
	"embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"

	session "github.com/ussdautopay/go-session"
	"github.com/ussdautopay/go-session/middleware/authgate"
)

//go:embed public
var publicFS embed.FS

// Config is read from the environment. Only APIBaseURL is required;
// the Google settings can stay empty when social sign-in is off.
type Config struct {
	APIBaseURL         string
	ListenAddr         string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
}

func loadConfig() Config {
	cfg := Config{
		APIBaseURL:         os.Getenv("AUTOPAY_API_URL"),
		ListenAddr:         os.Getenv("AUTOPAY_LISTEN_ADDR"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8000"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3000"
	}

	return cfg
}

// App carries the wired collaborators every controller needs.
type App struct {
	cfg    Config
	client *session.Client
	gate   *authgate.Gate
	google *session.GoogleFlow
	logger session.Logger
}

func main() {
	cfg := loadConfig()
	logger := session.DefaultLogger()

	client := session.NewClient(cfg.APIBaseURL, session.WithClientLogger(logger))

	gate := authgate.New(authgate.Config{
		Validator: client,
		Policy:    session.DefaultRedirectPolicy(),
		Logger:    logger,
	})

	app := &App{
		cfg:    cfg,
		client: client,
		gate:   gate,
		logger: logger,
	}

	if cfg.GoogleClientID != "" {
		app.google = session.NewGoogleFlow(session.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			CallbackURL:  cfg.GoogleCallbackURL,
		})
	}

	engine := django.New("./cmd/frontend/views", ".html")

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			StrictRouting:     false,
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	srv.Router().Use(mflash.New(mflash.ConfigDefault))

	RegisterRoutes(srv.Router(), app)

	srv.Router().Static("/", ".", router.Static{
		FS:   publicFS,
		Root: ".",
	})

	logger.Info("frontend listening on %s, backend at %s", cfg.ListenAddr, cfg.APIBaseURL)

	srv.Serve(cfg.ListenAddr)

	waitExitSignal()
}

// RegisterRoutes mounts every page. The gate guards the authenticated
// surface by tier: any session for profile pages, subscribed for the
// fan dashboard, admin for user management.
func RegisterRoutes(r router.Router[*fiber.App], app *App) {
	auth := NewAuthController(app)
	pages := NewPagesController(app)
	admin := NewAdminController(app)

	optional := app.gate.Optional()
	anySession := app.gate.RequireSession()
	subscribed := app.gate.Require(session.UserTypeSubscribed)
	adminOnly := app.gate.Require(session.UserTypeAdmin)

	r.Get("/", pages.Home, optional).SetName("home.get")
	r.Get("/influencers/:id", pages.InfluencerShow, optional).SetName("influencer.get")

	r.Get("/login", auth.LoginShow).SetName("sign-in.get")
	r.Post("/login", auth.LoginPost).SetName("sign-in.post")
	r.Get("/logout", auth.LogOut, anySession).SetName("sign-out.get")

	r.Get("/register", auth.RegistrationShow).SetName("register.get")
	r.Post("/register", auth.RegistrationCreate).SetName("register.post")

	if app.google != nil {
		r.Get("/auth/google", auth.GoogleStart).SetName("google.get")
		r.Get("/auth/google/callback", auth.GoogleCallback).SetName("google.callback")
	}

	r.Get("/subscription", pages.SubscribeShow, anySession).SetName("subscribe.get")
	r.Post("/subscription", pages.SubscribePost, anySession).SetName("subscribe.post")

	r.Get("/dashboard", pages.Dashboard, subscribed).SetName("dashboard.get")

	r.Get("/profile", pages.ProfileShow, anySession).SetName("profile.get")
	r.Post("/profile", pages.ProfileUpdate, anySession).SetName("profile.post")
	r.Post("/profile/password", pages.ChangePassword, anySession).SetName("password.post")

	r.Get("/admin/users", admin.UsersIndex, adminOnly).SetName("admin-users.get")
	r.Post("/admin/users/:id/activate", admin.UserActivate, adminOnly).SetName("admin-users.activate")
	r.Post("/admin/users/:id/deactivate", admin.UserDeactivate, adminOnly).SetName("admin-users.deactivate")
	r.Post("/admin/influencers/:id/:action", admin.InfluencerLifecycle, adminOnly).SetName("admin-influencers.action")
}

func waitExitSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
}
