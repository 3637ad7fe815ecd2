package app

import (
	"huddle-backend/internal/accounts"
	"huddle-backend/internal/auth"
	"huddle-backend/internal/config"
	"huddle-backend/internal/database"
	"huddle-backend/internal/googleauth"
	"huddle-backend/internal/health"
	"huddle-backend/internal/identity"
	"huddle-backend/internal/invitations"
	"huddle-backend/internal/middleware"
	"huddle-backend/internal/notifications"
	"huddle-backend/internal/projects"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the DB and Redis client for startup checks.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	healthHandlers := &health.Handlers{Rdb: rdb}
	if db != nil {
		healthHandlers.DB = &gormPinger{db: db}
	}
	app.Get("/api/v1/health", healthHandlers.Status)

	if db != nil {
		accountsService := &accounts.Service{DB: db}
		resolver := &identity.Resolver{DB: db}
		projectService := &projects.Service{DB: db}
		notifier := &notifications.Service{
			DB: db,
			Sender: &notifications.BrevoClient{
				APIKey:   cfg.BrevoAPIKey,
				MailFrom: cfg.MailFrom,
			},
		}
		inviteService := &invitations.Service{
			Store:         &invitations.Store{DB: db, Expiry: invitations.ExpiryWindow(cfg.InviteExpiryDays)},
			Resolver:      resolver,
			Accounts:      accountsService,
			Projects:      projectService,
			Notifier:      notifier,
			InviteBaseURL: cfg.InviteBaseURL,
		}

		// Auth: login, register, me, logout
		authHandlers := &auth.Handlers{
			UserFinder: &auth.GormUserFinder{DB: db, Accounts: accountsService},
			Accounts:   accountsService,
			Rdb:        rdb,
			Config:     sessionCfg,
		}
		authGroup := app.Group("/api/v1/auth")
		authGroup.Post("/login", authHandlers.Login)
		authGroup.Post("/register", authHandlers.Register)
		authGroup.Get("/me", authHandlers.Me)
		authGroup.Delete("/logout", authHandlers.Logout)

		// Projects
		projectHandlers := &projects.Handlers{Service: projectService}
		projectGroup := app.Group("/api/v1/projects", middleware.RequireAuth())
		projectGroup.Post("/create-project", projectHandlers.CreateProject)
		projectGroup.Get("/view-project/:id", projectHandlers.ViewProject)
		projectGroup.Get("/view-members/:id", projectHandlers.ViewMembers)

		// Invitations: public token-addressed routes + owner routes
		invHandlers := &invitations.Handlers{Service: inviteService, Config: sessionCfg}
		app.Post("/api/v1/invitations/public/invite-details", invHandlers.InviteDetails)
		app.Post("/api/v1/invitations/public/accept-invite", invHandlers.AcceptInvite)
		app.Post("/api/v1/invitations/public/decline-invite", invHandlers.DeclineInvite)
		invGroup := app.Group("/api/v1/invitations", middleware.RequireAuth())
		invGroup.Post("/create-invite", invHandlers.CreateInvite)
		invGroup.Get("/view-invites", invHandlers.ViewInvites)

		// Google sign-in bridge for external-account invitees
		bridge := &googleauth.Bridge{
			ClientID:    cfg.GoogleClientID,
			RedirectURL: cfg.GoogleRedirectURL,
			Accounts:    accountsService,
			Invitations: inviteService,
		}
		googleHandlers := &googleauth.Handlers{
			Bridge: bridge,
			Exchanger: &googleauth.HTTPExchanger{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.GoogleRedirectURL,
			},
			Config: sessionCfg,
		}
		app.Get("/api/v1/invitations/public/google/begin", googleHandlers.Begin)
		app.Get("/api/v1/auth/google/callback", googleHandlers.Callback)

		// Notifications
		notifHandlers := &notifications.Handlers{Service: notifier}
		notifGroup := app.Group("/api/v1/notifications", middleware.RequireAuth())
		notifGroup.Get("/view-notifications", notifHandlers.ViewNotifications)
	}

	return app, db, rdb, nil
}

// gormPinger adapts *gorm.DB to the health check's DBPinger.
type gormPinger struct {
	db *gorm.DB
}

func (g *gormPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
