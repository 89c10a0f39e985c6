package app

import (
	"vesta-backend/internal/auth"
	"vesta-backend/internal/config"
	"vesta-backend/internal/constants"
	"vesta-backend/internal/database"
	"vesta-backend/internal/grants"
	"vesta-backend/internal/health"
	"vesta-backend/internal/middleware"
	"vesta-backend/internal/notify"
	"vesta-backend/internal/performance"
	"vesta-backend/internal/portfolios"
	"vesta-backend/internal/transfers"
	"vesta-backend/internal/vesting"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the DB and Redis handles so main can verify
// connectivity at startup.
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

	// Session (Redis); the same client backs health markers and notifications
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

	// Health request marker (after session)
	app.Use(middleware.HealthMarker(rdb))

	// Tracing + route logger
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	// --- Routes (no auth) ---
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			healthHandlers.DB = sqlDB
		}
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// --- Protected modules (auth required) ---
	if db != nil && rdb != nil {
		notifier := &notify.RedisNotifier{Rdb: rdb}

		// Vesting module: event listing, stats and the settlement workflows
		vestingService := &vesting.Service{
			DB:       db,
			Notifier: notifier,
			Linker:   &performance.Linker{DB: db},
		}
		vestingHandlers := &vesting.Handlers{Service: vestingService}
		vestingGroup := app.Group("/api/v1/vesting", middleware.RequireAuth())
		vestingGroup.Get("/get-events", middleware.AuthorizePermission(constants.ViewData), vestingHandlers.GetEvents)
		vestingGroup.Get("/get-stats", middleware.AuthorizePermission(constants.ViewData), vestingHandlers.GetStats)
		vestingGroup.Post("/confirm-event", middleware.AuthorizePermission(constants.ConfirmVesting), vestingHandlers.ConfirmEvent)
		vestingGroup.Post("/settle-event", middleware.AuthorizePermission(constants.SettleVesting), vestingHandlers.SettleEvent)
		vestingGroup.Post("/exercise-event", middleware.AuthorizePermission(constants.ExerciseVesting), vestingHandlers.ExerciseEvent)
		vestingGroup.Post("/forfeit-event", middleware.AuthorizePermission(constants.ManageVesting), vestingHandlers.ForfeitEvent)
		vestingGroup.Post("/cancel-event", middleware.AuthorizePermission(constants.ManageVesting), vestingHandlers.CancelEvent)

		// Portfolios module
		portfolioService := &portfolios.Service{DB: db}
		portfolioHandlers := &portfolios.Handlers{Service: portfolioService}
		portfolioGroup := app.Group("/api/v1/portfolios", middleware.RequireAuth())
		portfolioGroup.Get("/view-portfolios", middleware.AuthorizePermission(constants.ViewData), portfolioHandlers.ViewPortfolios)

		// Transfers module
		transferService := &transfers.Service{DB: db}
		transferHandlers := &transfers.Handlers{Service: transferService}
		transferGroup := app.Group("/api/v1/transfers", middleware.RequireAuth())
		transferGroup.Get("/get-transfers", middleware.AuthorizePermission(constants.ViewData), transferHandlers.GetTransfers)
		transferGroup.Get("/get-unreconciled", middleware.AuthorizePermission(constants.ManageVesting), transferHandlers.GetUnreconciled)

		// Grants module
		grantService := &grants.Service{DB: db}
		grantHandlers := &grants.Handlers{Service: grantService}
		grantGroup := app.Group("/api/v1/grants", middleware.RequireAuth())
		grantGroup.Get("/view-grants", middleware.AuthorizePermission(constants.ViewData), grantHandlers.ViewGrants)
		grantGroup.Post("/accept-grant", middleware.AuthorizePermission(constants.AcceptGrant), grantHandlers.AcceptGrant)
	}

	return app, db, rdb, nil
}
