package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/wichananm65/gift-store-backend/internal/analytics"
	"github.com/wichananm65/gift-store-backend/internal/auth"
	"github.com/wichananm65/gift-store-backend/internal/catalog"
	"github.com/wichananm65/gift-store-backend/internal/config"
	"github.com/wichananm65/gift-store-backend/internal/httpx"
	"github.com/wichananm65/gift-store-backend/internal/logging"
	"github.com/wichananm65/gift-store-backend/internal/metrics"
	"github.com/wichananm65/gift-store-backend/internal/product"
	"github.com/wichananm65/gift-store-backend/internal/seo"
	"github.com/wichananm65/gift-store-backend/internal/settings"
	"github.com/wichananm65/gift-store-backend/internal/storefront"
)

// newServer wires every handler onto a fiber app.
func newServer(cfg config.Config, log logrus.FieldLogger, repos repositories, limiter *auth.LoginLimiter) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.MaxBodyBytes,
		ErrorHandler:          httpx.ErrorHandler(cfg.IsProduction(), log),
		DisableStartupMessage: true,
	})
	setupCORS(app, cfg.CORSOrigins)
	app.Use(
		recover.New(),
		logging.Middleware(log),
		metrics.Middleware(),
		httpx.NoStore(),
		httpx.BodyLimit(cfg.MaxBodyBytes),
	)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	if cfg.AdminPasswordHash == "" {
		log.Warn("ADMIN_PASSWORD_HASH is empty, admin login is disabled")
	}
	authService := auth.NewService(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.SessionTTL)
	requireAuth := auth.Middleware(authService.Secret())

	productService := product.NewService(repos.products)
	catalogService := catalog.NewService(repos.catalog)
	settingsService := settings.NewService(repos.settings)

	authHandler := auth.NewHandler(authService, limiter, cfg.CookieSecure, log)
	authHandler.RegisterPublicRoutes(app)

	storeHandler := storefront.NewHandler(storefront.NewService(productService, catalogService, settingsService))
	productHandler := product.NewHandler(productService)
	catalogHandler := catalog.NewHandler(catalogService)
	settingsHandler := settings.NewHandler(settingsService)
	seoHandler := seo.NewHandler(seo.NewService(repos.seo))
	analyticsHandler := analytics.NewHandler(analytics.NewService(repos.analytics))

	for _, h := range []interface {
		RegisterPublicRoutes(fiber.Router)
		RegisterProtectedRoutes(fiber.Router, fiber.Handler)
	}{storeHandler, productHandler, settingsHandler, seoHandler, analyticsHandler} {
		h.RegisterPublicRoutes(app)
		h.RegisterProtectedRoutes(app, requireAuth)
	}
	// catalog writes go through /api/store
	catalogHandler.RegisterPublicRoutes(app)

	return app
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		// browsers refuse credentials with a wildcard origin
		AllowCredentials: origins != "*",
	}))
}
