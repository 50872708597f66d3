// Package main is the entry point for The Reporter API server.
// It loads configuration, connects to PostgreSQL, applies schema
// migrations, and wires all HTTP routes.
package main

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bojo500/the-reporter/internal/config"
	"github.com/bojo500/the-reporter/internal/database"
	"github.com/bojo500/the-reporter/internal/handlers"
	"github.com/bojo500/the-reporter/internal/mail"
	"github.com/bojo500/the-reporter/internal/middleware"
	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/security"
	"github.com/bojo500/the-reporter/internal/services"
)

// errorHandler renders every error through the shared envelope. AppErrors
// keep their status and message; anything else becomes an opaque 500.
func errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := models.AsAppError(err); ok {
		return c.Status(appErr.StatusCode).JSON(models.Envelope{
			StatusCode: appErr.StatusCode,
			Message:    appErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(models.Envelope{
			StatusCode: fiberErr.Code,
			Message:    fiberErr.Message,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(models.Envelope{
		StatusCode: fiber.StatusInternalServerError,
		Message:    "Internal server error",
	})
}

func main() {
	cfg := config.Load()

	database.MustConnect(&database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: 25,
		MinConns: 5,
	})
	defer database.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	securityConfig := security.DefaultSecurityConfig()
	securityLogger := security.NewLogger()

	tokens := security.NewTokenManager(cfg.JWTSecret, securityConfig, cfg.SessionTokenTTL)
	mailer := mail.NewResendSender(cfg.ResendAPIKey, cfg.ResendFrom)

	authService := services.NewAuthService(tokens, mailer, securityLogger, cfg.BaseURL)
	userService := services.NewUserService()
	shiftService := services.NewShiftService(securityLogger)
	ccsService := services.NewCCSService(securityLogger)
	exportService := services.NewExportService()

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	shiftHandler := handlers.NewShiftHandler(shiftService)
	ccsHandler := handlers.NewCCSHandler(ccsService, exportService)

	sm := middleware.NewSecurityMiddleware(securityLogger, securityConfig)
	loginLimiter := security.NewRateLimiter(securityConfig.LoginRateLimit, 12*time.Second)
	exportLimiter := security.NewRateLimiter(securityConfig.RateLimitExport, 20*time.Minute)
	defer loginLimiter.Stop()
	defer exportLimiter.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "The Reporter",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(sm.RequestLogger())
	app.Use(sm.SecureHeaders())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE",
	}))

	// Public auth routes
	auth := app.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", sm.RateLimit(loginLimiter, "/auth/login"), authHandler.Login)
	auth.Get("/verify-email", authHandler.VerifyEmail)
	auth.Get("/check-auth", middleware.AuthRequired(tokens), authHandler.CheckAuth)

	// Everything else requires a session token
	users := app.Group("/users", middleware.AuthRequired(tokens))
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Patch("/:id", userHandler.Update)
	users.Patch("/:id/phone", userHandler.UpdatePhone)
	users.Delete("/:id", userHandler.Delete)

	shifts := app.Group("/shifts", middleware.AuthRequired(tokens))
	shifts.Post("/", shiftHandler.Create)
	shifts.Get("/", shiftHandler.List)
	shifts.Get("/user/:id", shiftHandler.ListByUser)
	shifts.Get("/:id", shiftHandler.Get)

	ccs := app.Group("/ccs", middleware.AuthRequired(tokens))
	ccs.Post("/", ccsHandler.Create)
	ccs.Get("/", ccsHandler.List)
	ccs.Get("/export", sm.RateLimit(exportLimiter, "/ccs/export"), ccsHandler.Export)
	ccs.Get("/user/:id", ccsHandler.ListByUser)
	ccs.Get("/:id", ccsHandler.Get)

	securityLogger.Info("The Reporter listening on " + cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
