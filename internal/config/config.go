// Package config loads application configuration from environment variables.
// Every value has a development-safe default so the server can start locally
// with nothing but DATABASE_URL set.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// AppConfig holds everything the server needs at startup.
type AppConfig struct {
	ListenAddr      string        // Address the HTTP server binds to
	Port            string        // Port component of ListenAddr
	DatabaseURL     string        // PostgreSQL connection string
	JWTSecret       string        // HMAC key for session and verification tokens
	SessionTokenTTL time.Duration // Lifetime of tokens issued at login
	BaseURL         string        // Public base URL used in verification links
	FrontendURL     string        // Single allowed CORS origin
	ResendAPIKey    string        // API key for the Resend mail provider
	ResendFrom      string        // From address for outgoing mail
	Env             string        // "production" or anything else for dev
	MigrationsPath  string        // file:// source for golang-migrate
}

// Load reads configuration from the environment and fills in defaults
// for anything missing. It never fails; callers that require a value
// (e.g. DATABASE_URL) discover its absence when they use it.
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3000"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "reporter-dev-secret"
	}

	sessionTTL := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TOKEN_TTL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			sessionTTL = d
		}
	}

	baseURL := strings.TrimSpace(os.Getenv("BASE_URL"))
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%s", port)
	}

	frontendURL := strings.TrimSpace(os.Getenv("FRONTEND_URL"))
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	resendFrom := strings.TrimSpace(os.Getenv("RESEND_FROM_EMAIL"))
	if resendFrom == "" {
		resendFrom = "onboarding@resend.dev"
	}

	migrationsPath := strings.TrimSpace(os.Getenv("MIGRATIONS_PATH"))
	if migrationsPath == "" {
		migrationsPath = "file://migrations"
	}

	return AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:       jwtSecret,
		SessionTokenTTL: sessionTTL,
		BaseURL:         baseURL,
		FrontendURL:     frontendURL,
		ResendAPIKey:    strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		ResendFrom:      resendFrom,
		Env:             strings.TrimSpace(os.Getenv("ENV")),
		MigrationsPath:  migrationsPath,
	}
}
