// Package middleware provides HTTP middleware for authentication and
// request-level security concerns.
package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/security"
)

// SecurityMiddleware groups the request-level security handlers around a
// shared logger and configuration.
type SecurityMiddleware struct {
	logger *security.Logger
	config *security.SecurityConfig
}

// NewSecurityMiddleware creates a new security middleware instance.
func NewSecurityMiddleware(logger *security.Logger, config *security.SecurityConfig) *SecurityMiddleware {
	if config == nil {
		config = security.DefaultSecurityConfig()
	}
	return &SecurityMiddleware{
		logger: logger,
		config: config,
	}
}

// RequestLogger assigns each request a UUID, exposes it via the
// X-Request-ID response header, and logs method, path, status, and latency
// after the handler chain completes.
func (sm *SecurityMiddleware) RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := uuid.NewString()
		c.Locals("request_id", requestID)
		c.Set("X-Request-ID", requestID)

		err := c.Next()

		sm.logger.HTTPRequest(
			c.Method(),
			c.Path(),
			c.Response().StatusCode(),
			time.Since(start).Milliseconds(),
			c.IP(),
			c.Get("User-Agent"),
			requestID,
		)

		return err
	}
}

// RateLimit throttles an endpoint per client. Authenticated requests are
// keyed by user id so shared NATs don't starve each other; anonymous ones
// fall back to IP.
func (sm *SecurityMiddleware) RateLimit(limiter *security.RateLimiter, endpointName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.IP()
		if userID := c.Locals("user_id"); userID != nil {
			identifier = fmt.Sprintf("user_%v", userID)
		}

		if !limiter.Allow(identifier) {
			sm.logger.SecurityEvent(security.EventRateLimited, nil, "", c.IP(), c.Get("User-Agent"),
				map[string]interface{}{
					"endpoint":   endpointName,
					"identifier": identifier,
				})

			c.Set("Retry-After", "60")
			return c.Status(fiber.StatusTooManyRequests).JSON(models.Envelope{
				StatusCode: fiber.StatusTooManyRequests,
				Message:    "Rate limit exceeded, please try again later",
			})
		}

		return c.Next()
	}
}

// SecureHeaders adds standard security headers to every response.
func (sm *SecurityMiddleware) SecureHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		return c.Next()
	}
}
