// Package middleware provides tests for the request logging, rate limiting,
// and security header middleware.
package middleware

import (
	"bytes"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bojo500/the-reporter/internal/security"
)

func newTestSecurityMiddleware(buf *bytes.Buffer) *SecurityMiddleware {
	logger := security.NewLogger()
	logger.SetOutput(log.New(buf, "", 0))
	return NewSecurityMiddleware(logger, nil)
}

// TestRequestLogger verifies every request gets a UUID, the header echo,
// and a structured log line.
func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	sm := newTestSecurityMiddleware(&buf)

	app := fiber.New()
	app.Use(sm.RequestLogger())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)

	requestID := resp.Header.Get("X-Request-ID")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, buf.String(), requestID)
	assert.Contains(t, buf.String(), "/ping")
}

// TestRateLimit verifies requests beyond the bucket size get a 429 with a
// Retry-After header, and that the rejection is logged.
func TestRateLimit(t *testing.T) {
	var buf bytes.Buffer
	sm := newTestSecurityMiddleware(&buf)

	limiter := security.NewRateLimiter(2, time.Hour)
	defer limiter.Stop()

	app := fiber.New()
	app.Use(sm.RateLimit(limiter, "/test"))
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	assert.Contains(t, buf.String(), string(security.EventRateLimited))
}

// TestSecureHeaders verifies the standard header set is present on
// responses.
func TestSecureHeaders(t *testing.T) {
	var buf bytes.Buffer
	sm := newTestSecurityMiddleware(&buf)

	app := fiber.New()
	app.Use(sm.SecureHeaders())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("Strict-Transport-Security"))
	assert.NotEmpty(t, resp.Header.Get("Permissions-Policy"))
}
