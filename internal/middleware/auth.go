// Package middleware provides HTTP middleware for authentication and
// request-level security concerns.
package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/security"
)

// AuthRequired ensures the request carries a valid Bearer session token.
// On success the authenticated identity is stored in context locals for
// downstream handlers.
//
// Context Locals Set:
//   - user_id: The authenticated user's ID (int)
//   - user_email: The email claim from the token (string)
func AuthRequired(tokens *security.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "Missing authorization header")
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return unauthorized(c, "Invalid authorization header")
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}

		userID, err := strconv.Atoi(claims.Subject)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}

		c.Locals("user_id", userID)
		c.Locals("user_email", claims.Email)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.Envelope{
		StatusCode: fiber.StatusUnauthorized,
		Message:    message,
	})
}
