// Package handlers implements HTTP request handlers for The Reporter.
// This file handles registration, login, email verification, and the
// authenticated identity echo.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/services"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func requestMeta(c *fiber.Ctx) services.RequestMeta {
	return services.RequestMeta{
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
}

// Register creates an unverified account and sends the verification mail.
//
// Route: POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("Invalid request body")
	}

	user, err := h.authService.Register(c.Context(), req, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(models.Envelope{
		StatusCode: fiber.StatusCreated,
		Message:    "User registered successfully. Please check your email to verify your account.",
		Data:       user,
	})
}

// loginResponse is flat on purpose: the client reads the token and the user
// fields from the top level of the body.
type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	models.User
}

// Login verifies credentials and returns a session token.
//
// Route: POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("Invalid request body")
	}

	token, user, err := h.authService.Login(c.Context(), req, requestMeta(c))
	if err != nil {
		return err
	}

	return c.JSON(loginResponse{
		Message: "Login successful",
		Token:   token,
		User:    *user,
	})
}

// VerifyEmail consumes the token from the mailed link.
//
// Route: GET /auth/verify-email?token=...
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return models.ErrBadRequest("Missing verification token")
	}

	if err := h.authService.VerifyEmail(c.Context(), token, requestMeta(c)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CheckAuth echoes the identity behind the presented session token.
//
// Route: GET /auth/check-auth (requires AuthRequired)
func (h *AuthHandler) CheckAuth(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(int)
	if !ok {
		return models.ErrUnauthorized("Not authenticated")
	}

	user, err := h.authService.CheckAuth(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Data:       user,
	})
}
