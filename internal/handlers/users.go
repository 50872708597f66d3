package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/services"
)

// UserHandler handles user CRUD requests. All routes sit behind
// AuthRequired.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create adds a user directly without the verification flow.
//
// Route: POST /users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("Invalid request body")
	}

	user, err := h.userService.Create(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(models.Envelope{
		StatusCode: fiber.StatusCreated,
		Data:       user,
	})
}

// List returns every user.
//
// Route: GET /users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.FindAll(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Data:       users,
	})
}

// Get returns one user by id.
//
// Route: GET /users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.ErrBadRequest("Invalid user id")
	}

	user, err := h.userService.FindOne(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Data:       user,
	})
}

// Update applies a partial profile update. Passwords in the payload are
// ignored.
//
// Route: PATCH /users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.ErrBadRequest("Invalid user id")
	}

	var req models.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("Invalid request body")
	}

	user, err := h.userService.Update(c.Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Data:       user,
	})
}

// phoneUpdateRequest is the PATCH /users/:id/phone payload.
type phoneUpdateRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// UpdatePhone sets just the phone number.
//
// Route: PATCH /users/:id/phone
func (h *UserHandler) UpdatePhone(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.ErrBadRequest("Invalid user id")
	}

	var req phoneUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("Invalid request body")
	}

	if err := h.userService.UpdatePhoneNumber(c.Context(), id, req.PhoneNumber); err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Message:    "Phone number updated",
	})
}

// Delete removes a user and, through the schema's cascades, their shifts
// and reports.
//
// Route: DELETE /users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.ErrBadRequest("Invalid user id")
	}

	if err := h.userService.Remove(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Message:    "User deleted",
	})
}
