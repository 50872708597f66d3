package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/services"
)

// ShiftHandler handles shift requests. All routes sit behind AuthRequired.
type ShiftHandler struct {
	shiftService *services.ShiftService
}

// NewShiftHandler creates a new instance of ShiftHandler.
func NewShiftHandler(shiftService *services.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// Create opens a shift (and seeds its zero report row).
//
// Route: POST /shifts
func (h *ShiftHandler) Create(c *fiber.Ctx) error {
	var req models.CreateShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("Invalid request body")
	}

	shift, err := h.shiftService.Create(c.Context(), req, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(models.Envelope{
		StatusCode: fiber.StatusCreated,
		Data:       shift,
	})
}

// List returns every shift with its owning user attached.
//
// Route: GET /shifts
func (h *ShiftHandler) List(c *fiber.Ctx) error {
	shifts, err := h.shiftService.FindAll(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Data:       shifts,
	})
}

// Get returns one shift by id.
//
// Route: GET /shifts/:id
func (h *ShiftHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.ErrBadRequest("Invalid shift id")
	}

	shift, err := h.shiftService.FindOne(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Data:       shift,
	})
}

// ListByUser returns one user's shifts.
//
// Route: GET /shifts/user/:id
func (h *ShiftHandler) ListByUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.ErrBadRequest("Invalid user id")
	}

	shifts, err := h.shiftService.FindByUser(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Data:       shifts,
	})
}
