package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/services"
)

// CCSHandler handles report requests, including the xlsx export. All
// routes sit behind AuthRequired.
type CCSHandler struct {
	ccsService    *services.CCSService
	exportService *services.ExportService
}

// NewCCSHandler creates a new instance of CCSHandler.
func NewCCSHandler(ccsService *services.CCSService, exportService *services.ExportService) *CCSHandler {
	return &CCSHandler{
		ccsService:    ccsService,
		exportService: exportService,
	}
}

// Create records a submitted report.
//
// Route: POST /ccs
func (h *CCSHandler) Create(c *fiber.Ctx) error {
	var req models.CreateCCSRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("Invalid request body")
	}

	report, err := h.ccsService.Create(c.Context(), req, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(models.Envelope{
		StatusCode: fiber.StatusCreated,
		Data:       report,
	})
}

// List returns every report.
//
// Route: GET /ccs
func (h *CCSHandler) List(c *fiber.Ctx) error {
	reports, err := h.ccsService.FindAll(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Data:       reports,
	})
}

// Export streams the full report table as an xlsx workbook.
// Registered before /:id so "export" never parses as a report id.
//
// Route: GET /ccs/export
func (h *CCSHandler) Export(c *fiber.Ctx) error {
	data, err := h.exportService.Workbook(c.Context())
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("reports-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

// Get returns one report by id.
//
// Route: GET /ccs/:id
func (h *CCSHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.ErrBadRequest("Invalid report id")
	}

	report, err := h.ccsService.FindOne(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Data:       report,
	})
}

// ListByUser returns one user's reports.
//
// Route: GET /ccs/user/:id
func (h *CCSHandler) ListByUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.ErrBadRequest("Invalid user id")
	}

	reports, err := h.ccsService.FindByUser(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(models.Envelope{
		StatusCode: fiber.StatusOK,
		Data:       reports,
	})
}
