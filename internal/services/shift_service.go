package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/repository"
	"github.com/bojo500/the-reporter/internal/security"
)

// ShiftService opens shifts and reads them back. Opening a shift also
// seeds a zero-initialized report row for the shift, mirroring the client
// flow where the submitted report arrives later as its own row.
type ShiftService struct {
	shiftRepo *repository.ShiftRepository
	ccsRepo   *repository.CCSRepository
	userRepo  *repository.UserRepository
	validator *security.ValidationService
	logger    *security.Logger
}

// NewShiftService returns a ShiftService wired to its repositories.
func NewShiftService(logger *security.Logger) *ShiftService {
	return &ShiftService{
		shiftRepo: repository.NewShiftRepository(),
		ccsRepo:   repository.NewCCSRepository(),
		userRepo:  repository.NewUserRepository(),
		validator: security.NewValidationService(nil),
		logger:    logger,
	}
}

// Create opens a shift and seeds its zero report. The two inserts are not
// wrapped in a transaction: the shift commit stands even when the seed
// insert fails, in which case the failure is logged and surfaced as a 500.
func (s *ShiftService) Create(ctx context.Context, req models.CreateShiftRequest, meta RequestMeta) (*models.Shift, error) {
	if errs := s.validator.ValidateCreateShift(req); len(errs) > 0 {
		return nil, models.ErrBadRequest(errs.Error())
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.ErrBadRequest(fmt.Sprintf("User %d not found", req.UserID))
		}
		return nil, models.ErrServer("Failed to look up user")
	}

	shift := &models.Shift{
		Shift:   req.Shift,
		Section: req.Section,
		UserID:  req.UserID,
	}
	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, models.ErrServer("Failed to create shift")
	}

	seed := &models.CCSReport{
		UserID:  req.UserID,
		ShiftID: shift.ID,
		Section: req.Section,
	}
	if err := s.ccsRepo.Create(ctx, seed); err != nil {
		s.logger.SecurityEvent(security.EventReportSeedFailed, &req.UserID, "", meta.IP, meta.UserAgent, map[string]interface{}{
			"shift_id": shift.ID,
			"error":    err.Error(),
		})
		return nil, models.ErrServer("Failed to seed shift report")
	}

	return shift, nil
}

// FindAll lists every shift with its owning user attached.
func (s *ShiftService) FindAll(ctx context.Context) ([]models.Shift, error) {
	shifts, err := s.shiftRepo.ListAll(ctx)
	if err != nil {
		return nil, models.ErrServer("Failed to list shifts")
	}
	return shifts, nil
}

// FindOne fetches one shift by id.
func (s *ShiftService) FindOne(ctx context.Context, id int) (*models.Shift, error) {
	shift, err := s.shiftRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.ErrNotFound(fmt.Sprintf("Shift %d not found", id))
		}
		return nil, models.ErrServer("Failed to look up shift")
	}
	return shift, nil
}

// FindByUser lists one user's shifts.
func (s *ShiftService) FindByUser(ctx context.Context, userID int) ([]models.Shift, error) {
	shifts, err := s.shiftRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.ErrServer("Failed to list shifts")
	}
	return shifts, nil
}
