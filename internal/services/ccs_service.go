package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/repository"
	"github.com/bojo500/the-reporter/internal/security"
)

// CCSService records and reads shift reports. A submission lands as its own
// row even when the shift already has its seed row, so a completed shift
// normally shows two rows; the duplicate is logged, not rejected.
type CCSService struct {
	ccsRepo   *repository.CCSRepository
	shiftRepo *repository.ShiftRepository
	validator *security.ValidationService
	logger    *security.Logger
}

// NewCCSService returns a CCSService wired to its repositories.
func NewCCSService(logger *security.Logger) *CCSService {
	return &CCSService{
		ccsRepo:   repository.NewCCSRepository(),
		shiftRepo: repository.NewShiftRepository(),
		validator: security.NewValidationService(nil),
		logger:    logger,
	}
}

// Create validates and inserts a submitted report.
func (s *CCSService) Create(ctx context.Context, req models.CreateCCSRequest, meta RequestMeta) (*models.CCSReport, error) {
	if errs := s.validator.ValidateCreateCCS(req); len(errs) > 0 {
		return nil, models.ErrBadRequest(errs.Error())
	}

	if _, err := s.shiftRepo.FindByID(ctx, req.ShiftID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.ErrBadRequest(fmt.Sprintf("Shift %d not found", req.ShiftID))
		}
		return nil, models.ErrServer("Failed to look up shift")
	}

	existing, err := s.ccsRepo.CountByShift(ctx, req.ShiftID)
	if err != nil {
		return nil, models.ErrServer("Failed to check shift reports")
	}
	if existing > 0 {
		s.logger.SecurityEvent(security.EventReportDuplicate, &req.UserID, "", meta.IP, meta.UserAgent, map[string]interface{}{
			"shift_id":      req.ShiftID,
			"existing_rows": existing,
		})
	}

	report := &models.CCSReport{
		UserID:     req.UserID,
		ShiftID:    req.ShiftID,
		Section:    req.Section,
		CCSMetrics: req.CCSMetrics,
	}
	if err := s.ccsRepo.Create(ctx, report); err != nil {
		return nil, models.ErrServer("Failed to create report")
	}
	return report, nil
}

// FindAll lists every report.
func (s *CCSService) FindAll(ctx context.Context) ([]models.CCSReport, error) {
	reports, err := s.ccsRepo.ListAll(ctx)
	if err != nil {
		return nil, models.ErrServer("Failed to list reports")
	}
	return reports, nil
}

// FindOne fetches one report by id.
func (s *CCSService) FindOne(ctx context.Context, id int) (*models.CCSReport, error) {
	report, err := s.ccsRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.ErrNotFound(fmt.Sprintf("Report %d not found", id))
		}
		return nil, models.ErrServer("Failed to look up report")
	}
	return report, nil
}

// FindByUser lists one user's reports.
func (s *CCSService) FindByUser(ctx context.Context, userID int) ([]models.CCSReport, error) {
	reports, err := s.ccsRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.ErrServer("Failed to list reports")
	}
	return reports, nil
}
