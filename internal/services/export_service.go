package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/repository"
	"github.com/bojo500/the-reporter/internal/security"
)

// ExportSheetName is the single worksheet carrying report rows.
const ExportSheetName = "Reports"

// ExportService renders the report table as an xlsx workbook for download.
type ExportService struct {
	ccsRepo   *repository.CCSRepository
	secConfig *security.SecurityConfig
}

// NewExportService returns an ExportService with default limits.
func NewExportService() *ExportService {
	return &ExportService{
		ccsRepo:   repository.NewCCSRepository(),
		secConfig: security.DefaultSecurityConfig(),
	}
}

// exportHeader is the first row: identity columns followed by the metric
// columns in their canonical order.
func exportHeader() []interface{} {
	header := []interface{}{"ID", "User ID", "Shift ID", "Section"}
	for _, name := range models.MetricFieldNames {
		header = append(header, name)
	}
	return append(header, "Created")
}

// Workbook builds the export for all reports and returns the encoded file.
func (s *ExportService) Workbook(ctx context.Context) ([]byte, error) {
	reports, err := s.ccsRepo.ListAll(ctx)
	if err != nil {
		return nil, models.ErrServer("Failed to list reports")
	}
	if len(reports) > s.secConfig.MaxExportRows {
		return nil, models.ErrBadRequest(fmt.Sprintf("Export limited to %d rows", s.secConfig.MaxExportRows))
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ExportSheetName)
	if err != nil {
		return nil, models.ErrServer("Failed to build workbook")
	}
	f.SetActiveSheet(index)
	// Drop the default sheet so the workbook opens on the report table.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, models.ErrServer("Failed to build workbook")
	}

	header := exportHeader()
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return nil, models.ErrServer("Failed to build workbook")
	}

	for i, report := range reports {
		row := []interface{}{report.ID, report.UserID, report.ShiftID, string(report.Section)}
		for _, v := range report.Values() {
			row = append(row, v)
		}
		row = append(row, report.CreatedAt.Format("2006-01-02 15:04:05"))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, models.ErrServer("Failed to build workbook")
		}
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			return nil, models.ErrServer("Failed to build workbook")
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, models.ErrServer("Failed to encode workbook")
	}
	return buf.Bytes(), nil
}
