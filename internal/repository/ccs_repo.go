// Package repository implements the database access layer for The Reporter.
// This file handles CCS report rows: the zero-initialized seed created with
// each shift and the filled rows the client submits.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bojo500/the-reporter/internal/database"
	"github.com/bojo500/the-reporter/internal/models"
	"github.com/jackc/pgx/v5"
)

// metricColumns lists the 17 counter columns in canonical order.
const metricColumns = `baf_in, baf_out, crm_in, crm_out, shipped_out,
	tugger_in, tugger_off, total_trucks_in, total_trucks_out,
	total_movements, total_trucks, hook, down_time, moved_of_shipping,
	slitter_on, slitter_off, coils_hatted`

// CCSRepository handles CCS report database operations.
type CCSRepository struct{}

// NewCCSRepository creates a new instance of CCSRepository.
func NewCCSRepository() *CCSRepository {
	return &CCSRepository{}
}

// metricArgs returns the metric values in metricColumns order.
func metricArgs(m models.CCSMetrics) []interface{} {
	values := m.Values()
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// scanReport reads one report row in the canonical column order:
// id, user_id, shift_id, section, the 17 metrics, created_at, updated_at.
func scanReport(row pgx.Row) (*models.CCSReport, error) {
	var report models.CCSReport
	m := &report.CCSMetrics

	err := row.Scan(
		&report.ID, &report.UserID, &report.ShiftID, &report.Section,
		&m.BafIn, &m.BafOut, &m.CrmIn, &m.CrmOut, &m.ShippedOut,
		&m.TuggerIn, &m.TuggerOff, &m.TotalTrucksIn, &m.TotalTrucksOut,
		&m.TotalMovements, &m.TotalTrucks, &m.Hook, &m.DownTime,
		&m.MovedOfShipping, &m.SlitterOn, &m.SlitterOff, &m.CoilsHatted,
		&report.CreatedAt, &report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// Create inserts a report row (seed or submission) and populates ID and
// timestamps.
func (r *CCSRepository) Create(ctx context.Context, report *models.CCSReport) error {
	query := fmt.Sprintf(`
		INSERT INTO ccs_reports (user_id, shift_id, section, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at
	`, metricColumns)

	args := append(
		[]interface{}{report.UserID, report.ShiftID, string(report.Section)},
		metricArgs(report.CCSMetrics)...,
	)

	return database.DB.QueryRow(ctx, query, args...).
		Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

// FindByID retrieves one report by primary key.
func (r *CCSRepository) FindByID(ctx context.Context, id int) (*models.CCSReport, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, shift_id, section, %s, created_at, updated_at
		FROM ccs_reports
		WHERE id = $1
	`, metricColumns)

	report, err := scanReport(database.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return report, nil
}

// ListAll retrieves every report, newest first.
func (r *CCSRepository) ListAll(ctx context.Context) ([]models.CCSReport, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, shift_id, section, %s, created_at, updated_at
		FROM ccs_reports
		ORDER BY created_at DESC
	`, metricColumns)

	return r.list(ctx, query)
}

// ListByUser retrieves the reports submitted by one user, newest first.
func (r *CCSRepository) ListByUser(ctx context.Context, userID int) ([]models.CCSReport, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, shift_id, section, %s, created_at, updated_at
		FROM ccs_reports
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, metricColumns)

	return r.list(ctx, query, userID)
}

func (r *CCSRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.CCSReport, error) {
	rows, err := database.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.CCSReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	return reports, rows.Err()
}

// CountByShift returns how many report rows reference one shift.
// Used only to detect and log the duplicate-row pattern the current client
// flow produces; nothing enforces a limit.
func (r *CCSRepository) CountByShift(ctx context.Context, shiftID int) (int, error) {
	query := `SELECT COUNT(*) FROM ccs_reports WHERE shift_id = $1`

	var count int
	err := database.DB.QueryRow(ctx, query, shiftID).Scan(&count)
	return count, err
}
