package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/security"
	"github.com/bojo500/the-reporter/internal/services"
)

func shiftRow(id, userID int) *pgxmock.Rows {
	now := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)
	return pgxmock.NewRows([]string{"id", "shift", "section", "user_id", "created_at", "updated_at"}).
		AddRow(id, "1st", "CCS", userID, now, now)
}

// TestCCSService_Create_SecondRowForShift verifies the submission flow: the
// shift already carries its seed row, the duplicate is logged, and the
// submitted row is still inserted. A completed shift therefore has two rows.
func TestCCSService_Create_SecondRowForShift(t *testing.T) {
	mock := withMockDB(t)
	now := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM shifts WHERE id").
		WithArgs(3).
		WillReturnRows(shiftRow(3, 7))
	mock.ExpectQuery("SELECT COUNT(.+) FROM ccs_reports WHERE shift_id").
		WithArgs(3).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO ccs_reports").
		WithArgs(7, 3, "CCS",
			5, 3, 2, 4, 6, 1, 1, 8, 7, 15, 9, 2, 30, 11, 1, 1, 4).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(11, now, now))

	var buf bytes.Buffer
	svc := services.NewCCSService(capturedLogger(&buf))

	report, err := svc.Create(context.Background(), models.CreateCCSRequest{
		Section: models.SectionCCS,
		ShiftID: 3,
		UserID:  7,
		CCSMetrics: models.CCSMetrics{
			BafIn: 5, BafOut: 3, CrmIn: 2, CrmOut: 4, ShippedOut: 6,
			TuggerIn: 1, TuggerOff: 1, TotalTrucksIn: 8, TotalTrucksOut: 7,
			TotalMovements: 15, TotalTrucks: 9, Hook: 2, DownTime: 30,
			MovedOfShipping: 11, SlitterOn: 1, SlitterOff: 1, CoilsHatted: 4,
		},
	}, services.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, 11, report.ID)
	assert.Contains(t, buf.String(), string(security.EventReportDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCCSService_Create_FirstRow verifies no duplicate event fires when the
// shift has no rows yet.
func TestCCSService_Create_FirstRow(t *testing.T) {
	mock := withMockDB(t)
	now := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM shifts WHERE id").
		WithArgs(5).
		WillReturnRows(shiftRow(5, 7))
	mock.ExpectQuery("SELECT COUNT(.+) FROM ccs_reports WHERE shift_id").
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO ccs_reports").
		WithArgs(7, 5, "CCS",
			1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(12, now, now))

	var buf bytes.Buffer
	svc := services.NewCCSService(capturedLogger(&buf))

	report, err := svc.Create(context.Background(), models.CreateCCSRequest{
		Section:    models.SectionCCS,
		ShiftID:    5,
		UserID:     7,
		CCSMetrics: models.CCSMetrics{BafIn: 1},
	}, services.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, 12, report.ID)
	assert.NotContains(t, buf.String(), string(security.EventReportDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCCSService_Create_NegativeMetric verifies metric validation rejects the
// payload before any query.
func TestCCSService_Create_NegativeMetric(t *testing.T) {
	mock := withMockDB(t)

	var buf bytes.Buffer
	svc := services.NewCCSService(capturedLogger(&buf))

	report, err := svc.Create(context.Background(), models.CreateCCSRequest{
		Section:    models.SectionCCS,
		ShiftID:    3,
		UserID:     7,
		CCSMetrics: models.CCSMetrics{DownTime: -1},
	}, services.RequestMeta{})

	require.Nil(t, report)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "downTime")
	assert.NoError(t, mock.ExpectationsWereMet())
}
