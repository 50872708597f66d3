package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/security"
	"github.com/bojo500/the-reporter/internal/services"
)

// TestShiftService_Create verifies opening a shift writes exactly one shift
// row plus one zero-initialized report row.
func TestShiftService_Create(t *testing.T) {
	mock := withMockDB(t)
	now := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(7).
		WillReturnRows(userRow(7, "user@example.com", "hash", true))
	mock.ExpectQuery("INSERT INTO shifts").
		WithArgs("1st", "CCS", 7).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(3, now, now))
	mock.ExpectQuery("INSERT INTO ccs_reports").
		WithArgs(7, 3, "CCS",
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(10, now, now))

	var buf bytes.Buffer
	svc := services.NewShiftService(capturedLogger(&buf))

	shift, err := svc.Create(context.Background(), models.CreateShiftRequest{
		Shift:   models.ShiftFirst,
		Section: models.SectionCCS,
		UserID:  7,
	}, services.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, 3, shift.ID)
	assert.Equal(t, models.ShiftFirst, shift.Shift)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestShiftService_Create_SeedFailure verifies that when the seed insert
// fails the shift row stays committed, the failure is logged, and the caller
// sees a server error.
func TestShiftService_Create_SeedFailure(t *testing.T) {
	mock := withMockDB(t)
	now := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(7).
		WillReturnRows(userRow(7, "user@example.com", "hash", true))
	mock.ExpectQuery("INSERT INTO shifts").
		WithArgs("2nd", "CCS", 7).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(4, now, now))
	mock.ExpectQuery("INSERT INTO ccs_reports").
		WithArgs(7, 4, "CCS",
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0).
		WillReturnError(assert.AnError)

	var buf bytes.Buffer
	svc := services.NewShiftService(capturedLogger(&buf))

	shift, err := svc.Create(context.Background(), models.CreateShiftRequest{
		Shift:   models.ShiftSecond,
		Section: models.SectionCCS,
		UserID:  7,
	}, services.RequestMeta{})

	require.Nil(t, shift)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.StatusCode)
	assert.Contains(t, buf.String(), string(security.EventReportSeedFailed))
	// All three expectations consumed: the shift insert happened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestShiftService_Create_UnknownUser verifies the owner check.
func TestShiftService_Create_UnknownUser(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(404).
		WillReturnError(pgx.ErrNoRows)

	var buf bytes.Buffer
	svc := services.NewShiftService(capturedLogger(&buf))

	shift, err := svc.Create(context.Background(), models.CreateShiftRequest{
		Shift:   models.ShiftThird,
		Section: models.SectionProduction,
		UserID:  404,
	}, services.RequestMeta{})

	require.Nil(t, shift)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestShiftService_Create_InvalidPeriod verifies enum validation happens
// before any query.
func TestShiftService_Create_InvalidPeriod(t *testing.T) {
	mock := withMockDB(t)

	var buf bytes.Buffer
	svc := services.NewShiftService(capturedLogger(&buf))

	shift, err := svc.Create(context.Background(), models.CreateShiftRequest{
		Shift:   "4th",
		Section: models.SectionCCS,
		UserID:  7,
	}, services.RequestMeta{})

	require.Nil(t, shift)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestShiftService_FindOne covers lookup and the 404 translation.
func TestShiftService_FindOne(t *testing.T) {
	now := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)

	t.Run("existing shift", func(t *testing.T) {
		mock := withMockDB(t)

		mock.ExpectQuery("FROM shifts WHERE id").
			WithArgs(3).
			WillReturnRows(pgxmock.NewRows([]string{"id", "shift", "section", "user_id", "created_at", "updated_at"}).
				AddRow(3, "1st", "CCS", 7, now, now))

		var buf bytes.Buffer
		svc := services.NewShiftService(capturedLogger(&buf))

		shift, err := svc.FindOne(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, models.SectionCCS, shift.Section)
	})

	t.Run("missing shift", func(t *testing.T) {
		mock := withMockDB(t)

		mock.ExpectQuery("FROM shifts WHERE id").
			WithArgs(404).
			WillReturnError(pgx.ErrNoRows)

		var buf bytes.Buffer
		svc := services.NewShiftService(capturedLogger(&buf))

		shift, err := svc.FindOne(context.Background(), 404)

		require.Nil(t, shift)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
	})
}
