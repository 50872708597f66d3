// Package services_test provides unit tests for the services layer.
// Tests run against a pgxmock pool so no database is required.
package services_test

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bojo500/the-reporter/internal/database"
	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/security"
	"github.com/bojo500/the-reporter/internal/services"
)

const testSecret = "test-secret-key-for-services"

// userRowColumns matches the canonical select list in user_repo.go.
var userRowColumns = []string{
	"id", "name", "first_name", "last_name", "email", "password_hash",
	"phone_number", "is_verified", "section", "created_at", "updated_at",
	"deleted_at",
}

// withMockDB swaps the global pool for a pgxmock pool for one test.
func withMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = mock
	t.Cleanup(func() {
		database.DB = oldDB
		mock.Close()
	})

	return mock
}

// capturedLogger returns a security logger writing into buf.
func capturedLogger(buf *bytes.Buffer) *security.Logger {
	logger := security.NewLogger()
	logger.SetOutput(log.New(buf, "", 0))
	return logger
}

// fakeSender records outgoing mail instead of calling a provider.
type fakeSender struct {
	sent []string // recipient per dispatched message
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func newTestTokens() *security.TokenManager {
	return security.NewTokenManager(testSecret, nil, 0)
}

func userRow(id int, email, hash string, verified bool) *pgxmock.Rows {
	now := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)
	return pgxmock.NewRows(userRowColumns).
		AddRow(id, "Test User", nil, nil, email, hash, nil, verified, nil, now, now, nil)
}

// TestAuthService_Register_CreatesOneUserAndOneMail verifies the happy path:
// exactly one insert and exactly one verification mail.
func TestAuthService_Register_CreatesOneUserAndOneMail(t *testing.T) {
	mock := withMockDB(t)
	now := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("new@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("New User", nil, nil, "new@example.com", pgxmock.AnyArg(), nil, nil).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(1, now, now))

	sender := &fakeSender{}
	var buf bytes.Buffer
	svc := services.NewAuthService(newTestTokens(), sender, capturedLogger(&buf), "http://localhost:3000")

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "Secur3Pass!",
	}, services.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.False(t, user.IsVerified)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, []string{"new@example.com"}, sender.sent)
	assert.Contains(t, buf.String(), string(security.EventRegistration))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestAuthService_Register_DuplicateEmail verifies a taken email returns 409
// without a second insert or any mail.
func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("taken@example.com").
		WillReturnRows(userRow(1, "taken@example.com", "hash", true))

	sender := &fakeSender{}
	var buf bytes.Buffer
	svc := services.NewAuthService(newTestTokens(), sender, capturedLogger(&buf), "http://localhost:3000")

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Someone Else",
		Email:    "taken@example.com",
		Password: "Secur3Pass!",
	}, services.RequestMeta{})

	require.Nil(t, user)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
	assert.Empty(t, sender.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestAuthService_Register_MailFailure verifies that a dispatch failure
// surfaces as a 500 after the account row is already committed, and that the
// failure lands in the security log.
func TestAuthService_Register_MailFailure(t *testing.T) {
	mock := withMockDB(t)
	now := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("new@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("New User", nil, nil, "new@example.com", pgxmock.AnyArg(), nil, nil).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(1, now, now))

	sender := &fakeSender{err: assert.AnError}
	var buf bytes.Buffer
	svc := services.NewAuthService(newTestTokens(), sender, capturedLogger(&buf), "http://localhost:3000")

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "Secur3Pass!",
	}, services.RequestMeta{})

	require.Nil(t, user)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.StatusCode)
	assert.Contains(t, buf.String(), string(security.EventMailDispatchFail))
	// The insert expectation was consumed: the user exists despite the 500.
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestAuthService_Login verifies credential checks and the issued token's
// identity claims.
func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Secur3Pass!"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		mock := withMockDB(t)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("user@example.com").
			WillReturnRows(userRow(7, "user@example.com", string(hash), true))

		var buf bytes.Buffer
		svc := services.NewAuthService(newTestTokens(), &fakeSender{}, capturedLogger(&buf), "")

		token, user, err := svc.Login(context.Background(), models.LoginRequest{
			Email:    "user@example.com",
			Password: "Secur3Pass!",
		}, services.RequestMeta{})

		require.NoError(t, err)
		assert.Empty(t, user.PasswordHash)

		claims, err := newTestTokens().Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", claims.Email)
		assert.Equal(t, "7", claims.Subject)
		assert.Contains(t, buf.String(), string(security.EventLoginSuccess))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong password", func(t *testing.T) {
		mock := withMockDB(t)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("user@example.com").
			WillReturnRows(userRow(7, "user@example.com", string(hash), true))

		var buf bytes.Buffer
		svc := services.NewAuthService(newTestTokens(), &fakeSender{}, capturedLogger(&buf), "")

		token, user, err := svc.Login(context.Background(), models.LoginRequest{
			Email:    "user@example.com",
			Password: "WrongPass1!",
		}, services.RequestMeta{})

		assert.Empty(t, token)
		assert.Nil(t, user)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 401, appErr.StatusCode)
		assert.Contains(t, buf.String(), string(security.EventLoginFailure))
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		mock := withMockDB(t)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		var buf bytes.Buffer
		svc := services.NewAuthService(newTestTokens(), &fakeSender{}, capturedLogger(&buf), "")

		_, _, err := svc.Login(context.Background(), models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "Secur3Pass!",
		}, services.RequestMeta{})

		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 401, appErr.StatusCode)
		assert.Equal(t, "Invalid credentials", appErr.Message)
	})
}

// TestAuthService_VerifyEmail covers the token consumption paths.
func TestAuthService_VerifyEmail(t *testing.T) {
	t.Run("valid token marks verified", func(t *testing.T) {
		mock := withMockDB(t)

		token, err := newTestTokens().IssueVerification("user@example.com")
		require.NoError(t, err)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("user@example.com").
			WillReturnRows(userRow(7, "user@example.com", "hash", false))
		mock.ExpectExec("UPDATE users SET is_verified").
			WithArgs(7).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		var buf bytes.Buffer
		svc := services.NewAuthService(newTestTokens(), &fakeSender{}, capturedLogger(&buf), "")

		require.NoError(t, svc.VerifyEmail(context.Background(), token, services.RequestMeta{}))
		assert.Contains(t, buf.String(), string(security.EventEmailVerified))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("tampered token is rejected with no mutation", func(t *testing.T) {
		mock := withMockDB(t)

		token, err := security.NewTokenManager("different-secret", nil, 0).
			IssueVerification("user@example.com")
		require.NoError(t, err)

		var buf bytes.Buffer
		svc := services.NewAuthService(newTestTokens(), &fakeSender{}, capturedLogger(&buf), "")

		err = svc.VerifyEmail(context.Background(), token, services.RequestMeta{})

		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 401, appErr.StatusCode)
		// No queries were expected and none were made.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("token for a deleted account", func(t *testing.T) {
		mock := withMockDB(t)

		token, err := newTestTokens().IssueVerification("gone@example.com")
		require.NoError(t, err)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("gone@example.com").
			WillReturnError(pgx.ErrNoRows)

		var buf bytes.Buffer
		svc := services.NewAuthService(newTestTokens(), &fakeSender{}, capturedLogger(&buf), "")

		err = svc.VerifyEmail(context.Background(), token, services.RequestMeta{})

		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.StatusCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestAuthService_CheckAuth verifies identity echo for a session's user id.
func TestAuthService_CheckAuth(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(7).
		WillReturnRows(userRow(7, "user@example.com", "hash", true))

	var buf bytes.Buffer
	svc := services.NewAuthService(newTestTokens(), &fakeSender{}, capturedLogger(&buf), "")

	user, err := svc.CheckAuth(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}
