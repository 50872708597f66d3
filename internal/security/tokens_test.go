// Package security provides tests for token issuance and verification.
package security

import (
	"strings"
	"testing"
	"time"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTokenManager_SessionRoundTrip verifies a login token decodes back to
// the issuing user's email and id.
func TestTokenManager_SessionRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", DefaultSecurityConfig(), 0)

	user := &models.User{ID: 42, Email: "mohamed@example.com"}
	token, err := tm.IssueSession(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "mohamed@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID, "session tokens carry a jti")
}

// TestTokenManager_SessionTTL verifies the configured lifetime is applied.
func TestTokenManager_SessionTTL(t *testing.T) {
	tm := NewTokenManager("test-secret", DefaultSecurityConfig(), 2*time.Hour)

	token, err := tm.IssueSession(&models.User{ID: 1, Email: "a@b.co"})
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, (2 * time.Hour).Seconds(), remaining.Seconds(), 60)
}

// TestTokenManager_VerificationExpiry verifies verification tokens carry the
// fixed one-hour lifetime and no subject.
func TestTokenManager_VerificationExpiry(t *testing.T) {
	tm := NewTokenManager("test-secret", DefaultSecurityConfig(), 0)

	token, err := tm.IssueVerification("new@example.com")
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", claims.Email)
	assert.Empty(t, claims.Subject)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, time.Hour.Seconds(), remaining.Seconds(), 60)
}

// TestTokenManager_Expired verifies an expired token is rejected with an
// Unauthorized error and no claims.
func TestTokenManager_Expired(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.VerificationTokenTTL = -time.Minute // already expired at issue time
	tm := NewTokenManager("test-secret", cfg, 0)

	token, err := tm.IssueVerification("old@example.com")
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	assert.Nil(t, claims)
	require.Error(t, err)

	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)
}

// TestTokenManager_Tampered verifies signature validation.
func TestTokenManager_Tampered(t *testing.T) {
	tm := NewTokenManager("test-secret", DefaultSecurityConfig(), 0)

	token, err := tm.IssueSession(&models.User{ID: 1, Email: "a@b.co"})
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, err := tm.Verify(tampered)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

// TestTokenManager_WrongSecret verifies tokens signed under another key fail.
func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", DefaultSecurityConfig(), 0)
	verifier := NewTokenManager("secret-two", DefaultSecurityConfig(), 0)

	token, err := issuer.IssueSession(&models.User{ID: 1, Email: "a@b.co"})
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

// TestTokenManager_Garbage verifies non-token input fails cleanly.
func TestTokenManager_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", DefaultSecurityConfig(), 0)

	for _, input := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		claims, err := tm.Verify(input)
		assert.Nil(t, claims, "input %q", input)
		assert.Error(t, err, "input %q", input)
	}
}
