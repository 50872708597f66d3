// Package security provides signed token issuance and verification.
// Two token kinds exist: session tokens carrying {email, sub} issued at
// login, and short-lived verification tokens carrying only the email,
// embedded in verification links.
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/bojo500/the-reporter/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the payload embedded in every signed token.
// Sub is zero for verification tokens, which identify only an email.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secret          []byte
	sessionTTL      time.Duration
	verificationTTL time.Duration
}

// NewTokenManager creates a token manager. A zero sessionTTL falls back to
// the security config default; the verification TTL is always taken from
// config (fixed one hour by default).
func NewTokenManager(secret string, cfg *SecurityConfig, sessionTTL time.Duration) *TokenManager {
	if cfg == nil {
		cfg = DefaultSecurityConfig()
	}
	if sessionTTL <= 0 {
		sessionTTL = cfg.SessionTokenTTL
	}
	return &TokenManager{
		secret:          []byte(secret),
		sessionTTL:      sessionTTL,
		verificationTTL: cfg.VerificationTokenTTL,
	}
}

// IssueSession signs a session token for an authenticated user.
// The subject claim carries the user id, matching the {email, sub}
// payload the client already decodes.
func (tm *TokenManager) IssueSession(user *models.User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.sessionTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// IssueVerification signs a short-lived token proving control of an email
// address. Expires after the configured verification TTL (one hour).
func (tm *TokenManager) IssueVerification(email string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.verificationTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify parses and validates a token, returning its claims.
// Any failure (bad signature, expiry, wrong algorithm, garbage input)
// yields an Unauthorized error; the caller never learns which.
func (tm *TokenManager) Verify(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrUnauthorized("Invalid or expired verification token")
		}
		return nil, models.ErrUnauthorized("Invalid token")
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized("Invalid token")
	}

	return claims, nil
}
