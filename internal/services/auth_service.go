// Package services provides the business logic layer for the reporter
// application. This file implements registration, login, and email
// verification, sitting between the HTTP handlers and the repositories.
package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bojo500/the-reporter/internal/mail"
	"github.com/bojo500/the-reporter/internal/models"
	"github.com/bojo500/the-reporter/internal/repository"
	"github.com/bojo500/the-reporter/internal/security"
)

// RequestMeta carries per-request actor context from the HTTP layer into
// service methods so security events can be attributed.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AuthService handles registration, credential checks, and email
// verification.
//
// Security Notes:
//   - Uses bcrypt with cost 12 for password hashing
//   - Constant-time password comparison prevents timing attacks
//   - Login failures return the same error for unknown email and wrong
//     password so callers cannot probe which accounts exist
type AuthService struct {
	userRepo  *repository.UserRepository
	tokens    *security.TokenManager
	validator *security.ValidationService
	mailer    mail.Sender
	logger    *security.Logger
	secConfig *security.SecurityConfig
	baseURL   string
}

// NewAuthService wires an AuthService from its collaborators. mailer may be
// nil in tests that never exercise registration mail.
func NewAuthService(tokens *security.TokenManager, mailer mail.Sender, logger *security.Logger, baseURL string) *AuthService {
	cfg := security.DefaultSecurityConfig()
	return &AuthService{
		userRepo:  repository.NewUserRepository(),
		tokens:    tokens,
		validator: security.NewValidationService(cfg),
		mailer:    mailer,
		logger:    logger,
		secConfig: cfg,
		baseURL:   baseURL,
	}
}

// Register creates an unverified account and dispatches the verification
// email. The user row is committed before mail is sent: if dispatch fails
// the account already exists and the caller gets a server error, which is
// logged as a mail dispatch failure so operators can re-trigger delivery.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest, meta RequestMeta) (*models.User, error) {
	if errs := s.validator.ValidateRegister(req); len(errs) > 0 {
		return nil, models.ErrBadRequest(errs.Error())
	}

	// Conflict check before hashing: bcrypt is deliberately slow and there
	// is no point paying for it on a duplicate email.
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, models.ErrConflict("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, models.ErrServer("Failed to check existing users")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.secConfig.BcryptCost)
	if err != nil {
		return nil, models.ErrServer("Failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsVerified:   false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.ErrServer("Failed to create user")
	}

	token, err := s.tokens.IssueVerification(user.Email)
	if err != nil {
		return nil, models.ErrServer("Failed to issue verification token")
	}

	if err := s.mailer.Send(ctx, user.Email, mail.VerificationSubject, mail.BuildVerificationEmail(s.baseURL, token)); err != nil {
		// The account row is already committed at this point. Surfacing a 500
		// while keeping the user matches the original flow; the event log is
		// what lets support re-send the link.
		s.logger.SecurityEvent(security.EventMailDispatchFail, &user.ID, user.Email, meta.IP, meta.UserAgent, map[string]interface{}{
			"error": err.Error(),
		})
		return nil, models.ErrServer("Failed to send verification email")
	}

	s.logger.SecurityEvent(security.EventRegistration, &user.ID, user.Email, meta.IP, meta.UserAgent, nil)
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Login verifies credentials and returns a session token plus the sanitized
// user record. Unknown email and wrong password produce the same 401.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, meta RequestMeta) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.logger.SecurityEvent(security.EventLoginFailure, nil, req.Email, meta.IP, meta.UserAgent, nil)
		return "", nil, models.ErrUnauthorized("Invalid credentials")
	}

	// bcrypt.CompareHashAndPassword is constant-time.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.SecurityEvent(security.EventLoginFailure, nil, req.Email, meta.IP, meta.UserAgent, nil)
		return "", nil, models.ErrUnauthorized("Invalid credentials")
	}

	token, err := s.tokens.IssueSession(user)
	if err != nil {
		return "", nil, models.ErrServer("Failed to issue session token")
	}

	s.logger.SecurityEvent(security.EventLoginSuccess, &user.ID, user.Email, meta.IP, meta.UserAgent, nil)
	sanitized := user.Sanitized()
	return token, &sanitized, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
// Verification is idempotent: a second valid click is a no-op success.
func (s *AuthService) VerifyEmail(ctx context.Context, token string, meta RequestMeta) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return models.ErrUnauthorized("Invalid or expired verification token")
	}

	user, err := s.userRepo.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.ErrBadRequest("User not found")
		}
		return models.ErrServer("Failed to look up user")
	}

	if err := s.userRepo.SetVerified(ctx, user.ID); err != nil {
		return models.ErrServer("Failed to verify email")
	}

	s.logger.SecurityEvent(security.EventEmailVerified, &user.ID, user.Email, meta.IP, meta.UserAgent, nil)
	return nil
}

// CheckAuth resolves the authenticated user for a validated session token.
// Used by GET /auth/check-auth to echo the current identity.
func (s *AuthService) CheckAuth(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.ErrUnauthorized(fmt.Sprintf("No user with id %d", userID))
		}
		return nil, models.ErrServer("Failed to look up user")
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}
