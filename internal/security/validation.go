// Package security provides input validation functionality.
// Validation runs at the HTTP boundary before any domain logic and returns
// field-level errors that are safe to show to users.
package security

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bojo500/the-reporter/internal/models"
)

// FieldErrors maps field names to validation messages.
// A nil or empty FieldErrors means the input passed.
type FieldErrors map[string]string

// Error implements the error interface, joining messages deterministically
// enough for logging. Handlers render the map itself as JSON.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// ValidationService provides centralized input validation functions.
// All validation methods return descriptive errors that are safe to show to users.
type ValidationService struct {
	config *SecurityConfig
}

// NewValidationService creates a new validation service with security configuration.
func NewValidationService(config *SecurityConfig) *ValidationService {
	if config == nil {
		config = DefaultSecurityConfig()
	}
	return &ValidationService{
		config: config,
	}
}

// ValidateEmail validates email address format according to RFC 5322.
// Returns error if email is invalid or too long.
func (v *ValidationService) ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if len(email) > v.config.MaxEmailLength {
		return fmt.Errorf("email must be less than %d characters", v.config.MaxEmailLength)
	}

	// Use Go's standard mail.ParseAddress for RFC 5322 compliance
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// ValidatePassword validates password meets minimum security requirements.
// Requirements: 8-128 characters, at least one uppercase letter, one
// lowercase letter, one number, and one special character.
func (v *ValidationService) ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}

	if len(password) < v.config.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", v.config.MinPasswordLength)
	}

	if len(password) > v.config.MaxPasswordLength {
		return fmt.Errorf("password must be less than %d characters", v.config.MaxPasswordLength)
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[^A-Za-z0-9]`).MatchString(password)

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}

	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}

	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}

// ValidateName validates a user display name (2-100 characters).
func (v *ValidationService) ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}

	length := utf8.RuneCountInString(name)
	if length < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	if length > v.config.MaxNameLength {
		return fmt.Errorf("name must be %d characters or less", v.config.MaxNameLength)
	}

	return nil
}

// phoneRe accepts E.164-style numbers with an optional leading plus.
var phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// ValidatePhoneNumber validates an optional phone number field.
func (v *ValidationService) ValidatePhoneNumber(phone string) error {
	if phone == "" {
		return nil // optional
	}

	if !phoneRe.MatchString(phone) {
		return fmt.Errorf("invalid phone number format")
	}

	return nil
}

// ValidateShiftPeriod validates the shift label is one of the three slots.
func (v *ValidationService) ValidateShiftPeriod(period models.ShiftPeriod) error {
	if period == "" {
		return fmt.Errorf("shift is required")
	}

	if !period.Valid() {
		return fmt.Errorf("invalid shift (must be '1st', '2nd' or '3rd')")
	}

	return nil
}

// ValidateSection validates the department tag.
func (v *ValidationService) ValidateSection(section models.Section) error {
	if section == "" {
		return fmt.Errorf("section is required")
	}

	if !section.Valid() {
		return fmt.Errorf("invalid section")
	}

	return nil
}

// ValidateMetrics validates the 17 report counters: each must be a
// non-negative integer below the configured ceiling.
func (v *ValidationService) ValidateMetrics(m models.CCSMetrics) FieldErrors {
	errs := FieldErrors{}

	for i, value := range m.Values() {
		name := models.MetricFieldNames[i]
		if value < 0 {
			errs[name] = "must not be negative"
			continue
		}
		if value > v.config.MaxMetricValue {
			errs[name] = fmt.Sprintf("must be %d or less", v.config.MaxMetricValue)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateRegister runs all registration checks and collects field errors.
func (v *ValidationService) ValidateRegister(req models.RegisterRequest) FieldErrors {
	errs := FieldErrors{}

	if err := v.ValidateName(req.Name); err != nil {
		errs["name"] = err.Error()
	}
	if err := v.ValidateEmail(req.Email); err != nil {
		errs["email"] = err.Error()
	}
	if err := v.ValidatePassword(req.Password); err != nil {
		errs["password"] = err.Error()
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateCreateShift checks the shift creation payload.
func (v *ValidationService) ValidateCreateShift(req models.CreateShiftRequest) FieldErrors {
	errs := FieldErrors{}

	if err := v.ValidateShiftPeriod(req.Shift); err != nil {
		errs["shift"] = err.Error()
	}
	if err := v.ValidateSection(req.Section); err != nil {
		errs["section"] = err.Error()
	}
	if req.UserID <= 0 {
		errs["userId"] = "userId is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateCreateCCS checks the report submission payload.
func (v *ValidationService) ValidateCreateCCS(req models.CreateCCSRequest) FieldErrors {
	errs := FieldErrors{}

	if err := v.ValidateSection(req.Section); err != nil {
		errs["section"] = err.Error()
	}
	if req.ShiftID <= 0 {
		errs["shiftId"] = "shiftId is required"
	}
	if req.UserID <= 0 {
		errs["userId"] = "userId is required"
	}
	for field, msg := range v.ValidateMetrics(req.CCSMetrics) {
		errs[field] = msg
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
