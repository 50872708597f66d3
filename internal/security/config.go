// Package security provides centralized security configuration and utilities:
// input validation, token issuance and verification, login rate limiting,
// and structured security logging.
package security

import (
	"time"
)

// SecurityConfig holds all security-related configuration values.
// Defaults follow OWASP ASVS recommendations where applicable.
type SecurityConfig struct {
	// Password storage
	BcryptCost int // Cost factor for bcrypt hashing (recommended: 12)

	// Token lifetimes
	SessionTokenTTL      time.Duration // Lifetime of tokens issued at login
	VerificationTokenTTL time.Duration // Lifetime of email verification tokens

	// Brute force protection
	LoginRateLimit int // Max login attempts per minute per IP

	// Input validation limits
	MaxNameLength     int // Maximum characters in a user name
	MinPasswordLength int // Minimum password length
	MaxPasswordLength int // Maximum password length
	MaxEmailLength    int // Maximum email address length
	MaxMetricValue    int // Upper bound accepted for a single shift counter
	QueryTimeout      time.Duration

	// Export protection
	RateLimitExport int // Export requests per hour per user
	MaxExportRows   int // Maximum report rows in one workbook
}

// DefaultSecurityConfig returns security configuration with recommended
// defaults. The verification token lifetime is fixed at one hour to match
// the links the mail service sends out.
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		// Bcrypt cost 12 = 2^12 = 4096 iterations
		BcryptCost: 12,

		// Token lifetimes; session TTL can be overridden by app config
		SessionTokenTTL:      24 * time.Hour,
		VerificationTokenTTL: time.Hour,

		// Brute force protection
		LoginRateLimit: 5, // per minute

		// Input validation limits
		MaxNameLength:     100,
		MinPasswordLength: 8,
		MaxPasswordLength: 128,
		MaxEmailLength:    255,
		MaxMetricValue:    1_000_000,
		QueryTimeout:      30 * time.Second,

		// Export protection
		RateLimitExport: 3, // per hour
		MaxExportRows:   50000,
	}
}
