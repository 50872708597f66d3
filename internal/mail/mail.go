// Package mail sends transactional email through the Resend API.
// The Sender interface keeps the auth service testable without network
// access.
package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Sender dispatches a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ResendSender sends mail through Resend.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender using the given API key and from address.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send dispatches one email and returns any provider error unchanged;
// the caller decides how the failure surfaces.
func (s *ResendSender) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	return nil
}

// VerificationSubject is the subject line of every verification email.
const VerificationSubject = "Verify your email"

// BuildVerificationLink produces the URL embedded in verification emails.
func BuildVerificationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/auth/verify-email?token=%s", baseURL, token)
}

// BuildVerificationEmail produces the HTML body containing the signed link.
func BuildVerificationEmail(baseURL, token string) string {
	verifyURL := BuildVerificationLink(baseURL, token)
	return fmt.Sprintf(
		`<strong>Please verify your email by clicking the following link:</strong> <a href="%s">Verify Email</a>`,
		verifyURL,
	)
}
