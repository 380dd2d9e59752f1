package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

// Verifier checks a human-verification challenge token.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// ContactService validates contact form submissions and forwards them
// to the email-sending API.
type ContactService struct {
	mailer   domain.Mailer
	verifier Verifier // nil disables challenge verification
	from     string
	to       string
}

// NewContactService creates a ContactService. Pass a nil verifier to
// skip challenge token checks (e.g. in development).
func NewContactService(mailer domain.Mailer, verifier Verifier, from, to string) *ContactService {
	return &ContactService{mailer: mailer, verifier: verifier, from: from, to: to}
}

// Send validates the submission, verifies the challenge token when a
// verifier is configured, and relays the message as HTML email.
func (s *ContactService) Send(ctx context.Context, name, email, message, challengeToken string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if name == "" || email == "" || message == "" {
		return fmt.Errorf("%w: all fields are required", domain.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t\n") {
		return fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}

	if s.verifier != nil {
		if err := s.verifier.Verify(ctx, challengeToken); err != nil {
			return err
		}
	}

	body := fmt.Sprintf(
		"<h2>New Contact Form Submission</h2>"+
			"<p><strong>Name:</strong> %s</p>"+
			"<p><strong>Email:</strong> <a href=\"mailto:%s\">%s</a></p>"+
			"<p><strong>Message:</strong></p><p>%s</p>",
		html.EscapeString(name),
		html.EscapeString(email), html.EscapeString(email),
		strings.ReplaceAll(html.EscapeString(message), "\n", "<br>"),
	)

	return s.mailer.Send(ctx, domain.Email{
		From:    s.from,
		To:      []string{s.to},
		Subject: "New Contact Form Submission from " + name,
		HTML:    body,
	})
}
