package domain

import "context"

// Email is an outbound message handed to the email-sending API.
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Email) error
}
