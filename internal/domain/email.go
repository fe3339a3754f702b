package domain

import "context"

// Mailer sends a single email. Implementations may use SES or a no-op sink.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named template into subject and bodies.
type EmailTemplateRenderer interface {
	Render(name string, data any) (subject, html, text string, err error)
}

// RegistrationConfirmationEmailData is the payload for the
// registration_confirmation template.
type RegistrationConfirmationEmailData struct {
	Email      string
	UserName   string
	EventTitle string
	EventDate  string
	EventTime  string
	Location   string
}

// EmailService defines the outgoing email operations.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationConfirmationEmailData) error
}
