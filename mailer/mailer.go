package mailer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tutorform-backend/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends the confirmation message for a persisted submission
type Mailer interface {
	SendConfirmation(ctx context.Context, submission *models.Submission) error
}

// SendGridMailer implements Mailer on the SendGrid API
type SendGridMailer struct {
	client *sendgrid.Client
	from   string
}

// NewSendGridMailer creates a SendGrid mailer. Both the API key and the
// sender address are required; the server refuses to start without them.
func NewSendGridMailer(apiKey, from string) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, errors.New("SENDGRID_API_KEY is not set")
	}
	if from == "" {
		return nil, errors.New("EMAIL_FROM is not set")
	}

	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
	}, nil
}

// NewSendGridMailerFromEnv creates a SendGrid mailer from environment variables
func NewSendGridMailerFromEnv() (*SendGridMailer, error) {
	return NewSendGridMailer(os.Getenv("SENDGRID_API_KEY"), os.Getenv("EMAIL_FROM"))
}

// SendConfirmation emails the submitter a fixed confirmation embedding
// their name and address.
func (m *SendGridMailer) SendConfirmation(ctx context.Context, submission *models.Submission) error {
	from := mail.NewEmail("", m.from)
	to := mail.NewEmail(fmt.Sprintf("%s %s", submission.FirstName, submission.LastName), submission.Email)

	html := fmt.Sprintf(`
      <h3>Nouvelle inscription</h3>
      <p><strong>Nom:</strong> %s %s</p>
      <p><strong>Email:</strong> %s</p>
      <p>Merci pour votre soumission.</p>
    `, submission.FirstName, submission.LastName, submission.Email)
	plain := fmt.Sprintf("Nouvelle inscription: %s %s (%s). Merci pour votre soumission.",
		submission.FirstName, submission.LastName, submission.Email)

	message := mail.NewSingleEmail(from, "Formulaire reçu !", to, plain, html)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected confirmation email: status %d", resp.StatusCode)
	}

	return nil
}
