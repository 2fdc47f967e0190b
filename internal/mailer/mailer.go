// Package mailer sends transactional email through SendGrid. The core only
// builds payloads; delivery success or failure is reported to the caller so
// it can roll back any "sent" state.
package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"campus-booking-backend/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Service is anything that can deliver a Message.
type Service interface {
	Send(ctx context.Context, msg Message) error
}

type sendgridService struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

// NewSendgrid creates a SendGrid-backed mailer.
func NewSendgrid(cfg config.MailerConfig) Service {
	return &sendgridService{
		client: sendgrid.NewSendClient(cfg.SendgridAPIKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
	}
}

func (s *sendgridService) Send(ctx context.Context, msg Message) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)

	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))
	m.AddPersonalizations(p)

	m.AddContent(
		sgmail.NewContent("text/plain", msg.Text),
		sgmail.NewContent("text/html", msg.HTML),
	)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// logService writes messages to the log instead of sending them. Used when no
// API key is configured, e.g. local development.
type logService struct{}

// NewLog creates the development mailer.
func NewLog() Service {
	return logService{}
}

func (logService) Send(_ context.Context, msg Message) error {
	log.Printf("mailer (dev): to=%s subject=%q\n%s", msg.To, msg.Subject, msg.Text)
	return nil
}
