package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"kohi-api/config"
)

// ErrNotConfigured is returned by Send when the provider is missing credentials.
var ErrNotConfigured = errors.New("email service is not configured")

// ContactEmail holds the data for contact form emails
type ContactEmail struct {
	SenderName  string
	SenderEmail string
	Message     string
}

// Dispatcher delivers a contact notification and returns the provider's
// message id.
type Dispatcher interface {
	Send(ctx context.Context, data ContactEmail) (string, error)
	IsConfigured() bool
}

// NewDispatcher builds the dispatcher selected by EMAIL_PROVIDER.
func NewDispatcher(cfg *config.Config) Dispatcher {
	switch cfg.EmailProvider {
	case config.EmailProviderSMTP:
		return NewSMTPDispatcher(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.ContactFrom,
			To:       cfg.ContactTo,
		})
	default:
		return NewResendDispatcher(cfg.ResendAPIKey, cfg.ContactFrom, cfg.ContactTo)
	}
}

// contactEmailTemplate is the HTML body of contact notifications
const contactEmailTemplate = `<div style="font-family:ui-monospace, SFMono-Regular, Menlo, Consolas, monospace;line-height:1.6">
  <h2 style="margin:0 0 8px">New contact</h2>
  <p style="margin:0 0 6px"><strong>Name:</strong> {{.SenderName}}</p>
  <p style="margin:0 0 6px"><strong>Email:</strong> {{.SenderEmail}}</p>
  <pre style="white-space:pre-wrap;background:#0b0b0b;padding:12px;border-radius:8px;border:1px solid rgba(255,255,255,.1);color:#e5e5e5;margin-top:12px">{{.Message}}</pre>
</div>`

var contactTmpl = template.Must(template.New("contact").Parse(contactEmailTemplate))

func subject(data ContactEmail) string {
	return fmt.Sprintf("New contact from %s — kohi", data.SenderName)
}

func textBody(data ContactEmail) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\n\n%s", data.SenderName, data.SenderEmail, data.Message)
}

// htmlBody renders the template; html/template escapes every field.
func htmlBody(data ContactEmail) (string, error) {
	var body bytes.Buffer
	if err := contactTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}
