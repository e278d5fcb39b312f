package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendDispatcher sends contact notifications through the Resend API.
type ResendDispatcher struct {
	client *resend.Client
	from   string
	to     string
}

func NewResendDispatcher(apiKey, from, to string) *ResendDispatcher {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return NewResendDispatcherWithClient(client, from, to)
}

// NewResendDispatcherWithClient uses a preconfigured client (custom base URL
// or HTTP client).
func NewResendDispatcherWithClient(client *resend.Client, from, to string) *ResendDispatcher {
	return &ResendDispatcher{client: client, from: from, to: to}
}

func (d *ResendDispatcher) IsConfigured() bool {
	return d.client != nil && d.from != "" && d.to != ""
}

func (d *ResendDispatcher) Send(ctx context.Context, data ContactEmail) (string, error) {
	if !d.IsConfigured() {
		return "", ErrNotConfigured
	}

	html, err := htmlBody(data)
	if err != nil {
		return "", err
	}

	params := &resend.SendEmailRequest{
		From:    d.from,
		To:      []string{d.to},
		Subject: subject(data),
		Text:    textBody(data),
		Html:    html,
		ReplyTo: data.SenderEmail,
	}

	sent, err := d.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return sent.Id, nil
}
