package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kohi-api/config"
)

var sample = ContactEmail{
	SenderName:  "Ava <script>",
	SenderEmail: "ava@x.com",
	Message:     "Hello there, interested in working together.",
}

func TestHTMLBodyEscapesInput(t *testing.T) {
	html, err := htmlBody(sample)
	require.NoError(t, err)
	assert.Contains(t, html, "Ava &lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestNewDispatcherSelectsProvider(t *testing.T) {
	cfg := &config.Config{EmailProvider: config.EmailProviderSMTP}
	assert.IsType(t, &SMTPDispatcher{}, NewDispatcher(cfg))

	cfg.EmailProvider = config.EmailProviderResend
	assert.IsType(t, &ResendDispatcher{}, NewDispatcher(cfg))
}

func TestResendDispatcherNotConfigured(t *testing.T) {
	d := NewResendDispatcher("", "site@kohi.dev", "me@kohi.dev")
	assert.False(t, d.IsConfigured())

	_, err := d.Send(context.Background(), sample)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResendDispatcherSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/emails"))
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	client := resend.NewClient("re_test")
	client.BaseURL, _ = url.Parse(srv.URL + "/")

	d := NewResendDispatcherWithClient(client, "site@kohi.dev", "me@kohi.dev")
	id, err := d.Send(context.Background(), sample)
	require.NoError(t, err)

	assert.Equal(t, "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794", id)
	assert.Equal(t, "site@kohi.dev", got["from"])
	assert.Equal(t, "New contact from Ava <script> — kohi", got["subject"])
}

func TestResendDispatcherProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field"}`))
	}))
	defer srv.Close()

	client := resend.NewClient("re_test")
	client.BaseURL, _ = url.Parse(srv.URL + "/")

	d := NewResendDispatcherWithClient(client, "site@kohi.dev", "me@kohi.dev")
	id, err := d.Send(context.Background(), sample)
	assert.Error(t, err)
	assert.Empty(t, id)
}

func TestSMTPDispatcherSend(t *testing.T) {
	d := NewSMTPDispatcher(SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "user",
		Password: "pw",
		From:     "site@kohi.dev",
		To:       "me@kohi.dev",
	})

	var sentTo []string
	var sentMsg string
	d.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.example.com:587", addr)
		sentTo = to
		sentMsg = string(msg)
		return nil
	}

	id, err := d.Send(context.Background(), sample)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(id, "@kohi.dev>"))
	assert.Equal(t, []string{"me@kohi.dev"}, sentTo)
	assert.Contains(t, sentMsg, "Message-ID: "+id)
	assert.Contains(t, sentMsg, "Reply-To: ava@x.com")
	assert.Contains(t, sentMsg, "multipart/alternative")
}

func TestSMTPDispatcherFailure(t *testing.T) {
	d := NewSMTPDispatcher(SMTPConfig{
		Host: "smtp.example.com", Port: "587", Username: "u", Password: "p",
		From: "site@kohi.dev", To: "me@kohi.dev",
	})
	d.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("535 authentication failed")
	}

	_, err := d.Send(context.Background(), sample)
	assert.ErrorContains(t, err, "535")
}

func TestBuildMessageStripsHeaderInjection(t *testing.T) {
	data := sample
	data.SenderEmail = "ava@x.com\r\nBcc: victim@example.com"

	msg, err := buildMessage("site@kohi.dev", "me@kohi.dev", "<id@kohi.dev>", time.Unix(0, 0), data)
	require.NoError(t, err)

	headers := strings.SplitN(string(msg), "\r\n\r\n", 2)[0]
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Contains(t, headers, "Reply-To: ava@x.comBcc: victim@example.com")
}
