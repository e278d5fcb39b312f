package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"DATABASE_URL", "RESEND_API_KEY", "CONTACT_FROM", "CONTACT_TO",
		"ADMIN_USER", "ADMIN_PASS", "CONTACT_MIN_ELAPSED", "REDIS_URL", "EMAIL_PROVIDER",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.PersistenceEnabled())
	assert.False(t, cfg.EmailEnabled())
	assert.False(t, cfg.AdminEnabled())
	assert.False(t, cfg.RateLimitEnabled())
}

func TestLoadConfigFeatures(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://kohi@localhost/kohi")
	t.Setenv("EMAIL_PROVIDER", "resend")
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("CONTACT_FROM", "site@kohi.dev")
	t.Setenv("CONTACT_TO", "me@kohi.dev")
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASS", "secret")
	t.Setenv("CONTACT_MIN_ELAPSED", "2000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://kohi.dev/, ,http://localhost:3000")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.PersistenceEnabled())
	assert.True(t, cfg.EmailEnabled())
	assert.True(t, cfg.AdminEnabled())
	assert.Equal(t, 2*time.Second, cfg.ContactMinElapsed)
	assert.Equal(t, []string{"https://kohi.dev", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}

func TestEmailEnabledSMTP(t *testing.T) {
	cfg := &Config{
		EmailProvider: EmailProviderSMTP,
		ContactFrom:   "site@kohi.dev",
		ContactTo:     "me@kohi.dev",
		SMTPHost:      "smtp.example.com",
		SMTPUsername:  "user",
	}
	assert.False(t, cfg.EmailEnabled(), "password missing")

	cfg.SMTPPassword = "pw"
	assert.True(t, cfg.EmailEnabled())
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("KOHI_TEST_DURATION", "1.5s")
	assert.Equal(t, 1500*time.Millisecond, getEnvDuration("KOHI_TEST_DURATION", time.Second))

	t.Setenv("KOHI_TEST_DURATION", "nonsense")
	assert.Equal(t, time.Second, getEnvDuration("KOHI_TEST_DURATION", time.Second))
}
