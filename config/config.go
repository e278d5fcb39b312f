package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Email providers understood by EMAIL_PROVIDER.
const (
	EmailProviderResend = "resend"
	EmailProviderSMTP   = "smtp"
)

type Config struct {
	Port        string
	GinMode     string
	Environment string
	DBUrl       string
	// Apply embedded migrations before serving
	MigrateOnStart bool
	// Email delivery
	EmailProvider string
	ResendAPIKey  string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	ContactFrom   string // Verified sender address
	ContactTo     string // Inbox that receives contact submissions
	// Admin gate (HTTP Basic)
	AdminUser string
	AdminPass string // Plain text or a bcrypt hash
	// Contact pipeline
	ContactMinElapsed         time.Duration
	ContactRequirePersistence bool
	// CORS
	AllowedOrigins []string
	// Proxies whose X-Forwarded-For is trusted for the client IP
	TrustedProxies []string
	// Redis (contact rate limiting)
	RedisURL                 string
	RedisPassword            string
	ContactRateLimit         int
	ContactRateWindowSeconds int
}

func LoadConfig() (*Config, error) {
	// .env is only present locally
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		Environment: getEnv("APP_ENV", "development"),
		DBUrl:       getEnv("DATABASE_URL", ""),

		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),
		// Email
		EmailProvider: strings.ToLower(getEnv("EMAIL_PROVIDER", EmailProviderResend)),
		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		ContactFrom:   getEnv("CONTACT_FROM", ""),
		ContactTo:     getEnv("CONTACT_TO", ""),
		// Admin
		AdminUser: getEnv("ADMIN_USER", ""),
		AdminPass: getEnv("ADMIN_PASS", ""),
		// Contact pipeline
		ContactMinElapsed:         getEnvDuration("CONTACT_MIN_ELAPSED", 1200*time.Millisecond),
		ContactRequirePersistence: getEnvBool("CONTACT_REQUIRE_PERSISTENCE", false),
		AllowedOrigins:            getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		TrustedProxies:            getEnvList("TRUSTED_PROXIES", nil),
		// Redis
		RedisURL:                 getEnv("REDIS_URL", ""),
		RedisPassword:            getEnv("REDIS_PASSWORD", ""),
		ContactRateLimit:         getEnvInt("CONTACT_RATE_LIMIT", 5),
		ContactRateWindowSeconds: getEnvInt("CONTACT_RATE_WINDOW_SECONDS", 600),
	}

	if !cfg.PersistenceEnabled() {
		log.Println("WARNING: DATABASE_URL is missing. Posts and contact storage are disabled.")
	}
	if !cfg.EmailEnabled() {
		log.Println("WARNING: email delivery is not configured. The contact form will answer 503.")
	}
	if !cfg.AdminEnabled() {
		log.Println("WARNING: ADMIN_USER/ADMIN_PASS not set. Admin endpoints will answer 503.")
	}

	return cfg, nil
}

// PersistenceEnabled reports whether a database is configured.
func (c *Config) PersistenceEnabled() bool {
	return c.DBUrl != ""
}

// EmailEnabled reports whether the selected provider has everything it needs.
func (c *Config) EmailEnabled() bool {
	if c.ContactFrom == "" || c.ContactTo == "" {
		return false
	}
	switch c.EmailProvider {
	case EmailProviderSMTP:
		return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
	default:
		return c.ResendAPIKey != ""
	}
}

// AdminEnabled reports whether admin credentials are configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminUser != "" && c.AdminPass != ""
}

// RateLimitEnabled reports whether the contact rate limiter has a backing store.
func (c *Config) RateLimitEnabled() bool {
	return c.RedisURL != "" && c.ContactRateLimit > 0
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("1.5s") or a bare number of milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
