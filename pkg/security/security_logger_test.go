package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*SecurityLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewSecurityLogger(zap.New(core), "kohi-api", "test"), logs
}

func TestLogAdminAuthFailedHashesUsername(t *testing.T) {
	sl, logs := observed()
	sl.LogAdminAuthFailed(context.Background(), "admin", "203.0.113.7", "curl", "req-1", "invalid_credentials")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()

	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, string(EventAdminAuthFailed), entry.Message)
	assert.Equal(t, "WARN", fields["severity"])
	assert.Equal(t, HashValue("admin"), fields["subject_value"])
	assert.NotContains(t, fields["subject_value"], "admin")
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "kohi-api", fields["service"])
	assert.Equal(t, "test", fields["env"])
}

func TestEventSeverityLevels(t *testing.T) {
	sl, logs := observed()
	ctx := context.Background()

	sl.LogContactRejected(ctx, EventSpamRejected, "ava@x.com", "203.0.113.7", "bot", "")
	sl.Log(ctx, SecurityEvent{Event: EventAdminDisabled})

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	assert.Equal(t, "a***@x.com", logs.All()[0].ContextMap()["subject_value"])
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
	assert.Equal(t, SeverityMEDIUM, GetSeverity("unknown_event"))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "a***@x.com", MaskEmail("ava@x.com"))
	assert.Equal(t, "***", MaskEmail("a"))
}
