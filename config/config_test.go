package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := FromEnv()
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, ModePolling, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "users.db", cfg.SQLitePath)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, time.Duration(0), cfg.StateTTL)
	assert.Equal(t, 4096, cfg.MaxInputSize)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("BOT_MODE", ModeWebhook)
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STATE_TTL", "24h")
	t.Setenv("MAX_INPUT_SIZE", "512")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ModeWebhook, cfg.Mode)
	assert.Equal(t, "s3cret", cfg.WebhookSecret)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.StateTTL)
	assert.Equal(t, 512, cfg.MaxInputSize)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"webhook without secret", map[string]string{"BOT_MODE": ModeWebhook, "WEBHOOK_SECRET": ""}},
		{"unknown mode", map[string]string{"BOT_MODE": "carrier-pigeon"}},
		{"bad ttl", map[string]string{"STATE_TTL": "forever"}},
		{"bad input size", map[string]string{"MAX_INPUT_SIZE": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_TOKEN", "123:abc")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			require.Error(t, err)
		})
	}
}

func TestLoadDatabase_WithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("SQLITE_PATH", "/tmp/records.db")
	t.Setenv("POSTGRES_DSN", "")

	sqlitePath, dsn := LoadDatabase()
	assert.Equal(t, "/tmp/records.db", sqlitePath)
	assert.Empty(t, dsn)
}
