package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 0, cfg.Recommend.MinScore)
	assert.Equal(t, 5, cfg.Recommend.Limit)
	assert.Equal(t, "blinkit", cfg.Compare.BaselinePlatform)
	assert.Equal(t, "demo", cfg.Ledger.Owner)
	assert.Equal(t, int64(10<<20), cfg.Receipt.MaxBytes)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, "baniya.events", cfg.AMQP.Exchange)
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("RECOMMEND_LIMIT", "3")
	t.Setenv("CORS_ORIGINS", "https://baniya.ai, http://localhost:3000")
	t.Setenv("COMPARE_BASELINE_PLATFORM", " Zepto ")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, 3, cfg.Recommend.Limit)
	assert.Equal(t, []string{"https://baniya.ai", "http://localhost:3000"}, cfg.CORS.Origins)
	assert.Equal(t, "zepto", cfg.Compare.BaselinePlatform)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9090
recommend:
  min_score: 20
  limit: 0
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Recommend.MinScore)
	assert.Equal(t, 0, cfg.Recommend.Limit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port out of range", env: map[string]string{"SERVER_PORT": "70000"}},
		{name: "negative limit", env: map[string]string{"RECOMMEND_LIMIT": "-1"}},
		{name: "bad log level", env: map[string]string{"LOGGING_LEVEL": "loud"}},
		{name: "bad log format", env: map[string]string{"LOGGING_FORMAT": "xml"}},
		{name: "blank baseline", env: map[string]string{"COMPARE_BASELINE_PLATFORM": "  "}},
		{name: "bad server mode", env: map[string]string{"SERVER_MODE": "prod"}},
		{name: "zero timeout", env: map[string]string{"RECEIPT_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
