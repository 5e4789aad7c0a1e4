package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
telegram:
  bot_token: "123:abc"
database:
  path: "data/test.db"
bot:
  operator_id: 555
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, int64(555), cfg.Bot.OperatorID)

	// Дефолты подставлены
	assert.Equal(t, 9, cfg.Bot.ReminderHour)
	assert.Equal(t, 7, cfg.Bot.BookingDays)
	assert.Equal(t, 20, cfg.Bot.RateLimitMessages)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout())
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_BOT_TOKEN", "env:token")

	cfg, err := Load(writeConfig(t, `
telegram:
  bot_token: "${TEST_BOT_TOKEN}"
database:
  path: "data/test.db"
bot:
  operator_id: 1
`))
	require.NoError(t, err)
	assert.Equal(t, "env:token", cfg.Telegram.BotToken)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"MissingToken", `
database:
  path: "data/test.db"
bot:
  operator_id: 1
`},
		{"MissingDatabasePath", `
telegram:
  bot_token: "123:abc"
bot:
  operator_id: 1
`},
		{"MissingOperator", `
telegram:
  bot_token: "123:abc"
database:
  path: "data/test.db"
`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_PrometheusPortDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig+`
monitoring:
  prometheus_enabled: true
`))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
}
