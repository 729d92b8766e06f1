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

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: "tok-123"
api:
  base_url: "https://salon.example.com/api"
  api_key: "key-1"
  rate_per_second: 10
  rate_burst: 20
session:
  path: "`+filepath.Join(t.TempDir(), "data", "session.db")+`"
booking:
  max_advance_days: 7
  workflow_timeout_minutes: 10
  confirm_ack_delay_seconds: 2
admins: [100, 200]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tok-123", cfg.Telegram.BotToken)
	assert.Equal(t, "https://salon.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 10.0, cfg.API.RatePerSecond)
	assert.Equal(t, 7, cfg.BookingMaxAdvance())
	assert.Equal(t, 10*time.Minute, cfg.WorkflowTimeout())
	assert.Equal(t, 2*time.Second, cfg.ConfirmAckDelay())
	assert.Equal(t, []int64{100, 200}, cfg.Admins)
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_SALON_API_KEY", "expanded-key")
	path := writeConfig(t, `
api:
  base_url: "https://salon.example.com"
  api_key: "${TEST_SALON_API_KEY}"
session:
  path: "`+filepath.Join(t.TempDir(), "s.db")+`"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-key", cfg.API.APIKey)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeConfig(t, `
api:
  base_url: "https://salon.example.com"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/session.db", cfg.Session.Path)
	assert.Equal(t, 15, cfg.BookingMaxAdvance())
	assert.Equal(t, 30*time.Minute, cfg.WorkflowTimeout())
	assert.Equal(t, time.Second, cfg.ConfirmAckDelay())
	assert.DirExists(t, filepath.Join(dir, "data"), "session directory is created eagerly")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
