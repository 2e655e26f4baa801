package config

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{
		"PRACTICUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "PRACTICUM_ENDPOINT",
		"TELEGRAM_API_URL", "RETRY_PERIOD", "REQUEST_TIMEOUT", "POLL_CRON", "LOG_LEVEL", "ENVIRONMENT",
	} {
		t.Setenv(key, env[key])
		if _, ok := env[key]; !ok {
			// cleanenv parses present-but-empty variables instead of applying defaults
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func TestLoad(t *testing.T) {
	setEnv(t, map[string]string{
		"PRACTICUM_TOKEN":  "p-token",
		"TELEGRAM_TOKEN":   "123:abc",
		"TELEGRAM_CHAT_ID": "-100500",
		"RETRY_PERIOD":     "90s",
		"LOG_LEVEL":        "INFO",
		"ENVIRONMENT":      "Production",
		"POLL_CRON":        " */10 * * * * ",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "p-token", cfg.PracticumToken)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, "-100500", cfg.TelegramChatID)
	assert.Equal(t, 90*time.Second, cfg.RetryPeriod)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "*/10 * * * *", cfg.PollCron)
	assert.Empty(t, cfg.MissingTokens())
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, nil)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://practicum.yandex.ru/api/user_api/homework_statuses/", cfg.Endpoint)
	assert.Equal(t, 10*time.Minute, cfg.RetryPeriod)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.PollCron)
}

func TestLoad_InvalidValues(t *testing.T) {
	setEnv(t, map[string]string{"TELEGRAM_CHAT_ID": "my chat"})
	_, err := Load()
	assert.Error(t, err)

	setEnv(t, map[string]string{"RETRY_PERIOD": "-1s"})
	_, err = Load()
	assert.Error(t, err)

	setEnv(t, map[string]string{"REQUEST_TIMEOUT": "0s"})
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_ChatID(t *testing.T) {
	setEnv(t, map[string]string{"TELEGRAM_CHAT_ID": "@homework_channel"})
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "@homework_channel", cfg.TelegramChatID)

	// an empty value from a .env template is left to CheckTokens
	setEnv(t, map[string]string{"PRACTICUM_TOKEN": "p", "TELEGRAM_TOKEN": "t", "TELEGRAM_CHAT_ID": ""})
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"TELEGRAM_CHAT_ID"}, cfg.MissingTokens())
}

func TestCheckTokens(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	entry := logrus.NewEntry(l)

	cfg := &AppConfig{PracticumToken: "p", TelegramToken: "t", TelegramChatID: "1"}
	assert.True(t, CheckTokens(cfg, entry))
	assert.Empty(t, buf.String())

	cfg = &AppConfig{TelegramToken: "t"}
	assert.False(t, CheckTokens(cfg, entry))
	assert.Equal(t, []string{"PRACTICUM_TOKEN", "TELEGRAM_CHAT_ID"}, cfg.MissingTokens())
	assert.Contains(t, buf.String(), "PRACTICUM_TOKEN")
	assert.Contains(t, buf.String(), "TELEGRAM_CHAT_ID")
	assert.NotContains(t, buf.String(), "variable=TELEGRAM_TOKEN")
}
