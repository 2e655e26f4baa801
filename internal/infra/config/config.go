package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// AppConfig holds all configuration for the application.
// It is built once by Load and passed by pointer; nothing mutates it afterwards.
type AppConfig struct {
	PracticumToken string `env:"PRACTICUM_TOKEN" env-description:"OAuth token for the Practicum API"`
	TelegramToken  string `env:"TELEGRAM_TOKEN" env-description:"Telegram bot token"`
	TelegramChatID string `env:"TELEGRAM_CHAT_ID" env-description:"Chat id or @channel that receives status messages"`

	Endpoint       string        `env:"PRACTICUM_ENDPOINT" env-default:"https://practicum.yandex.ru/api/user_api/homework_statuses/"`
	TelegramAPIURL string        `env:"TELEGRAM_API_URL"`
	RetryPeriod    time.Duration `env:"RETRY_PERIOD" env-default:"10m"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`
	PollCron       string        `env:"POLL_CRON" env-description:"Cron spec; replaces the RETRY_PERIOD sleep loop when set"`

	LogLevel    string `env:"LOG_LEVEL" env-default:"debug"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
}

// Load reads configuration from environment variables and .env file (if present).
// Missing credentials are not an error here; see CheckTokens.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.PollCron = strings.TrimSpace(cfg.PollCron)
	cfg.TelegramChatID = strings.TrimSpace(cfg.TelegramChatID)

	if cfg.TelegramChatID != "" && !strings.HasPrefix(cfg.TelegramChatID, "@") {
		if _, err := strconv.ParseInt(cfg.TelegramChatID, 10, 64); err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID must be a numeric id or @channel, got %q", cfg.TelegramChatID)
		}
	}

	if cfg.RetryPeriod <= 0 {
		return nil, fmt.Errorf("RETRY_PERIOD must be positive, got %s", cfg.RetryPeriod)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}

	return cfg, nil
}

// MissingTokens returns the names of required variables that are empty.
func (c *AppConfig) MissingTokens() []string {
	tokens := []lo.Tuple2[string, bool]{
		lo.T2("PRACTICUM_TOKEN", c.PracticumToken != ""),
		lo.T2("TELEGRAM_TOKEN", c.TelegramToken != ""),
		lo.T2("TELEGRAM_CHAT_ID", c.TelegramChatID != ""),
	}
	missing := lo.Filter(tokens, func(t lo.Tuple2[string, bool], _ int) bool { return !t.B })
	return lo.Map(missing, func(t lo.Tuple2[string, bool], _ int) string { return t.A })
}

// CheckTokens reports whether every credential is present, logging each missing one.
func CheckTokens(cfg *AppConfig, logger *logrus.Entry) bool {
	missing := cfg.MissingTokens()
	for _, name := range missing {
		logger.WithField("variable", name).Error("Required environment variable is missing")
	}
	return len(missing) == 0
}
