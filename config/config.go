package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingToken возвращается, если не задан токен бота.
var ErrMissingToken = errors.New("TELEGRAM_TOKEN is not set")

// Режимы получения обновлений от Telegram.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config хранит конфигурацию приложения
type Config struct {
	Env           string
	Mode          string
	Port          string
	TelegramToken string
	WebhookSecret string
	SQLitePath    string
	PostgresDSN   string
	RedisAddr     string
	StateTTL      time.Duration
	LogLevel      string
	MaxInputSize  int
}

// envPaths перечисляет, где искать .env относительно рабочего каталога.
var envPaths = []string{".env", "../.env", "../../.env"}

// Load читает .env (если он есть) и собирает конфигурацию из окружения.
// Отсутствие токена бота считается фатальной ошибкой запуска.
func Load() (*Config, error) {
	loadDotEnv()
	return FromEnv()
}

// LoadDatabase читает только настройки хранилища записей. Токен бота не требуется.
func LoadDatabase() (sqlitePath, postgresDSN string) {
	loadDotEnv()
	return getEnv("SQLITE_PATH", "users.db"), getEnv("POSTGRES_DSN", "")
}

func loadDotEnv() {
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

// FromEnv собирает конфигурацию только из переменных окружения.
func FromEnv() (*Config, error) {
	token, err := required("TELEGRAM_TOKEN")
	if err != nil {
		return nil, ErrMissingToken
	}

	cfg := &Config{
		Env:           getEnv("APP_ENV", "development"),
		Mode:          getEnv("BOT_MODE", ModePolling),
		Port:          getEnv("PORT", "8080"),
		TelegramToken: token,
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "users.db"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		RedisAddr:     getRedisAddr(),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.StateTTL, err = time.ParseDuration(getEnv("STATE_TTL", "0s")); err != nil {
		return nil, fmt.Errorf("parse STATE_TTL: %w", err)
	}
	if cfg.MaxInputSize, err = strconv.Atoi(getEnv("MAX_INPUT_SIZE", "4096")); err != nil || cfg.MaxInputSize <= 0 {
		return nil, fmt.Errorf("invalid MAX_INPUT_SIZE %q", os.Getenv("MAX_INPUT_SIZE"))
	}

	switch cfg.Mode {
	case ModePolling:
	case ModeWebhook:
		if cfg.WebhookSecret == "" {
			return nil, errors.New("WEBHOOK_SECRET is required in webhook mode")
		}
	default:
		return nil, fmt.Errorf("unknown BOT_MODE %q", cfg.Mode)
	}
	return cfg, nil
}

// getEnv возвращает значение или дефолт
func getEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// required проверяет наличие обязательной переменной
func required(key string) (string, error) {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val, nil
	}
	return "", fmt.Errorf("required environment variable %s is not set", key)
}

// getRedisAddr извлекает адрес Redis из REDIS_URL или REDIS_ADDR.
// Пустая строка означает, что Redis не используется.
func getRedisAddr() string {
	if redisURL, ok := os.LookupEnv("REDIS_URL"); ok && redisURL != "" {
		return redisURL
	}
	return getEnv("REDIS_ADDR", "")
}
