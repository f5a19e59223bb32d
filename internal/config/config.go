package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingSecret = errors.New("missing required secret")

const (
	DefaultCompletionBaseURL = "https://api.cerebras.ai/v1"
	DefaultCompletionModel   = "llama3.1-8b"
	DefaultCompletionTimeout = 60 * time.Second
	DefaultPort              = "8080"
	DefaultWebhookPath       = "/telegram-webhook"
)

// StoreDriver: какой бэкенд хранения выбран по окружению
type StoreDriver string

const (
	StorePostgres StoreDriver = "postgres"
	StoreSupabase StoreDriver = "supabase"
	StoreSQLite   StoreDriver = "sqlite"
	StoreNone     StoreDriver = "none"
)

type Config struct {
	CompletionAPIKey  string
	CompletionBaseURL string
	CompletionModel   string
	CompletionTimeout time.Duration

	BotToken string

	SupabaseURL        string
	SupabaseServiceKey string
	DatabaseURL        string
	SQLitePath         string

	Port        string
	WebhookPath string
	WebhookURL  string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string

	LogLevel string

	// AdminChatID: чат для алертов, 0 выключает
	AdminChatID int64
}

// Load читает .env (если есть) и переменные окружения.
// Обязательные секреты здесь не проверяются, см. Validate.
func Load() (Config, error) {
	_ = godotenv.Load()

	c := Config{
		CompletionAPIKey:   env("CEREBRAS_API_KEY"),
		CompletionBaseURL:  envOr("CEREBRAS_BASE_URL", DefaultCompletionBaseURL),
		CompletionModel:    envOr("CEREBRAS_MODEL", DefaultCompletionModel),
		CompletionTimeout:  DefaultCompletionTimeout,
		BotToken:           env("TELEGRAM_BOT_TOKEN"),
		SupabaseURL:        strings.TrimRight(env("SUPABASE_URL"), "/"),
		SupabaseServiceKey: env("SUPABASE_SERVICE_ROLE_KEY"),
		DatabaseURL:        env("DATABASE_URL"),
		SQLitePath:         env("SQLITE_PATH"),
		Port:               envOr("PORT", DefaultPort),
		WebhookPath:        envOr("WEBHOOK_PATH", DefaultWebhookPath),
		WebhookURL:         env("WEBHOOK_URL"),
		S3Endpoint:         env("S3_ENDPOINT"),
		S3AccessKey:        env("S3_ACCESS_KEY"),
		S3SecretKey:        env("S3_SECRET_KEY"),
		S3Bucket:           env("S3_BUCKET"),
		S3Region:           env("S3_REGION"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
	}

	if raw := env("COMPLETION_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return c, fmt.Errorf("parse COMPLETION_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return c, fmt.Errorf("COMPLETION_TIMEOUT must be positive, got %s", raw)
		}
		c.CompletionTimeout = d
	}

	if raw := env("ADMIN_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c, fmt.Errorf("parse ADMIN_CHAT_ID: %w", err)
		}
		c.AdminChatID = id
	}

	if !strings.HasPrefix(c.WebhookPath, "/") {
		c.WebhookPath = "/" + c.WebhookPath
	}

	return c, nil
}

// Validate проверяет секреты, без которых пайплайн бесполезен.
func (c Config) Validate() error {
	var missing []string
	if c.CompletionAPIKey == "" {
		missing = append(missing, "CEREBRAS_API_KEY")
	}
	if c.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSecret, strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) StoreDriver() StoreDriver {
	switch {
	case c.DatabaseURL != "":
		return StorePostgres
	case c.SupabaseURL != "" && c.SupabaseServiceKey != "":
		return StoreSupabase
	case c.SQLitePath != "":
		return StoreSQLite
	}
	return StoreNone
}

func (c Config) ArchiveEnabled() bool {
	return c.S3Bucket != "" && c.S3Endpoint != ""
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envOr(key, def string) string {
	if v := env(key); v != "" {
		return v
	}
	return def
}
