package config

import (
	"flag"
	"fmt"
	"time"

	pkgRetry "github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/retry"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DeliverySink selects where completed blueprints are relayed.
type DeliverySink string

const (
	SinkWebhook  DeliverySink = "webhook"
	SinkTelegram DeliverySink = "telegram"
	SinkNone     DeliverySink = "none"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// External service configurations
	ModelGatewayCfg ModelGatewayConfig `envPrefix:"MODEL_"`
	WebhookCfg      WebhookConfig      `envPrefix:"WEBHOOK_"`
	TelegramCfg     TelegramConfig     `envPrefix:"TELEGRAM_"`

	// Delivery sink selection
	DeliverySink DeliverySink `env:"DELIVERY_SINK" envDefault:"webhook"`

	// Interview behaviour
	InterviewCfg InterviewConfig `envPrefix:"INTERVIEW_"`

	// History archive persistence
	HistoryCfg HistoryConfig `envPrefix:"HISTORY_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// ModelGatewayConfig configures the OpenAI-compatible completion endpoint.
// Candidates are tried in order until one accepts the request.
type ModelGatewayConfig struct {
	HTTPClientConfig
	Candidates  []string `env:"CANDIDATES" envSeparator:"," envDefault:"x-ai/grok-4-1-fast-reasoning,google/gemma-3n-e4b-it,gpt-4o-mini,gpt-3.5-turbo"`
	Temperature float64  `env:"TEMPERATURE" envDefault:"0.3"`
}

// WebhookConfig configures the Discord-style webhook relay.
type WebhookConfig struct {
	HTTPClientConfig
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// TelegramConfig configures the alternative Telegram delivery sink.
type TelegramConfig struct {
	BotToken string `env:"BOT_TOKEN"`
	ChatID   int64  `env:"CHAT_ID"`
}

// InterviewConfig holds the interview progression knobs.
type InterviewConfig struct {
	// Minimum number of assistant questions before forced completion is allowed.
	ForceFinishMinQuestions int `env:"FORCE_FINISH_MIN_QUESTIONS" envDefault:"5"`

	// Maximum accepted answer length in bytes.
	MaxAnswerLength int `env:"MAX_ANSWER_LENGTH" envDefault:"8192"`
}

// HistoryConfig holds the archive persistence knobs. When DatabaseURL is set
// the archive lives in Postgres; otherwise in the JSON file at FilePath.
type HistoryConfig struct {
	Capacity    int    `env:"CAPACITY" envDefault:"25"`
	FilePath    string `env:"FILE_PATH" envDefault:"data/history.json"`
	DatabaseURL string `env:"DATABASE_URL"`

	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"5"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if !cfg.EnableMocks {
		if cfg.ModelGatewayCfg.Url == "" {
			return fmt.Errorf("MODEL_SERVICE_URL must be set")
		}
		if len(cfg.ModelGatewayCfg.Candidates) == 0 {
			return fmt.Errorf("MODEL_CANDIDATES must list at least one model")
		}
	}

	if cfg.InterviewCfg.ForceFinishMinQuestions < 1 {
		return fmt.Errorf("INTERVIEW_FORCE_FINISH_MIN_QUESTIONS must be positive, got %d", cfg.InterviewCfg.ForceFinishMinQuestions)
	}

	if cfg.HistoryCfg.Capacity < 1 {
		return fmt.Errorf("HISTORY_CAPACITY must be positive, got %d", cfg.HistoryCfg.Capacity)
	}

	switch cfg.DeliverySink {
	case SinkWebhook:
		if cfg.WebhookCfg.Url == "" {
			return fmt.Errorf("WEBHOOK_SERVICE_URL must be set when DELIVERY_SINK=webhook")
		}
	case SinkTelegram:
		if cfg.TelegramCfg.BotToken == "" || cfg.TelegramCfg.ChatID == 0 {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set when DELIVERY_SINK=telegram")
		}
	case SinkNone:
	default:
		return fmt.Errorf("unknown delivery sink: %s", cfg.DeliverySink)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
