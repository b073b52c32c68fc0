package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"review-reply/internal/llm"
	"review-reply/internal/storage"

	"github.com/caarlos0/env/v11"
)

const (
	ExportStoreNone  = ""
	ExportStoreLocal = "local"
	ExportStoreS3    = "s3"
)

type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file::memory:"`

	LLMProvider        string  `env:"LLM_PROVIDER" envDefault:"gemini"`
	LLMModel           string  `env:"LLM_MODEL"`
	LLMTemperature     float64 `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMMaxOutputTokens int     `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"1024"`
	LLMBaseURL         string  `env:"LLM_BASE_URL"`
	GeminiAPIKey       string  `env:"GEMINI_API_KEY"`
	OpenAIAPIKey       string  `env:"OPENAI_API_KEY"`

	AppPassword string `env:"APP_PASSWORD"`
	PresetsFile string `env:"PRESETS_FILE"`

	GeneratePerMinute float64 `env:"GENERATE_PER_MINUTE" envDefault:"10"`
	GenerateBurst     int     `env:"GENERATE_BURST" envDefault:"3"`

	ExportStore       string `env:"EXPORT_STORE"`
	ExportDir         string `env:"EXPORT_DIR" envDefault:"./exports"`
	ExportBucket      string `env:"EXPORT_BUCKET" envDefault:"review-replies"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.ExportStore = strings.ToLower(strings.TrimSpace(cfg.ExportStore))

	switch cfg.ExportStore {
	case ExportStoreNone, ExportStoreLocal, ExportStoreS3:
	default:
		return cfg, fmt.Errorf("invalid EXPORT_STORE '%s': must be empty, 'local' or 's3'", cfg.ExportStore)
	}

	if cfg.GeneratePerMinute <= 0 {
		return cfg, fmt.Errorf("GENERATE_PER_MINUTE must be positive")
	}

	return cfg, nil
}

func (c Config) LLMSettings() llm.Settings {
	return llm.Settings{
		Provider:        c.LLMProvider,
		Model:           c.LLMModel,
		Temperature:     c.LLMTemperature,
		MaxOutputTokens: c.LLMMaxOutputTokens,
		BaseURL:         c.LLMBaseURL,
	}
}

// APIKey returns the key from the secret store for the configured provider.
func (c Config) APIKey() string {
	switch c.LLMProvider {
	case llm.ProviderOpenAI:
		return c.OpenAIAPIKey
	case llm.ProviderOllama:
		return ""
	default:
		return c.GeminiAPIKey
	}
}

func (c Config) LogLevelValue() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewExportStore returns the object store used to archive history exports, or
// nil when archiving is disabled.
func (c Config) NewExportStore(ctx context.Context) (storage.ObjectStore, error) {
	switch c.ExportStore {
	case ExportStoreLocal:
		store, err := storage.NewLocalObjectStore(c.ExportDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case ExportStoreS3:
		store, err := storage.NewS3ObjectStore(ctx, c.ExportBucket, storage.S3ClientConfig{
			Endpoint:        c.S3EndpointURL,
			Region:          c.S3Region,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		if err := store.CreateBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}
