package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

var (
	ErrMissingAPIKey   = errors.New("api key missing")
	ErrUnknownProvider = errors.New("unknown llm provider")
)

type Settings struct {
	Provider        string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	BaseURL         string
}

type Completion struct {
	Text         string
	FinishReason string
	Blocked      bool
	BlockReason  string
	Truncated    bool
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (Completion, error)
}

// Factory creates a generator bound to a single api key. Keys can arrive with
// each request so generators are not shared between requests.
type Factory func(ctx context.Context, apiKey string) (Generator, error)

type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}

// ModelName returns the configured model, or the provider default when none
// is set.
func (s Settings) ModelName() string {
	if model := strings.TrimSpace(s.Model); model != "" {
		return model
	}
	switch normalizeProvider(s.Provider) {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderOllama:
		return DefaultOllamaModel
	default:
		return DefaultGeminiModel
	}
}

func RequiresKey(provider string) bool {
	switch normalizeProvider(provider) {
	case ProviderOllama:
		return false
	default:
		return true
	}
}

func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return ProviderGemini
	}
	return provider
}

func NewGenerator(ctx context.Context, settings Settings, apiKey string) (Generator, error) {
	provider := normalizeProvider(settings.Provider)
	if RequiresKey(provider) && strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	switch provider {
	case ProviderGemini:
		return NewGemini(ctx, settings, apiKey)
	case ProviderOpenAI:
		return NewOpenAI(settings, apiKey), nil
	case ProviderOllama:
		return NewOllama(settings)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, settings.Provider)
	}
}

func NewFactory(settings Settings) Factory {
	return func(ctx context.Context, apiKey string) (Generator, error) {
		return NewGenerator(ctx, settings, apiKey)
	}
}

// ListModels returns the models available to the api key that can be used
// for text generation.
func ListModels(ctx context.Context, settings Settings, apiKey string) ([]ModelInfo, error) {
	provider := normalizeProvider(settings.Provider)
	if RequiresKey(provider) && strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	switch provider {
	case ProviderGemini:
		return listGeminiModels(ctx, settings, apiKey)
	case ProviderOpenAI:
		return listOpenAIModels(ctx, settings, apiKey)
	case ProviderOllama:
		return nil, fmt.Errorf("model listing is not supported for provider %s", provider)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, settings.Provider)
	}
}
