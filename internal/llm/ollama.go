package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const DefaultOllamaModel = "llama3.1"

// Ollama drafts replies with a locally hosted model, which needs no api key.
type Ollama struct {
	llm       *ollama.LLM
	model     string
	temp      float64
	maxTokens int
}

func NewOllama(settings Settings) (*Ollama, error) {
	model := settings.ModelName()

	opts := []ollama.Option{ollama.WithModel(model)}
	if settings.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(settings.BaseURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}

	return &Ollama{llm: client, model: model, temp: settings.Temperature, maxTokens: settings.MaxOutputTokens}, nil
}

func (o *Ollama) Generate(ctx context.Context, prompt string) (Completion, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	callOpts := []llms.CallOption{llms.WithTemperature(o.temp)}
	if o.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(o.maxTokens))
	}

	resp, err := o.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		slog.Error("ollama error: generate content failed", "model", o.model, "error", err)
		return Completion{}, fmt.Errorf("ollama generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Completion{}, nil
	}

	choice := resp.Choices[0]
	return Completion{
		Text:         strings.TrimSpace(choice.Content),
		FinishReason: choice.StopReason,
		Truncated:    choice.StopReason == "length",
	}, nil
}
