package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultOpenAIModel = "gpt-4o-mini"

type OpenAI struct {
	client    openai.Client
	model     string
	temp      float64
	maxTokens int
}

func openAIOptions(settings Settings, apiKey string) []option.RequestOption {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}
	return opts
}

func NewOpenAI(settings Settings, apiKey string) *OpenAI {
	model := settings.ModelName()

	return &OpenAI{
		client:    openai.NewClient(openAIOptions(settings, apiKey)...),
		model:     model,
		temp:      settings.Temperature,
		maxTokens: settings.MaxOutputTokens,
	}
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (Completion, error) {
	chatOpts := openai.ChatCompletionNewParams{
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Model:       o.model,
		Temperature: openai.Float(o.temp),
	}
	if o.maxTokens > 0 {
		chatOpts.MaxCompletionTokens = openai.Int(int64(o.maxTokens))
	}

	res, err := o.client.Chat.Completions.New(ctx, chatOpts)
	if err != nil {
		slog.Error("openai error: chat completions failed", "model", o.model, "error", err)
		return Completion{}, fmt.Errorf("openai generation failed: %w", err)
	}

	if len(res.Choices) == 0 {
		return Completion{}, nil
	}

	choice := res.Choices[0]
	out := Completion{FinishReason: choice.FinishReason}
	switch {
	case choice.FinishReason == "content_filter":
		out.Blocked = true
		out.BlockReason = choice.FinishReason
		return out, nil
	case choice.Message.Refusal != "":
		out.Blocked = true
		out.BlockReason = "refusal"
		return out, nil
	case choice.FinishReason == "length":
		out.Truncated = true
	}

	out.Text = strings.TrimSpace(choice.Message.Content)
	return out, nil
}

func listOpenAIModels(ctx context.Context, settings Settings, apiKey string) ([]ModelInfo, error) {
	client := openai.NewClient(openAIOptions(settings, apiKey)...)

	var models []ModelInfo
	iter := client.Models.ListAutoPaging(ctx)
	for iter.Next() {
		models = append(models, ModelInfo{Name: iter.Current().ID})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error listing openai models: %w", err)
	}
	return models, nil
}
