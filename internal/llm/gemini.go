package llm

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type Gemini struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func newGeminiClient(ctx context.Context, settings Settings, apiKey string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if settings.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: settings.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client, nil
}

func NewGemini(ctx context.Context, settings Settings, apiKey string) (*Gemini, error) {
	client, err := newGeminiClient(ctx, settings, apiKey)
	if err != nil {
		return nil, err
	}

	model := settings.ModelName()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(settings.Temperature)),
	}
	if settings.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(settings.MaxOutputTokens)
	}

	return &Gemini{client: client, model: model, config: config}, nil
}

var geminiBlockedFinishReasons = []genai.FinishReason{
	genai.FinishReasonSafety,
	genai.FinishReasonRecitation,
	genai.FinishReasonBlocklist,
	genai.FinishReasonProhibitedContent,
	genai.FinishReasonSPII,
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (Completion, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		slog.Error("gemini error: generate content failed", "model", g.model, "error", err)
		return Completion{}, fmt.Errorf("gemini generation failed: %w", err)
	}

	return geminiCompletion(res), nil
}

func geminiCompletion(res *genai.GenerateContentResponse) Completion {
	var out Completion
	if res == nil {
		return out
	}

	if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
		out.Blocked = true
		out.BlockReason = string(res.PromptFeedback.BlockReason)
		return out
	}

	if len(res.Candidates) == 0 || res.Candidates[0] == nil {
		return out
	}

	reason := res.Candidates[0].FinishReason
	out.FinishReason = string(reason)
	switch {
	case slices.Contains(geminiBlockedFinishReasons, reason):
		out.Blocked = true
		out.BlockReason = string(reason)
		return out
	case reason == genai.FinishReasonMaxTokens:
		out.Truncated = true
	}

	out.Text = strings.TrimSpace(res.Text())
	return out
}

func listGeminiModels(ctx context.Context, settings Settings, apiKey string) ([]ModelInfo, error) {
	client, err := newGeminiClient(ctx, settings, apiKey)
	if err != nil {
		return nil, err
	}

	var models []ModelInfo
	for model, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("error listing gemini models: %w", err)
		}
		if slices.Contains(model.SupportedActions, "generateContent") {
			models = append(models, ModelInfo{Name: model.Name, DisplayName: model.DisplayName})
		}
	}
	return models, nil
}
