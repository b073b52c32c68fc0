package reply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"review-reply/internal/llm"
	"review-reply/internal/prompts"
)

const (
	MessageMissingKey  = "System Error: API Key missing."
	MessageEmptyReview = "Please paste a review first."

	WarningBlocked   = "The model declined to draft a reply to this review because of its safety filters. Edit the review and try again."
	WarningEmpty     = "The model returned an empty reply. Please try again."
	WarningTruncated = "The reply was cut off before it was finished. Try a shorter length limit or generate again."
)

var (
	ErrEmptyReview   = errors.New(MessageEmptyReview)
	ErrMissingAPIKey = errors.New(MessageMissingKey)
	ErrInvalidTone   = errors.New("invalid tone")
)

// GenerationError wraps a failure returned by the remote model.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "Error: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type Request struct {
	Review            string
	Tone              string
	APIKey            string
	Profile           prompts.Profile
	Constraints       prompts.Constraints
	ClassifySentiment bool
}

type Result struct {
	Reply          string
	Tone           string
	Warning        string
	Sentiment      *prompts.SentimentTag
	SentimentError string
}

type Drafter struct {
	factory     llm.Factory
	requiresKey bool
	defaultKey  string
}

// NewDrafter creates a drafter. defaultKey is the key from the secret store and
// is used when a request does not carry its own.
func NewDrafter(factory llm.Factory, requiresKey bool, defaultKey string) *Drafter {
	return &Drafter{factory: factory, requiresKey: requiresKey, defaultKey: defaultKey}
}

func (d *Drafter) resolveKey(requestKey string) string {
	if key := strings.TrimSpace(requestKey); key != "" {
		return key
	}
	return strings.TrimSpace(d.defaultKey)
}

// Validate runs the checks that reject a request without contacting the
// provider. A missing key is reported before an empty review.
func (d *Drafter) Validate(req Request) error {
	if d.requiresKey && d.resolveKey(req.APIKey) == "" {
		return ErrMissingAPIKey
	}

	if strings.TrimSpace(req.Review) == "" {
		return ErrEmptyReview
	}

	if _, err := prompts.NormalizeTone(req.Tone); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTone, err)
	}

	return nil
}

func (d *Drafter) Draft(ctx context.Context, req Request) (Result, error) {
	if err := d.Validate(req); err != nil {
		return Result{}, err
	}

	apiKey := d.resolveKey(req.APIKey)
	tone, err := prompts.NormalizeTone(req.Tone)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidTone, err)
	}

	prompt, err := prompts.ReplyPrompt(req.Review, tone, req.Profile, req.Constraints)
	if err != nil {
		return Result{}, err
	}

	generator, err := d.factory(ctx, apiKey)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return Result{}, ErrMissingAPIKey
		}
		return Result{}, &GenerationError{Err: err}
	}

	completion, err := generator.Generate(ctx, prompt)
	if err != nil {
		return Result{}, &GenerationError{Err: err}
	}

	result := Result{Tone: tone}
	switch {
	case completion.Blocked:
		slog.Warn("draft blocked by model", "reason", completion.BlockReason)
		result.Warning = WarningBlocked
		return result, nil
	case completion.Truncated:
		slog.Warn("draft truncated by model", "finish_reason", completion.FinishReason)
		result.Warning = WarningTruncated
		return result, nil
	case strings.TrimSpace(completion.Text) == "":
		slog.Warn("draft empty", "finish_reason", completion.FinishReason)
		result.Warning = WarningEmpty
		return result, nil
	}

	result.Reply = strings.TrimSpace(completion.Text)

	if req.ClassifySentiment {
		tag, err := classify(ctx, generator, req.Review)
		if err != nil {
			slog.Error("error classifying sentiment", "error", err)
			result.SentimentError = err.Error()
		} else {
			result.Sentiment = tag
		}
	}

	return result, nil
}

func classify(ctx context.Context, generator llm.Generator, review string) (*prompts.SentimentTag, error) {
	prompt, err := prompts.SentimentPrompt(review)
	if err != nil {
		return nil, err
	}

	completion, err := generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("sentiment classification failed: %w", err)
	}
	if completion.Blocked || strings.TrimSpace(completion.Text) == "" {
		return nil, errors.New("sentiment classification returned no answer")
	}

	tag := prompts.ParseSentiment(completion.Text)
	return &tag, nil
}
