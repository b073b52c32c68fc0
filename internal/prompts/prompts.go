package prompts

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

type Profile struct {
	Name        string
	Location    string
	Services    string
	ManagerName string
	BrandVoice  string
}

type Constraints struct {
	MaxWords     int
	Language     string
	Instructions string
}

const replyTemplate = `{{if .name}}You are {{if .manager}}{{.manager}}, the manager of {{else}}the manager of {{end}}{{.name}}{{if .location}} in {{.location}}{{end}}.
{{if .services}}The business offers: {{.services}}.
{{end}}{{if .brand_voice}}Brand voice: {{.brand_voice}}.
{{end}}{{else}}You are a helpful hotel manager.
{{end}}Write a reply to this customer review: "{{.review}}"
Tone: {{.tone}}.
{{if .max_words}}Keep the reply under {{.max_words}} words.
{{end}}{{if .language}}Write the reply in {{.language}}.
{{end}}{{if .instructions}}Additional instructions: {{.instructions}}
{{end}}{{if .manager}}Sign the reply as {{.manager}}.
{{end}}Result should be ready to copy-paste. No quotes.`

const sentimentTemplate = `Classify the customer review below.
Answer with exactly one line in the format "Sentiment | Category" where Sentiment is one of Positive, Neutral or Negative and Category is a one or two word topic such as Cleanliness, Staff, Price, Food or Location.
Review: "{{.review}}"`

var (
	replyPrompt     = prompts.NewPromptTemplate(replyTemplate, []string{"review", "tone"})
	sentimentPrompt = prompts.NewPromptTemplate(sentimentTemplate, []string{"review"})
)

// ReplyPrompt renders the instruction sent to the model for drafting a reply.
// Every non-empty profile field is embedded as given.
func ReplyPrompt(review, tone string, profile Profile, constraints Constraints) (string, error) {
	values := map[string]any{
		"review":       strings.TrimSpace(review),
		"tone":         tone,
		"name":         strings.TrimSpace(profile.Name),
		"location":     strings.TrimSpace(profile.Location),
		"services":     strings.TrimSpace(profile.Services),
		"manager":      strings.TrimSpace(profile.ManagerName),
		"brand_voice":  strings.TrimSpace(profile.BrandVoice),
		"language":     strings.TrimSpace(constraints.Language),
		"instructions": strings.TrimSpace(constraints.Instructions),
		"max_words":    "",
	}
	if constraints.MaxWords > 0 {
		values["max_words"] = fmt.Sprint(constraints.MaxWords)
	}

	prompt, err := replyPrompt.Format(values)
	if err != nil {
		return "", fmt.Errorf("error rendering reply prompt: %w", err)
	}
	return prompt, nil
}

func SentimentPrompt(review string) (string, error) {
	prompt, err := sentimentPrompt.Format(map[string]any{"review": strings.TrimSpace(review)})
	if err != nil {
		return "", fmt.Errorf("error rendering sentiment prompt: %w", err)
	}
	return prompt, nil
}

type SentimentTag struct {
	Raw       string
	Sentiment string
	Category  string
}

// ParseSentiment splits a "Sentiment | Category" answer. The answer is not
// validated, anything without a separator is kept as the sentiment.
func ParseSentiment(raw string) SentimentTag {
	raw = strings.TrimSpace(raw)
	tag := SentimentTag{Raw: raw}
	sentiment, category, found := strings.Cut(raw, "|")
	tag.Sentiment = strings.TrimSpace(sentiment)
	if found {
		tag.Category = strings.TrimSpace(category)
	}
	return tag
}
