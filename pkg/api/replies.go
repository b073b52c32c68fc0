package api

import "time"

type ReplyRequest struct {
	Review string `json:"review"`
	Tone   string `json:"tone"`
	APIKey string `json:"api_key"`

	MaxWords     int    `json:"max_words"`
	Language     string `json:"language"`
	Instructions string `json:"instructions"`

	ClassifySentiment bool   `json:"classify_sentiment"`
	Save              bool   `json:"save"`
	ClientLabel       string `json:"client_label"`
}

type SentimentTag struct {
	Raw       string `json:"raw"`
	Sentiment string `json:"sentiment"`
	Category  string `json:"category"`
}

type ReplyResponse struct {
	Reply          string        `json:"reply"`
	Tone           string        `json:"tone"`
	Warning        string        `json:"warning,omitempty"`
	Sentiment      *SentimentTag `json:"sentiment,omitempty"`
	SentimentError string        `json:"sentiment_error,omitempty"`
	HistoryEntry   *HistoryEntry `json:"history_entry,omitempty"`
}

type DraftSettings struct {
	Tone     string `json:"tone"`
	Language string `json:"language,omitempty"`
	MaxWords int    `json:"max_words,omitempty"`
}

type HistoryEntry struct {
	Id          uint          `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	ClientLabel string        `json:"client_label"`
	Review      string        `json:"review"`
	Reply       string        `json:"reply"`
	Sentiment   string        `json:"sentiment,omitempty"`
	Settings    DraftSettings `json:"settings"`
}

type SaveHistoryRequest struct {
	ClientLabel string        `json:"client_label"`
	Review      string        `json:"review"`
	Reply       string        `json:"reply"`
	Sentiment   string        `json:"sentiment"`
	Settings    DraftSettings `json:"settings"`
}

type ExportParams struct {
	Archive bool `schema:"archive"`
}
