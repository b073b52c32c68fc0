package api

import (
	"encoding/json"
	"log/slog"

	"review-reply/internal/database"
	"review-reply/internal/prompts"
	"review-reply/internal/session"
	"review-reply/pkg/api"
)

func convertProfile(p database.BusinessProfile) api.BusinessProfile {
	return api.BusinessProfile{
		Name:        p.Name,
		Location:    p.Location,
		Services:    p.Services,
		ManagerName: p.ManagerName,
		BrandVoice:  p.BrandVoice,
	}
}

func toDatabaseProfile(p api.BusinessProfile) database.BusinessProfile {
	return database.BusinessProfile{
		Name:        p.Name,
		Location:    p.Location,
		Services:    p.Services,
		ManagerName: p.ManagerName,
		BrandVoice:  p.BrandVoice,
	}
}

func toPromptProfile(p database.BusinessProfile) prompts.Profile {
	return prompts.Profile{
		Name:        p.Name,
		Location:    p.Location,
		Services:    p.Services,
		ManagerName: p.ManagerName,
		BrandVoice:  p.BrandVoice,
	}
}

func convertSession(s database.Session, historyCount int64, gateEnabled bool) api.Session {
	return api.Session{
		Id:           s.Id,
		Stage:        s.Stage,
		CreationTime: s.CreationTime,
		Profile:      convertProfile(s.Profile),
		HistoryCount: historyCount,
		GateEnabled:  gateEnabled,
	}
}

func convertPresets(presets session.Presets) []api.Preset {
	labels := presets.Labels()
	out := make([]api.Preset, 0, len(labels))
	for _, label := range labels {
		out = append(out, api.Preset{Label: label, Profile: convertProfile(presets[label].Profile())})
	}
	return out
}

func convertSentiment(tag *prompts.SentimentTag) *api.SentimentTag {
	if tag == nil {
		return nil
	}
	return &api.SentimentTag{Raw: tag.Raw, Sentiment: tag.Sentiment, Category: tag.Category}
}

func convertHistoryEntry(e database.HistoryEntry) api.HistoryEntry {
	var settings api.DraftSettings
	if len(e.Settings) > 0 {
		if err := json.Unmarshal(e.Settings, &settings); err != nil {
			slog.Warn("unable to decode draft settings for history entry", "entry_id", e.Id, "error", err)
		}
	}

	return api.HistoryEntry{
		Id:          e.Id,
		Timestamp:   e.Timestamp,
		ClientLabel: e.ClientLabel,
		Review:      e.Review,
		Reply:       e.Reply,
		Sentiment:   e.Sentiment,
		Settings:    settings,
	}
}

func convertHistory(entries []database.HistoryEntry) []api.HistoryEntry {
	out := make([]api.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, convertHistoryEntry(e))
	}
	return out
}
