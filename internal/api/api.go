package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"review-reply/internal/database"
	"review-reply/internal/export"
	"review-reply/internal/llm"
	"review-reply/internal/prompts"
	"review-reply/internal/reply"
	"review-reply/internal/session"
	"review-reply/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const APIKeyHeader = "X-API-Key"

// ModelLister returns the models the key can use. An empty key means the
// configured key should be used.
type ModelLister func(ctx context.Context, apiKey string) ([]llm.ModelInfo, error)

type Options struct {
	Archiver          *export.Archiver
	ListModels        ModelLister
	GeneratePerMinute float64
	GenerateBurst     int
}

type ReviewService struct {
	sessions   *session.Manager
	drafter    *reply.Drafter
	archiver   *export.Archiver
	listModels ModelLister
	limiter    *sessionLimiter
}

func NewReviewService(sessions *session.Manager, drafter *reply.Drafter, opts Options) *ReviewService {
	return &ReviewService{
		sessions:   sessions,
		drafter:    drafter,
		archiver:   opts.Archiver,
		listModels: opts.ListModels,
		limiter:    newSessionLimiter(opts.GeneratePerMinute, opts.GenerateBurst),
	}
}

func (s *ReviewService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Get("/tones", RestHandler(s.ListTones))
	r.Get("/presets", RestHandler(s.ListPresets))
	r.Get("/models", RestHandler(s.ListModels))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", RestHandler(s.CreateSession))
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", RestHandler(s.GetSession))
			r.Delete("/", RestHandler(s.DeleteSession))
			r.Post("/login", RestHandler(s.Login))
			r.Post("/logout", RestHandler(s.Logout))
			r.Post("/profile", RestHandler(s.SubmitProfile))
			r.Post("/profile/edit", RestHandler(s.EditProfile))
			r.Post("/profile/skip", RestHandler(s.SkipProfile))
			r.Post("/preset", RestHandler(s.ApplyPreset))
			r.Post("/replies", RestHandler(s.DraftReply))
			r.Get("/history", RestHandler(s.GetHistory))
			r.Post("/history", RestHandler(s.SaveHistory))
			r.Delete("/history", RestHandler(s.ClearHistory))
			r.Get("/history/export", s.ExportHistory)
		})
	})
}

func sessionError(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return CodedError(http.StatusNotFound, err)
	case errors.Is(err, session.ErrInvalidPassword), errors.Is(err, session.ErrLoginRequired):
		return CodedError(http.StatusUnauthorized, err)
	case errors.Is(err, session.ErrSetupIncomplete):
		return CodedError(http.StatusConflict, err)
	case errors.Is(err, session.ErrProfileNameRequired):
		return CodedError(http.StatusBadRequest, err)
	case errors.Is(err, session.ErrPresetNotFound):
		return CodedError(http.StatusNotFound, err)
	default:
		return CodedError(http.StatusInternalServerError, err)
	}
}

func draftError(err error) error {
	var genErr *reply.GenerationError
	switch {
	case errors.Is(err, reply.ErrEmptyReview), errors.Is(err, reply.ErrMissingAPIKey), errors.Is(err, reply.ErrInvalidTone):
		return CodedError(http.StatusBadRequest, err)
	case errors.As(err, &genErr):
		return CodedError(http.StatusBadGateway, err)
	default:
		return CodedError(http.StatusInternalServerError, err)
	}
}

func (s *ReviewService) sessionResponse(ctx context.Context, sess database.Session) (api.Session, error) {
	count, err := s.sessions.HistoryCount(ctx, sess.Id)
	if err != nil {
		return api.Session{}, CodedError(http.StatusInternalServerError, err)
	}
	return convertSession(sess, count, s.sessions.GateEnabled()), nil
}

func (s *ReviewService) ListTones(r *http.Request) (any, error) {
	return api.TonesResponse{Tones: prompts.Tones(), Default: prompts.ToneProfessional}, nil
}

func (s *ReviewService) ListPresets(r *http.Request) (any, error) {
	return convertPresets(s.sessions.Presets()), nil
}

func (s *ReviewService) ListModels(r *http.Request) (any, error) {
	if s.listModels == nil {
		return nil, CodedErrorf(http.StatusNotImplemented, "model listing is not configured")
	}

	models, err := s.listModels(r.Context(), strings.TrimSpace(r.Header.Get(APIKeyHeader)))
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return nil, CodedError(http.StatusBadRequest, reply.ErrMissingAPIKey)
		}
		return nil, CodedError(http.StatusBadGateway, &reply.GenerationError{Err: err})
	}

	out := make([]api.Model, 0, len(models))
	for _, m := range models {
		out = append(out, api.Model{Name: m.Name, DisplayName: m.DisplayName})
	}
	return out, nil
}

func (s *ReviewService) CreateSession(r *http.Request) (any, error) {
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		return nil, sessionError(err)
	}
	return s.sessionResponse(r.Context(), sess)
}

func (s *ReviewService) GetSession(r *http.Request) (any, error) {
	sessionId, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(r.Context(), sessionId)
	if err != nil {
		return nil, sessionError(err)
	}
	return s.sessionResponse(r.Context(), sess)
}

func (s *ReviewService) DeleteSession(r *http.Request) (any, error) {
	sessionId, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(r.Context(), sessionId); err != nil {
		return nil, sessionError(err)
	}
	s.limiter.Forget(sessionId)

	return nil, nil
}

// sessionAction runs a stage transition and returns the updated session.
func (s *ReviewService) sessionAction(r *http.Request, action func(ctx context.Context, sessionId uuid.UUID) (database.Session, error)) (any, error) {
	sessionId, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	sess, err := action(r.Context(), sessionId)
	if err != nil {
		return nil, sessionError(err)
	}
	return s.sessionResponse(r.Context(), sess)
}

func (s *ReviewService) Login(r *http.Request) (any, error) {
	req, err := ParseRequest[api.LoginRequest](r)
	if err != nil {
		return nil, err
	}

	return s.sessionAction(r, func(ctx context.Context, sessionId uuid.UUID) (database.Session, error) {
		return s.sessions.Login(ctx, sessionId, req.Password)
	})
}

func (s *ReviewService) Logout(r *http.Request) (any, error) {
	return s.sessionAction(r, s.sessions.Logout)
}

func (s *ReviewService) SubmitProfile(r *http.Request) (any, error) {
	req, err := ParseRequest[api.BusinessProfile](r)
	if err != nil {
		return nil, err
	}

	return s.sessionAction(r, func(ctx context.Context, sessionId uuid.UUID) (database.Session, error) {
		return s.sessions.SubmitProfile(ctx, sessionId, toDatabaseProfile(req))
	})
}

func (s *ReviewService) EditProfile(r *http.Request) (any, error) {
	return s.sessionAction(r, s.sessions.EditProfile)
}

func (s *ReviewService) SkipProfile(r *http.Request) (any, error) {
	return s.sessionAction(r, s.sessions.SkipProfile)
}

func (s *ReviewService) ApplyPreset(r *http.Request) (any, error) {
	req, err := ParseRequest[api.PresetRequest](r)
	if err != nil {
		return nil, err
	}

	return s.sessionAction(r, func(ctx context.Context, sessionId uuid.UUID) (database.Session, error) {
		return s.sessions.ApplyPreset(ctx, sessionId, req.Label)
	})
}

func (s *ReviewService) DraftReply(r *http.Request) (any, error) {
	sessionId, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.ReplyRequest](r)
	if err != nil {
		return nil, err
	}

	ctx := r.Context()

	sess, err := s.sessions.Ready(ctx, sessionId)
	if err != nil {
		return nil, sessionError(err)
	}

	if req.MaxWords < 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "max_words must not be negative")
	}

	draftReq := reply.Request{
		Review:  req.Review,
		Tone:    req.Tone,
		APIKey:  req.APIKey,
		Profile: toPromptProfile(sess.Profile),
		Constraints: prompts.Constraints{
			MaxWords:     req.MaxWords,
			Language:     strings.TrimSpace(req.Language),
			Instructions: strings.TrimSpace(req.Instructions),
		},
		ClassifySentiment: req.ClassifySentiment,
	}

	// Only requests that reach the provider spend a rate limit token.
	if err := s.drafter.Validate(draftReq); err != nil {
		return nil, draftError(err)
	}

	if !s.limiter.Allow(sessionId) {
		slog.Warn("draft rate limit exceeded", "session_id", sessionId)
		return nil, CodedErrorf(http.StatusTooManyRequests, "too many drafts requested, please wait a moment and try again")
	}

	result, err := s.drafter.Draft(ctx, draftReq)
	if err != nil {
		return nil, draftError(err)
	}

	res := api.ReplyResponse{
		Reply:          result.Reply,
		Tone:           result.Tone,
		Warning:        result.Warning,
		Sentiment:      convertSentiment(result.Sentiment),
		SentimentError: result.SentimentError,
	}

	if req.Save && result.Reply != "" {
		var sentiment string
		if result.Sentiment != nil {
			sentiment = result.Sentiment.Raw
		}

		entry, err := s.sessions.AppendHistory(ctx, sessionId, session.NewHistoryEntry{
			ClientLabel: req.ClientLabel,
			Review:      req.Review,
			Reply:       result.Reply,
			Sentiment:   sentiment,
			Settings: database.DraftSettings{
				Tone:     result.Tone,
				Language: strings.TrimSpace(req.Language),
				MaxWords: req.MaxWords,
			},
		})
		if err != nil {
			return nil, sessionError(err)
		}

		converted := convertHistoryEntry(entry)
		res.HistoryEntry = &converted
	}

	return res, nil
}

func (s *ReviewService) GetHistory(r *http.Request) (any, error) {
	sessionId, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	history, err := s.sessions.ListHistory(r.Context(), sessionId)
	if err != nil {
		return nil, sessionError(err)
	}
	return convertHistory(history), nil
}

func (s *ReviewService) SaveHistory(r *http.Request) (any, error) {
	sessionId, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.SaveHistoryRequest](r)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Review) == "" {
		return nil, CodedError(http.StatusBadRequest, reply.ErrEmptyReview)
	}
	if strings.TrimSpace(req.Reply) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "reply must not be empty")
	}

	tone, err := prompts.NormalizeTone(req.Settings.Tone)
	if err != nil {
		return nil, CodedError(http.StatusBadRequest, err)
	}

	entry, err := s.sessions.AppendHistory(r.Context(), sessionId, session.NewHistoryEntry{
		ClientLabel: req.ClientLabel,
		Review:      req.Review,
		Reply:       req.Reply,
		Sentiment:   req.Sentiment,
		Settings: database.DraftSettings{
			Tone:     tone,
			Language: strings.TrimSpace(req.Settings.Language),
			MaxWords: req.Settings.MaxWords,
		},
	})
	if err != nil {
		return nil, sessionError(err)
	}

	return convertHistoryEntry(entry), nil
}

func (s *ReviewService) ClearHistory(r *http.Request) (any, error) {
	sessionId, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	if err := s.sessions.ClearHistory(r.Context(), sessionId); err != nil {
		return nil, sessionError(err)
	}
	return nil, nil
}

// ExportHistory streams the session history as a CSV attachment. With
// archive=true a copy is also written to the export store.
func (s *ReviewService) ExportHistory(w http.ResponseWriter, r *http.Request) {
	data, fileName, err := s.renderExport(r)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("error writing csv export", "error", err)
	}
}

func (s *ReviewService) renderExport(r *http.Request) ([]byte, string, error) {
	sessionId, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, "", err
	}

	params, err := ParseRequestQueryParams[api.ExportParams](r)
	if err != nil {
		return nil, "", err
	}

	if params.Archive && s.archiver == nil {
		return nil, "", CodedErrorf(http.StatusBadRequest, "export archiving is not configured")
	}

	ctx := r.Context()

	history, err := s.sessions.ListHistory(ctx, sessionId)
	if err != nil {
		return nil, "", sessionError(err)
	}

	data, err := export.RenderCSV(history)
	if err != nil {
		return nil, "", CodedError(http.StatusInternalServerError, err)
	}

	fileName := export.FileName(time.Now())

	if params.Archive {
		if _, err := s.archiver.Archive(ctx, sessionId, fileName, data); err != nil {
			return nil, "", CodedError(http.StatusInternalServerError, err)
		}
	}

	return data, fileName, nil
}
