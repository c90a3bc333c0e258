// Package api provides HTTP handlers for the API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lexitra/lexitra/internal/api/shared"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/service"
)

// CreateSessionRequest is the request body for creating a session.
type CreateSessionRequest struct {
	SourceLanguage  string   `json:"source_language" validate:"required"`
	TargetLanguage  string   `json:"target_language" validate:"required"`
	MaxCards        int      `json:"max_cards"`
	UseSampleDeck   bool     `json:"use_sample_deck"`
	Tags            []string `json:"tags,omitempty"`
	IncludeUntagged bool     `json:"include_untagged"`
}

// SessionResponse represents a session in API responses.
type SessionResponse struct {
	ID               string     `json:"id"`
	SourceLanguage   string     `json:"source_language"`
	TargetLanguage   string     `json:"target_language"`
	CardIDs          []string   `json:"card_ids"`
	CurrentCardIndex int        `json:"current_card_index"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// SubmitAnswerRequest is the request body for submitting an answer.
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// SessionHandler handles session-related HTTP requests: the five
// practice-session entry points.
type SessionHandler struct {
	practice        *service.PracticeService
	defaultMaxCards int
	logger          *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(practice *service.PracticeService, defaultMaxCards int, logger *slog.Logger) *SessionHandler {
	if practice == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("practice service and logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		practice:        practice,
		defaultMaxCards: defaultMaxCards,
		logger:          logger.With(slog.String("component", "session_handler")),
	}
}

// RegisterRoutes mounts the session endpoints on the router.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/{id}/card", h.GetCurrentCard)
	r.Post("/sessions/{id}/answer", h.SubmitAnswer)
	r.Post("/sessions/{id}/advance", h.AdvanceSession)
	r.Get("/sessions/{id}/stats", h.GetSessionStats)
}

// CreateSession handles POST /sessions requests.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SourceLanguage == "" || req.TargetLanguage == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "source_language and target_language are required")
		return
	}

	if req.MaxCards <= 0 {
		req.MaxCards = h.defaultMaxCards
	}

	session, err := h.practice.CreateSession(r.Context(), service.CreateSessionParams{
		SourceLanguage:  req.SourceLanguage,
		TargetLanguage:  req.TargetLanguage,
		MaxCards:        req.MaxCards,
		UseSampleDeck:   req.UseSampleDeck,
		Tags:            req.Tags,
		IncludeUntagged: req.IncludeUntagged,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}

// GetCurrentCard handles GET /sessions/{id}/card requests.
// A session with no current card yields 204 No Content.
func (h *SessionHandler) GetCurrentCard(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromRequest(w, r)
	if !ok {
		return
	}

	current, err := h.practice.GetCurrentCard(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if current == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, current)
}

// SubmitAnswer handles POST /sessions/{id}/answer requests.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromRequest(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := h.practice.SubmitAnswer(r.Context(), sessionID, req.Answer)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}

// AdvanceSession handles POST /sessions/{id}/advance requests.
func (h *SessionHandler) AdvanceSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.practice.AdvanceSession(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetSessionStats handles GET /sessions/{id}/stats requests.
func (h *SessionHandler) GetSessionStats(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromRequest(w, r)
	if !ok {
		return
	}

	stats, err := h.practice.GetSessionStats(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// sessionIDFromRequest parses the session ID path parameter, writing a
// 400 response on failure.
func (h *SessionHandler) sessionIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

// sessionToResponse transforms a domain session into its API shape.
func sessionToResponse(session *domain.Session) SessionResponse {
	cardIDs := make([]string, len(session.CardIDs))
	for i, id := range session.CardIDs {
		cardIDs[i] = id.String()
	}

	return SessionResponse{
		ID:               session.ID.String(),
		SourceLanguage:   session.SourceLanguage,
		TargetLanguage:   session.TargetLanguage,
		CardIDs:          cardIDs,
		CurrentCardIndex: session.CurrentCardIndex,
		CreatedAt:        session.CreatedAt,
		CompletedAt:      session.CompletedAt,
	}
}
