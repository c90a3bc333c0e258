package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lexitra/lexitra/internal/api/shared"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/store"
)

// CreateCardRequest is the request body for creating a card.
type CreateCardRequest struct {
	Content         string   `json:"content" validate:"required"`
	SourceLanguage  string   `json:"source_language" validate:"required"`
	Comment         string   `json:"comment,omitempty"`
	UserTranslation string   `json:"user_translation,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// UpdateCardRequest is the request body for updating a card. Absent
// fields leave the card unchanged.
type UpdateCardRequest struct {
	Content         *string   `json:"content,omitempty"`
	Comment         *string   `json:"comment,omitempty"`
	UserTranslation *string   `json:"user_translation,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
}

// CardHandler handles card authoring HTTP requests.
type CardHandler struct {
	cards    store.CardStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards store.CardStore, logger *slog.Logger) *CardHandler {
	if cards == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cards store and logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cards:    cards,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "card_handler")),
	}
}

// RegisterRoutes mounts the card endpoints on the router.
func (h *CardHandler) RegisterRoutes(r chi.Router) {
	r.Post("/cards", h.CreateCard)
	r.Get("/cards/{id}", h.GetCard)
	r.Patch("/cards/{id}", h.UpdateCard)
}

// CreateCard handles POST /cards requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "content and source_language are required")
		return
	}

	card, err := domain.NewCard(req.Content, req.SourceLanguage)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid card", err)
		return
	}
	card.Comment = req.Comment
	card.UserTranslation = req.UserTranslation
	card.Tags = req.Tags

	if err := h.cards.Save(r.Context(), card); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// GetCard handles GET /cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	card, err := h.cards.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateCard handles PATCH /cards/{id} requests.
// The update also refreshes the card's modification timestamp.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var req UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	card, err := h.cards.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := card.Apply(domain.CardUpdate{
		Content:         req.Content,
		Comment:         req.Comment,
		UserTranslation: req.UserTranslation,
		Tags:            req.Tags,
	}); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid card update", err)
		return
	}

	if err := h.cards.Save(r.Context(), card); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}
