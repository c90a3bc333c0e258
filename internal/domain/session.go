package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session-specific validation errors
var (
	// ErrSessionIDEmpty is returned when a session ID is empty or nil.
	ErrSessionIDEmpty = errors.New("session ID cannot be empty")

	// ErrSessionLanguageEmpty is returned when a session's source or
	// target language is empty.
	ErrSessionLanguageEmpty = errors.New("session languages cannot be empty")

	// ErrCursorOutOfRange is returned when a session's cursor does not
	// satisfy 0 <= CurrentCardIndex <= len(CardIDs).
	ErrCursorOutOfRange = errors.New("session cursor out of range")
)

// Response records one submitted answer within a session. Responses are
// append-only: once recorded they are never mutated or removed.
type Response struct {
	CardID    uuid.UUID `json:"card_id"`
	Answer    string    `json:"answer"`
	Correct   bool      `json:"correct"`
	CreatedAt time.Time `json:"created_at"`
}

// Session represents one practice run through a fixed deck of cards.
//
// CardIDs is the deck, fixed at creation. CurrentCardIndex is the
// cursor into the deck and always satisfies
// 0 <= CurrentCardIndex <= len(CardIDs). CompletedAt is nil while the
// session is in progress and is set exactly once, when the cursor
// advances past the last card; from then on the session is terminal.
type Session struct {
	ID               uuid.UUID   `json:"id"`
	SourceLanguage   string      `json:"source_language"`
	TargetLanguage   string      `json:"target_language"`
	CardIDs          []uuid.UUID `json:"card_ids"`
	CurrentCardIndex int         `json:"current_card_index"`
	Responses        []Response  `json:"responses"`
	CreatedAt        time.Time   `json:"created_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
}

// NewSession creates a new Session over the given deck with the cursor
// at zero and an empty response log. An empty deck is legal; such a
// session completes on its first advance.
func NewSession(sourceLanguage, targetLanguage string, cardIDs []uuid.UUID) (*Session, error) {
	session := &Session{
		ID:               uuid.New(),
		SourceLanguage:   sourceLanguage,
		TargetLanguage:   targetLanguage,
		CardIDs:          cardIDs,
		CurrentCardIndex: 0,
		Responses:        []Response{},
		CreatedAt:        time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the Session has valid data.
// Returns an error if any field fails validation.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.SourceLanguage == "" || s.TargetLanguage == "" {
		return ErrSessionLanguageEmpty
	}

	if s.CurrentCardIndex < 0 || s.CurrentCardIndex > len(s.CardIDs) {
		return ErrCursorOutOfRange
	}

	return nil
}

// IsComplete reports whether the session has reached its terminal state.
func (s *Session) IsComplete() bool {
	return s.CompletedAt != nil
}

// HasCurrentCard reports whether the cursor points at a card that can
// still be answered.
func (s *Session) HasCurrentCard() bool {
	return !s.IsComplete() && s.CurrentCardIndex < len(s.CardIDs)
}

// CurrentCardID returns the ID of the card at the cursor. The boolean
// is false when the session is complete or the cursor is past the deck.
func (s *Session) CurrentCardID() (uuid.UUID, bool) {
	if !s.HasCurrentCard() {
		return uuid.Nil, false
	}
	return s.CardIDs[s.CurrentCardIndex], true
}

// Advance moves the cursor forward by one card. When the cursor passes
// the last card, CompletedAt is set; the guard ensures it is set at
// most once. Calling Advance on a completed session is an error: the
// caller is expected to treat completion as terminal.
func (s *Session) Advance() error {
	if s.IsComplete() {
		return ErrSessionComplete
	}

	if s.CurrentCardIndex < len(s.CardIDs) {
		s.CurrentCardIndex++
	}

	if s.CurrentCardIndex >= len(s.CardIDs) && s.CompletedAt == nil {
		now := time.Now().UTC()
		s.CompletedAt = &now
	}

	return nil
}

// AppendResponse appends a response for the given card to the session's
// log with a fresh timestamp. Responses may not be appended to a
// completed session, and the card must belong to the deck.
func (s *Session) AppendResponse(cardID uuid.UUID, answer string, correct bool) error {
	if s.IsComplete() {
		return ErrSessionComplete
	}

	inDeck := false
	for _, id := range s.CardIDs {
		if id == cardID {
			inDeck = true
			break
		}
	}
	if !inDeck {
		return ErrCardNotInDeck
	}

	s.Responses = append(s.Responses, Response{
		CardID:    cardID,
		Answer:    answer,
		Correct:   correct,
		CreatedAt: time.Now().UTC(),
	})

	return nil
}

// SessionStats summarizes a session's progress.
type SessionStats struct {
	SessionID     uuid.UUID `json:"session_id"`
	TotalCards    int       `json:"total_cards"`
	AnsweredCards int       `json:"answered_cards"`
	CorrectCards  int       `json:"correct_cards"`
	Accuracy      float64   `json:"accuracy"`
	IsComplete    bool      `json:"is_complete"`
}

// Stats computes the session's statistics from the deck and response
// log. Accuracy is the percentage of answered cards that were correct,
// or zero when nothing has been answered yet.
func (s *Session) Stats() SessionStats {
	stats := SessionStats{
		SessionID:     s.ID,
		TotalCards:    len(s.CardIDs),
		AnsweredCards: len(s.Responses),
		IsComplete:    s.IsComplete(),
	}

	for _, r := range s.Responses {
		if r.Correct {
			stats.CorrectCards++
		}
	}

	if stats.AnsweredCards > 0 {
		stats.Accuracy = float64(stats.CorrectCards) / float64(stats.AnsweredCards) * 100
	}

	return stats
}
