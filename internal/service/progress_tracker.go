package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/store"
)

// CurrentCard is the card at a session's cursor together with 1-based
// progress through the deck.
type CurrentCard struct {
	Card     *domain.Card `json:"card"`
	Position int          `json:"position"`
	Total    int          `json:"total"`
}

// AdvanceResult is the outcome of advancing a session's cursor.
// Exactly one of NextCard (in-progress) or Stats (complete) is set.
type AdvanceResult struct {
	IsComplete bool                 `json:"is_complete"`
	NextCard   *CurrentCard         `json:"next_card,omitempty"`
	Stats      *domain.SessionStats `json:"stats,omitempty"`
}

// ProgressTracker owns a session's cursor, its completion transition,
// and its append-only response log.
type ProgressTracker struct {
	sessions store.SessionStore
	cards    store.CardStore
	logger   *slog.Logger
}

// NewProgressTracker creates a ProgressTracker.
func NewProgressTracker(sessions store.SessionStore, cards store.CardStore, logger *slog.Logger) *ProgressTracker {
	if sessions == nil || cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessions and cards stores cannot be nil for ProgressTracker")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressTracker{
		sessions: sessions,
		cards:    cards,
		logger:   logger.With(slog.String("component", "progress_tracker")),
	}
}

// GetCurrentCard resolves the card at the session's cursor.
// A completed session, or a cursor past the deck end, yields (nil, nil):
// "no card" is a state, not an error. A missing session or a deck entry
// that cannot be resolved yields a not-found error.
func (t *ProgressTracker) GetCurrentCard(ctx context.Context, sessionID uuid.UUID) (*CurrentCard, error) {
	session, err := t.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return t.currentCardOf(ctx, session)
}

// currentCardOf resolves the current card from an already-loaded session.
func (t *ProgressTracker) currentCardOf(ctx context.Context, session *domain.Session) (*CurrentCard, error) {
	cardID, ok := session.CurrentCardID()
	if !ok {
		return nil, nil
	}

	card, err := t.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deck card %s: %w", cardID, err)
	}

	return &CurrentCard{
		Card:     card,
		Position: session.CurrentCardIndex + 1,
		Total:    len(session.CardIDs),
	}, nil
}

// Advance moves the session's cursor forward by one card and persists
// the session. Advancing a completed session is idempotent: the
// existing terminal stats are returned and nothing is mutated or
// persisted. When the cursor passes the last card the completion
// timestamp is set (exactly once) and terminal stats are returned;
// otherwise the next card is returned.
func (t *ProgressTracker) Advance(ctx context.Context, sessionID uuid.UUID) (*AdvanceResult, error) {
	session, err := t.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsComplete() {
		stats := session.Stats()
		return &AdvanceResult{IsComplete: true, Stats: &stats}, nil
	}

	if err := session.Advance(); err != nil {
		return nil, err
	}

	if err := t.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	if session.IsComplete() {
		t.logger.InfoContext(ctx, "session completed",
			"session_id", session.ID.String(),
			"total_cards", len(session.CardIDs))
		stats := session.Stats()
		return &AdvanceResult{IsComplete: true, Stats: &stats}, nil
	}

	next, err := t.currentCardOf(ctx, session)
	if err != nil {
		return nil, err
	}

	return &AdvanceResult{IsComplete: false, NextCard: next}, nil
}

// RecordResponse appends a response with a fresh timestamp to the
// session's log and persists the session. Correctness is decided by the
// caller; the tracker only records it.
func (t *ProgressTracker) RecordResponse(
	ctx context.Context,
	session *domain.Session,
	cardID uuid.UUID,
	answer string,
	correct bool,
) error {
	if err := session.AppendResponse(cardID, answer, correct); err != nil {
		return err
	}

	if err := t.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	return nil
}

// GetSessionStats computes the session's statistics.
func (t *ProgressTracker) GetSessionStats(ctx context.Context, sessionID uuid.UUID) (*domain.SessionStats, error) {
	session, err := t.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	stats := session.Stats()
	return &stats, nil
}
