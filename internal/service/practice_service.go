package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/store"
)

// CreateSessionParams describes a new practice session.
type CreateSessionParams struct {
	SourceLanguage  string
	TargetLanguage  string
	MaxCards        int
	UseSampleDeck   bool
	Tags            []string
	IncludeUntagged bool
}

// PracticeService is the façade composing deck selection, progress
// tracking, and answer evaluation into the session lifecycle the
// outside world calls. It is also the gatekeeper for illegal state
// transitions, such as answering a finished session.
type PracticeService struct {
	selector  *CardSelector
	tracker   *ProgressTracker
	evaluator *Evaluator
	sessions  store.SessionStore
	cards     store.CardStore
	logger    *slog.Logger
}

// NewPracticeService creates a PracticeService.
func NewPracticeService(
	selector *CardSelector,
	tracker *ProgressTracker,
	evaluator *Evaluator,
	sessions store.SessionStore,
	cards store.CardStore,
	logger *slog.Logger,
) *PracticeService {
	if selector == nil || tracker == nil || evaluator == nil || sessions == nil || cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("all dependencies are required for PracticeService")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PracticeService{
		selector:  selector,
		tracker:   tracker,
		evaluator: evaluator,
		sessions:  sessions,
		cards:     cards,
		logger:    logger.With(slog.String("component", "practice_service")),
	}
}

// CreateSession builds a deck via the card selector, creates a session
// with the cursor at zero and an empty response log, persists it, and
// returns it. An empty deck is legal and yields an immediately
// completable session.
func (s *PracticeService) CreateSession(ctx context.Context, params CreateSessionParams) (*domain.Session, error) {
	deck, err := s.selector.SelectCards(ctx, SelectionParams{
		SourceLanguage:  params.SourceLanguage,
		TargetLanguage:  params.TargetLanguage,
		MaxCards:        params.MaxCards,
		UseSampleDeck:   params.UseSampleDeck,
		Tags:            params.Tags,
		IncludeUntagged: params.IncludeUntagged,
	})
	if err != nil {
		return nil, NewServiceError("create_session", "failed to build deck", err)
	}

	session, err := domain.NewSession(params.SourceLanguage, params.TargetLanguage, deck)
	if err != nil {
		return nil, NewServiceError("create_session", "invalid session", err)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, NewServiceError("create_session", "failed to persist session", err)
	}

	s.logger.InfoContext(ctx, "session created",
		"session_id", session.ID.String(),
		"source_language", session.SourceLanguage,
		"target_language", session.TargetLanguage,
		"deck_size", len(session.CardIDs))
	return session, nil
}

// GetCurrentCard returns the card at the session's cursor, or (nil, nil)
// when the session has no current card.
func (s *PracticeService) GetCurrentCard(ctx context.Context, sessionID uuid.UUID) (*CurrentCard, error) {
	current, err := s.tracker.GetCurrentCard(ctx, sessionID)
	if err != nil {
		return nil, relabelSessionNotFound(err)
	}
	return current, nil
}

// AdvanceSession moves the session's cursor forward. Advancing a
// completed session is idempotent and returns the terminal stats.
func (s *PracticeService) AdvanceSession(ctx context.Context, sessionID uuid.UUID) (*AdvanceResult, error) {
	result, err := s.tracker.Advance(ctx, sessionID)
	if err != nil {
		return nil, relabelSessionNotFound(err)
	}
	return result, nil
}

// GetSessionStats returns the session's statistics.
func (s *PracticeService) GetSessionStats(ctx context.Context, sessionID uuid.UUID) (*domain.SessionStats, error) {
	stats, err := s.tracker.GetSessionStats(ctx, sessionID)
	if err != nil {
		return nil, relabelSessionNotFound(err)
	}
	return stats, nil
}

// SubmitAnswer judges the learner's raw answer against the card at the
// session's cursor and records the response. It fails with
// ErrSessionComplete when the session is already complete, and with a
// not-found error when the deck card cannot be resolved. Backend
// failures never surface here: the evaluator collapses them into a
// degraded verdict, so a session can always be completed with zero
// working providers.
func (s *PracticeService) SubmitAnswer(
	ctx context.Context,
	sessionID uuid.UUID,
	answer string,
) (*EvaluationOutcome, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, relabelSessionNotFound(err)
	}

	if session.IsComplete() || session.CurrentCardIndex >= len(session.CardIDs) {
		return nil, ErrSessionComplete
	}

	cardID := session.CardIDs[session.CurrentCardIndex]
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deck card %s: %w", cardID, err)
	}

	outcome := s.evaluator.EvaluateAnswer(ctx, session, card, answer)

	if err := s.tracker.RecordResponse(ctx, session, cardID, answer, outcome.Evaluation.Correct); err != nil {
		return nil, NewServiceError("submit_answer", "failed to record response", err)
	}

	return outcome, nil
}

// relabelSessionNotFound converts a missing-session store error into
// ErrSessionExpired. Only session lookups are relabeled; a missing
// card keeps its not-found identity.
func relabelSessionNotFound(err error) error {
	if errors.Is(err, store.ErrSessionNotFound) {
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return err
}
