package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/store"
)

// SelectionParams describes the deck a new session should be built from.
type SelectionParams struct {
	SourceLanguage string
	TargetLanguage string
	MaxCards       int
	// UseSampleDeck selects the bundled starter deck instead of the
	// stored card collection.
	UseSampleDeck bool
	// Tags filters stored cards to those carrying any of the given tags
	// (OR semantics). Ignored in sample-deck mode.
	Tags []string
	// IncludeUntagged additionally matches stored cards with no tags.
	IncludeUntagged bool
}

// CardSelector builds the ordered deck of card IDs for a new session,
// from the bundled sample deck or from the stored card collection.
type CardSelector struct {
	cards  store.CardStore
	logger *slog.Logger
	rng    *rand.Rand
}

// NewCardSelector creates a CardSelector. A nil rng gets a time-seeded
// source; tests inject a fixed seed for reproducible sampling.
func NewCardSelector(cards store.CardStore, logger *slog.Logger, rng *rand.Rand) *CardSelector {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cards store cannot be nil for CardSelector")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &CardSelector{
		cards:  cards,
		logger: logger.With(slog.String("component", "card_selector")),
		rng:    rng,
	}
}

// SelectCards returns the ordered deck for a new session, at most
// MaxCards long. An empty result is legal: the session it seeds simply
// completes on its first advance.
func (s *CardSelector) SelectCards(ctx context.Context, params SelectionParams) ([]uuid.UUID, error) {
	if params.MaxCards <= 0 {
		return nil, ErrNoCardsRequested
	}

	if params.UseSampleDeck {
		return s.selectSampleCards(ctx, params)
	}
	return s.selectStoredCards(ctx, params)
}

// selectSampleCards filters the bundled deck by source language,
// truncates deterministically to the first MaxCards, and upserts each
// selected card into storage so later lookups by ID succeed.
func (s *CardSelector) selectSampleCards(ctx context.Context, params SelectionParams) ([]uuid.UUID, error) {
	cards := domain.SampleCards(params.SourceLanguage)
	if len(cards) > params.MaxCards {
		cards = cards[:params.MaxCards]
	}

	ids := make([]uuid.UUID, 0, len(cards))
	for _, card := range cards {
		if err := s.cards.Save(ctx, card); err != nil {
			return nil, fmt.Errorf("failed to persist sample card: %w", err)
		}
		ids = append(ids, card.ID)
	}

	s.logger.DebugContext(ctx, "built sample deck",
		"source_language", params.SourceLanguage,
		"deck_size", len(ids))
	return ids, nil
}

// selectStoredCards matches the stored collection against the language
// and tag filter, then draws a uniform random sample without
// replacement when more cards match than requested.
func (s *CardSelector) selectStoredCards(ctx context.Context, params SelectionParams) ([]uuid.UUID, error) {
	matches, err := s.cards.List(ctx, store.CardFilter{
		SourceLanguage:  params.SourceLanguage,
		Tags:            params.Tags,
		IncludeUntagged: params.IncludeUntagged,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	ids := make([]uuid.UUID, len(matches))
	for i, card := range matches {
		ids[i] = card.ID
	}

	if len(ids) > params.MaxCards {
		sampled := make([]uuid.UUID, 0, params.MaxCards)
		for _, i := range s.rng.Perm(len(ids))[:params.MaxCards] {
			sampled = append(sampled, ids[i])
		}
		ids = sampled
	}

	s.logger.DebugContext(ctx, "built stored deck",
		"source_language", params.SourceLanguage,
		"matched", len(matches),
		"deck_size", len(ids))
	return ids, nil
}
