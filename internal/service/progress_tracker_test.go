package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/mocks"
	"github.com/lexitra/lexitra/internal/store"
)

// trackerFixture seeds a session over the given cards and returns the
// tracker with its backing stores.
func trackerFixture(t *testing.T, cards ...*domain.Card) (*ProgressTracker, *mocks.MockSessionStore, *domain.Session) {
	t.Helper()
	ctx := context.Background()

	cardStore := mocks.NewMockCardStore()
	deck := make([]uuid.UUID, 0, len(cards))
	for _, card := range cards {
		require.NoError(t, cardStore.Save(ctx, card))
		deck = append(deck, card.ID)
	}

	session, err := domain.NewSession("en", "de", deck)
	require.NoError(t, err)

	sessionStore := mocks.NewMockSessionStore()
	require.NoError(t, sessionStore.Save(ctx, session))

	return NewProgressTracker(sessionStore, cardStore, testLogger()), sessionStore, session
}

func TestGetCurrentCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dog := mustCard(t, "the dog", "en")
	cat := mustCard(t, "the cat", "en")
	tracker, _, session := trackerFixture(t, dog, cat)

	current, err := tracker.GetCurrentCard(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, dog.ID, current.Card.ID)
	assert.Equal(t, 1, current.Position)
	assert.Equal(t, 2, current.Total)

	// Missing session is a not-found error, not a nil result.
	_, err = tracker.GetCurrentCard(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestGetCurrentCardCompletedSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dog := mustCard(t, "the dog", "en")
	tracker, _, session := trackerFixture(t, dog)

	result, err := tracker.Advance(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, result.IsComplete)

	// "No card" is a state, not an error.
	current, err := tracker.GetCurrentCard(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestAdvanceCompletesSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dog := mustCard(t, "the dog", "en")
	cat := mustCard(t, "the cat", "en")
	tracker, sessionStore, session := trackerFixture(t, dog, cat)

	// First advance lands on the second card.
	result, err := tracker.Advance(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, result.IsComplete)
	require.NotNil(t, result.NextCard)
	assert.Equal(t, cat.ID, result.NextCard.Card.ID)
	assert.Equal(t, 2, result.NextCard.Position)
	assert.Nil(t, result.Stats)

	// Second advance moves past the last card: the session completes and
	// terminal stats come back instead of a card.
	result, err = tracker.Advance(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, result.IsComplete)
	assert.Nil(t, result.NextCard)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 2, result.Stats.TotalCards)
	assert.True(t, result.Stats.IsComplete)

	stored, err := sessionStore.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletedAt)
	completedAt := *stored.CompletedAt

	// Advancing a completed session is idempotent: same stats, no write.
	savesBefore := sessionStore.SaveCalls
	result, err = tracker.Advance(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, result.IsComplete)
	assert.Equal(t, 2, result.Stats.TotalCards)
	assert.Equal(t, savesBefore, sessionStore.SaveCalls)

	stored, err = sessionStore.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, completedAt, *stored.CompletedAt)
}

func TestAdvanceEmptyDeck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tracker, _, session := trackerFixture(t)

	result, err := tracker.Advance(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, result.IsComplete)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 0, result.Stats.TotalCards)
}

func TestRecordResponse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dog := mustCard(t, "the dog", "en")
	tracker, sessionStore, session := trackerFixture(t, dog)

	require.NoError(t, tracker.RecordResponse(ctx, session, dog.ID, "der Hund", true))

	stored, err := sessionStore.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, stored.Responses, 1)
	assert.Equal(t, dog.ID, stored.Responses[0].CardID)
	assert.Equal(t, "der Hund", stored.Responses[0].Answer)
	assert.True(t, stored.Responses[0].Correct)
	assert.False(t, stored.Responses[0].CreatedAt.IsZero())

	// A card outside the deck is rejected and nothing is persisted.
	savesBefore := sessionStore.SaveCalls
	err = tracker.RecordResponse(ctx, session, uuid.New(), "x", false)
	assert.ErrorIs(t, err, domain.ErrCardNotInDeck)
	assert.Equal(t, savesBefore, sessionStore.SaveCalls)
}

func TestGetSessionStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dog := mustCard(t, "the dog", "en")
	cat := mustCard(t, "the cat", "en")
	tracker, _, session := trackerFixture(t, dog, cat)

	require.NoError(t, tracker.RecordResponse(ctx, session, dog.ID, "der Hund", true))
	require.NoError(t, tracker.RecordResponse(ctx, session, cat.ID, "der Fisch", false))

	stats, err := tracker.GetSessionStats(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCards)
	assert.Equal(t, 2, stats.AnsweredCards)
	assert.Equal(t, 1, stats.CorrectCards)
	assert.InDelta(t, 50.0, stats.Accuracy, 0.001)
	assert.False(t, stats.IsComplete)
}
