package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/mocks"
	"github.com/lexitra/lexitra/internal/translation"
)

// evaluatorFixture builds an evaluator over the given backend together
// with a one-card session for the card.
func evaluatorFixture(t *testing.T, backend translation.Service, card *domain.Card) (*Evaluator, *domain.Session) {
	t.Helper()
	session, err := domain.NewSession("en", "fr", []uuid.UUID{card.ID})
	require.NoError(t, err)
	return NewEvaluator(backend, DefaultFallbackPolicy, testLogger()), session
}

func TestEvaluateAnswerUsesCardTranslationAsReference(t *testing.T) {
	t.Parallel()

	card := mustCard(t, "hello", "en")
	card.UserTranslation = "bonjour"

	backend := &mocks.MockTranslationService{
		EvaluateFn: func(ctx context.Context, req translation.EvaluateRequest) (*domain.EvaluationResult, error) {
			assert.Equal(t, "bonjour", req.Reference)
			assert.Equal(t, "bonjour", req.UserTranslation)
			return &domain.EvaluationResult{Correct: true, Score: 1.0, SuggestedTranslation: req.Reference}, nil
		},
	}
	evaluator, session := evaluatorFixture(t, backend, card)

	outcome := evaluator.EvaluateAnswer(context.Background(), session, card, "bonjour")
	require.NotNil(t, outcome)

	assert.True(t, outcome.Evaluation.Correct)
	assert.Equal(t, 1.0, outcome.Evaluation.Score)
	assert.Equal(t, "bonjour", outcome.ReferenceTranslation)
	assert.False(t, outcome.HadTranslationError)
	assert.False(t, outcome.Evaluation.Fallback)

	// The card's own translation is used verbatim: no generate call.
	assert.Equal(t, 0, backend.GenerateCalls)
	assert.Equal(t, 1, backend.EvaluateCalls)
}

func TestEvaluateAnswerGeneratesReference(t *testing.T) {
	t.Parallel()

	card := mustCard(t, "hello", "en")

	backend := &mocks.MockTranslationService{Translation: "bonjour"}
	evaluator, session := evaluatorFixture(t, backend, card)

	outcome := evaluator.EvaluateAnswer(context.Background(), session, card, "salut")
	require.NotNil(t, outcome)

	assert.Equal(t, "bonjour", outcome.ReferenceTranslation)
	assert.False(t, outcome.HadTranslationError)
	assert.Equal(t, 1, backend.GenerateCalls)
}

func TestEvaluateAnswerSubstitutesAnswerWhenGenerationFails(t *testing.T) {
	t.Parallel()

	card := mustCard(t, "hello", "en")

	backend := &mocks.MockTranslationService{
		GenerateErr: errors.New("provider down"),
		Evaluation:  &domain.EvaluationResult{Correct: true, Score: 1.0},
	}
	evaluator, session := evaluatorFixture(t, backend, card)

	outcome := evaluator.EvaluateAnswer(context.Background(), session, card, "bonjour")
	require.NotNil(t, outcome)

	// The learner's own answer becomes the reference, explicitly flagged.
	assert.Equal(t, "bonjour", outcome.ReferenceTranslation)
	assert.True(t, outcome.HadTranslationError)
	assert.True(t, outcome.Evaluation.TranslationError)

	// The evaluation itself still ran against the backend.
	assert.True(t, outcome.Evaluation.Correct)
	assert.False(t, outcome.Evaluation.Fallback)
}

func TestEvaluateAnswerFallbackVerdict(t *testing.T) {
	t.Parallel()

	card := mustCard(t, "hello", "en")

	backend := &mocks.MockTranslationService{
		GenerateErr: errors.New("provider down"),
		EvaluateErr: errors.New("provider down"),
	}
	evaluator, session := evaluatorFixture(t, backend, card)

	outcome := evaluator.EvaluateAnswer(context.Background(), session, card, "bonjour")
	require.NotNil(t, outcome)
	require.NotNil(t, outcome.Evaluation, "a verdict must always be produced")

	// Benefit of the doubt: correct with a middling score, flagged.
	assert.True(t, outcome.Evaluation.Correct)
	assert.Equal(t, 0.5, outcome.Evaluation.Score)
	assert.True(t, outcome.Evaluation.Fallback)
	assert.True(t, outcome.HadTranslationError)
	assert.Equal(t, "unavailable", outcome.Evaluation.Details.Grammar)
	assert.Equal(t, "unavailable", outcome.Evaluation.Details.Vocabulary)
	assert.Equal(t, "unavailable", outcome.Evaluation.Details.Accuracy)
	assert.NotEmpty(t, outcome.Evaluation.Feedback)
}

func TestEvaluateAnswerCustomFallbackPolicy(t *testing.T) {
	t.Parallel()

	card := mustCard(t, "hello", "en")
	card.UserTranslation = "bonjour"

	backend := &mocks.MockTranslationService{EvaluateErr: errors.New("provider down")}
	session, err := domain.NewSession("en", "fr", []uuid.UUID{card.ID})
	require.NoError(t, err)

	strict := NewEvaluator(backend, FallbackPolicy{Correct: false, Score: 0}, testLogger())
	outcome := strict.EvaluateAnswer(context.Background(), session, card, "bonjour")

	assert.False(t, outcome.Evaluation.Correct)
	assert.Equal(t, 0.0, outcome.Evaluation.Score)
	assert.True(t, outcome.Evaluation.Fallback)
}
