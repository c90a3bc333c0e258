package translation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/lexitra/lexitra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProvider implements Provider with scripted behavior.
type fakeProvider struct {
	name          string
	credential    bool
	generateErr   error
	evaluateErr   error
	translation   string
	evaluation    *domain.EvaluationResult
	generateCalls int
	evaluateCalls int
}

func (f *fakeProvider) Name() string               { return f.name }
func (f *fakeProvider) CredentialConfigured() bool { return f.credential }

func (f *fakeProvider) GenerateTranslation(ctx context.Context, req GenerateRequest) (string, error) {
	f.generateCalls++
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.translation, nil
}

func (f *fakeProvider) EvaluateTranslation(ctx context.Context, req EvaluateRequest) (*domain.EvaluationResult, error) {
	f.evaluateCalls++
	if f.evaluateErr != nil {
		return nil, f.evaluateErr
	}
	if f.evaluation != nil {
		return f.evaluation, nil
	}
	return &domain.EvaluationResult{Correct: true, Score: 0.9, SuggestedTranslation: req.Reference}, nil
}

func generateReq() GenerateRequest {
	return GenerateRequest{Content: "hello", SourceLanguage: "en", TargetLanguage: "de"}
}

func evaluateReq() EvaluateRequest {
	return EvaluateRequest{
		Content:         "hello",
		SourceLanguage:  "en",
		TargetLanguage:  "de",
		UserTranslation: "hallo",
		Reference:       "hallo",
	}
}

func TestChainUsesPrimaryProvider(t *testing.T) {
	t.Parallel()

	primary := &fakeProvider{name: "primary", credential: true, translation: "hallo"}
	secondary := &fakeProvider{name: "secondary", credential: true, translation: "servus"}
	chain := NewChain(nil, primary, secondary)

	text, err := chain.GenerateTranslation(context.Background(), generateReq())
	require.NoError(t, err)
	assert.Equal(t, "hallo", text)
	assert.Equal(t, 1, primary.generateCalls)
	assert.Equal(t, 0, secondary.generateCalls, "secondary must not be called when the primary succeeds")
}

func TestChainFallsBackToSecondary(t *testing.T) {
	t.Parallel()

	primary := &fakeProvider{name: "primary", credential: true, generateErr: errors.New("boom")}
	secondary := &fakeProvider{name: "secondary", credential: true, translation: "servus"}
	chain := NewChain(nil, primary, secondary)

	text, err := chain.GenerateTranslation(context.Background(), generateReq())
	require.NoError(t, err)
	assert.Equal(t, "servus", text)
	assert.Equal(t, 1, primary.generateCalls)
	assert.Equal(t, 1, secondary.generateCalls)
}

func TestChainNeverMakesThirdProviderAttempt(t *testing.T) {
	t.Parallel()

	first := &fakeProvider{name: "first", credential: true, generateErr: errors.New("down")}
	second := &fakeProvider{name: "second", credential: true, generateErr: errors.New("down")}
	third := &fakeProvider{name: "third", credential: true, translation: "never"}
	chain := NewChain(nil, first, second, third)

	text, err := chain.GenerateTranslation(context.Background(), generateReq())
	require.NoError(t, err)

	assert.Equal(t, 0, third.generateCalls, "a third provider must never be attempted")
	// Both configured providers failed, so the heuristic answered.
	assert.Equal(t, "hello", text)
}

func TestChainDegradesToHeuristic(t *testing.T) {
	t.Parallel()

	primary := &fakeProvider{name: "primary", credential: true, evaluateErr: errors.New("down")}
	secondary := &fakeProvider{name: "secondary", credential: true, evaluateErr: errors.New("down")}
	chain := NewChain(nil, primary, secondary)

	result, err := chain.EvaluateTranslation(context.Background(), evaluateReq())
	require.NoError(t, err, "a chain must absorb provider failures")
	require.NotNil(t, result)
	assert.True(t, result.Correct, "exact match should be judged correct by the heuristic")
	assert.Equal(t, 1.0, result.Score)
}

func TestChainWithZeroProvidersIsDeterministic(t *testing.T) {
	t.Parallel()

	chain := NewChain(nil)

	first, err := chain.GenerateTranslation(context.Background(), generateReq())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := chain.GenerateTranslation(context.Background(), generateReq())
		require.NoError(t, err)
		assert.Equal(t, first, again, "heuristic translation must be deterministic for identical input")
	}
}

func TestChainRejectsEmptyContent(t *testing.T) {
	t.Parallel()

	chain := NewChain(nil)

	_, err := chain.GenerateTranslation(context.Background(), GenerateRequest{})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = chain.EvaluateTranslation(context.Background(), EvaluateRequest{})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestWrapProviderError(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{name: "gemini", credential: true}
	err := wrapProviderError(p, "generate", "en", "de", errors.New("connection refused"))

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "gemini", provErr.Provider)
	assert.Equal(t, "generate", provErr.Operation)
	assert.Equal(t, "en", provErr.SourceLanguage)
	assert.Equal(t, "de", provErr.TargetLanguage)
	assert.True(t, provErr.CredentialSet)
	assert.ErrorIs(t, err, ErrProviderFailure)
	assert.NotErrorIs(t, err, ErrCredential)
}

func TestWrapProviderErrorRewritesCredentialFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"missing key", errors.New("API key not valid. Please pass a valid API key.")},
		{"unauthorized", errors.New("openai API returned 401: unauthorized")},
		{"permission denied", errors.New("rpc error: permission denied")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &fakeProvider{name: "openai", credential: false}
			err := wrapProviderError(p, "evaluate", "en", "de", tt.err)

			assert.ErrorIs(t, err, ErrCredential)
			assert.Contains(t, err.Error(), "API key appears to be missing or invalid",
				"credential failures must carry the configuration hint")
			assert.NotContains(t, err.Error(), tt.err.Error(),
				"the raw provider message must be rewritten")
		})
	}
}

func TestRunWithDegrade(t *testing.T) {
	t.Parallel()

	// First success wins.
	v, degraded, err := RunWithDegrade(context.Background(), testLogger(), "op",
		[]Attempt[int]{
			{Name: "a", Run: func(context.Context) (int, error) { return 0, errors.New("no") }},
			{Name: "b", Run: func(context.Context) (int, error) { return 42, nil }},
		},
		func(error) int { return -1 })
	assert.Equal(t, 42, v)
	assert.False(t, degraded)
	assert.NoError(t, err)

	// All failed: degrade, surfacing the last error.
	sentinel := errors.New("last")
	v, degraded, err = RunWithDegrade(context.Background(), testLogger(), "op",
		[]Attempt[int]{
			{Name: "a", Run: func(context.Context) (int, error) { return 0, errors.New("first") }},
			{Name: "b", Run: func(context.Context) (int, error) { return 0, sentinel }},
		},
		func(error) int { return -1 })
	assert.Equal(t, -1, v)
	assert.True(t, degraded)
	assert.ErrorIs(t, err, sentinel)

	// No attempts at all still degrades.
	v, degraded, err = RunWithDegrade(context.Background(), testLogger(), "op",
		nil, func(error) int { return -1 })
	assert.Equal(t, -1, v)
	assert.True(t, degraded)
	assert.NoError(t, err)
}
