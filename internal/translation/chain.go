package translation

import (
	"context"
	"log/slog"

	"github.com/lexitra/lexitra/internal/domain"
)

// Chain implements Service over an ordered list of providers with a
// local heuristic behind them. Both operations try the primary
// provider, then exactly one secondary if one exists — never more than
// two provider attempts — and fall back to the heuristic when no
// provider exists or both failed. A Chain therefore only returns an
// error for caller mistakes (empty content), never for provider
// failures.
type Chain struct {
	logger    *slog.Logger
	providers []Provider
}

// maxProviders bounds the provider list: one primary, one secondary.
const maxProviders = 2

// NewChain creates a translation chain over the given providers, in
// preference order. Providers beyond the first two are ignored; zero
// providers is legal and leaves the chain running on its heuristic
// alone.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = slog.Default()
	}

	if len(providers) > maxProviders {
		logger.Warn("too many translation providers configured, keeping the first two",
			"configured", len(providers))
		providers = providers[:maxProviders]
	}

	return &Chain{
		logger:    logger.With(slog.String("component", "translation_chain")),
		providers: providers,
	}
}

// Ensure Chain implements the Service interface
var _ Service = (*Chain)(nil)

// ProviderNames returns the names of the configured providers in
// preference order. Used for startup logging and diagnostics.
func (c *Chain) ProviderNames() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// GenerateTranslation implements Service.GenerateTranslation.
// It walks the provider list and degrades to the heuristic baseline,
// so the returned translation is always usable.
func (c *Chain) GenerateTranslation(ctx context.Context, req GenerateRequest) (string, error) {
	if req.Content == "" {
		return "", ErrEmptyContent
	}

	attempts := make([]Attempt[string], 0, len(c.providers))
	for _, p := range c.providers {
		provider := p
		attempts = append(attempts, Attempt[string]{
			Name: provider.Name(),
			Run: func(ctx context.Context) (string, error) {
				text, err := provider.GenerateTranslation(ctx, req)
				if err != nil {
					return "", wrapProviderError(provider, "generate", req.SourceLanguage, req.TargetLanguage, err)
				}
				return text, nil
			},
		})
	}

	text, degraded, _ := RunWithDegrade(ctx, c.logger, "generate_translation", attempts,
		func(error) string { return heuristicTranslate(req) })

	if degraded {
		c.logger.InfoContext(ctx, "serving heuristic translation",
			"source_language", req.SourceLanguage,
			"target_language", req.TargetLanguage,
			"providers_tried", len(attempts))
	}

	return text, nil
}

// EvaluateTranslation implements Service.EvaluateTranslation.
// It walks the provider list and degrades to the heuristic text
// comparison, so a verdict is always produced.
func (c *Chain) EvaluateTranslation(ctx context.Context, req EvaluateRequest) (*domain.EvaluationResult, error) {
	if req.Content == "" {
		return nil, ErrEmptyContent
	}

	attempts := make([]Attempt[*domain.EvaluationResult], 0, len(c.providers))
	for _, p := range c.providers {
		provider := p
		attempts = append(attempts, Attempt[*domain.EvaluationResult]{
			Name: provider.Name(),
			Run: func(ctx context.Context) (*domain.EvaluationResult, error) {
				result, err := provider.EvaluateTranslation(ctx, req)
				if err != nil {
					return nil, wrapProviderError(provider, "evaluate", req.SourceLanguage, req.TargetLanguage, err)
				}
				return result, nil
			},
		})
	}

	result, degraded, _ := RunWithDegrade(ctx, c.logger, "evaluate_translation", attempts,
		func(error) *domain.EvaluationResult { return heuristicEvaluate(req) })

	if degraded {
		c.logger.InfoContext(ctx, "serving heuristic evaluation",
			"source_language", req.SourceLanguage,
			"target_language", req.TargetLanguage,
			"providers_tried", len(attempts))
	}

	return result, nil
}
