package translation

import (
	"context"

	"github.com/lexitra/lexitra/internal/domain"
)

// GenerateRequest asks for a reference translation of a piece of text.
type GenerateRequest struct {
	Content        string
	SourceLanguage string
	TargetLanguage string
}

// EvaluateRequest asks for a verdict on a learner's translation,
// judged against a reference translation.
type EvaluateRequest struct {
	Content         string
	SourceLanguage  string
	TargetLanguage  string
	UserTranslation string
	Reference       string
}

// Service is the translation backend the session engine talks to.
// This interface is the boundary between the application core and
// external AI/LLM services; the core never imports a provider directly.
type Service interface {
	// GenerateTranslation produces a reference translation for the
	// given content.
	GenerateTranslation(ctx context.Context, req GenerateRequest) (string, error)

	// EvaluateTranslation judges the learner's translation against the
	// reference and returns a verdict.
	EvaluateTranslation(ctx context.Context, req EvaluateRequest) (*domain.EvaluationResult, error)
}

// Provider is one concrete remote translation/evaluation backend.
// Implementations carry their own bounded retry and request timeout;
// an error returned from a Provider means the call is not going to
// succeed and the caller should move on to the next fallback.
type Provider interface {
	Service

	// Name identifies the provider in logs and wrapped errors.
	Name() string

	// CredentialConfigured reports whether a credential was supplied at
	// construction. Used to enrich wrapped provider errors.
	CredentialConfigured() bool
}
