package service

import (
	"context"
	"log/slog"

	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/translation"
)

// FallbackPolicy is the verdict synthesized when the translation
// backend cannot judge an answer at all. It is a product policy, not an
// implementation detail, so it is named and injectable.
type FallbackPolicy struct {
	Correct bool
	Score   float64
}

// DefaultFallbackPolicy gives the learner the benefit of the doubt: an
// answer that could not be judged because of an infrastructure fault is
// marked correct with a middling score.
var DefaultFallbackPolicy = FallbackPolicy{Correct: true, Score: 0.5}

// EvaluationOutcome is the result of evaluating one submitted answer.
type EvaluationOutcome struct {
	// Evaluation is the verdict, real or synthesized. Never nil.
	Evaluation *domain.EvaluationResult `json:"evaluation"`
	// ReferenceTranslation is the reference the answer was judged
	// against: the card's own translation, a generated one, or — after
	// a generation failure — the learner's raw answer.
	ReferenceTranslation string `json:"reference_translation"`
	// HadTranslationError reports that generating a reference failed
	// and a fallback reference was substituted.
	HadTranslationError bool `json:"had_translation_error"`
}

// Evaluator judges one practice turn against the translation backend.
//
// It is the second fallback layer above the backend's own provider
// chain: whatever the backend does, EvaluateAnswer returns a usable,
// explicitly-flagged verdict. A remote-dependency failure never
// escapes this boundary.
type Evaluator struct {
	backend translation.Service
	policy  FallbackPolicy
	logger  *slog.Logger
}

// NewEvaluator creates an Evaluator over the given backend with the
// given fallback policy.
func NewEvaluator(backend translation.Service, policy FallbackPolicy, logger *slog.Logger) *Evaluator {
	if backend == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("backend cannot be nil for Evaluator")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Evaluator{
		backend: backend,
		policy:  policy,
		logger:  logger.With(slog.String("component", "evaluator")),
	}
}

// EvaluateAnswer judges the learner's raw answer for the given card.
//
// The reference translation is the card's user-supplied translation
// when present (no remote call); otherwise it is requested from the
// backend. If that request fails, the learner's own answer becomes the
// reference — an unverifiable answer must not be marked wrong because
// of an infrastructure fault — and HadTranslationError is set. The
// backend is then asked for a verdict; if that also fails, the fallback
// policy verdict is synthesized with the Fallback flag set.
func (e *Evaluator) EvaluateAnswer(
	ctx context.Context,
	session *domain.Session,
	card *domain.Card,
	answer string,
) *EvaluationOutcome {
	reference, hadTranslationError := e.resolveReference(ctx, session, card, answer)

	evalReq := translation.EvaluateRequest{
		Content:         card.Content,
		SourceLanguage:  session.SourceLanguage,
		TargetLanguage:  session.TargetLanguage,
		UserTranslation: answer,
		Reference:       reference,
	}

	evaluation, degraded, lastErr := translation.RunWithDegrade(ctx, e.logger, "evaluate_answer",
		[]translation.Attempt[*domain.EvaluationResult]{{
			Name: "backend",
			Run: func(ctx context.Context) (*domain.EvaluationResult, error) {
				return e.backend.EvaluateTranslation(ctx, evalReq)
			},
		}},
		func(err error) *domain.EvaluationResult {
			return e.fallbackVerdict(reference, err)
		})

	if degraded {
		e.logger.WarnContext(ctx, "backend evaluation failed, serving fallback verdict",
			"session_id", session.ID.String(),
			"card_id", card.ID.String(),
			"error", lastErr)
	}

	evaluation.TranslationError = hadTranslationError

	return &EvaluationOutcome{
		Evaluation:           evaluation,
		ReferenceTranslation: reference,
		HadTranslationError:  hadTranslationError,
	}
}

// resolveReference determines the reference translation for a turn.
// The boolean reports a generation failure.
func (e *Evaluator) resolveReference(
	ctx context.Context,
	session *domain.Session,
	card *domain.Card,
	answer string,
) (string, bool) {
	if card.UserTranslation != "" {
		return card.UserTranslation, false
	}

	generated, err := e.backend.GenerateTranslation(ctx, translation.GenerateRequest{
		Content:        card.Content,
		SourceLanguage: session.SourceLanguage,
		TargetLanguage: session.TargetLanguage,
	})
	if err != nil {
		e.logger.WarnContext(ctx, "reference generation failed, substituting learner's answer",
			"session_id", session.ID.String(),
			"card_id", card.ID.String(),
			"error", err)
		return answer, true
	}

	return generated, false
}

// fallbackVerdict synthesizes the policy verdict for an answer the
// backend could not judge.
func (e *Evaluator) fallbackVerdict(reference string, err error) *domain.EvaluationResult {
	feedback := "Your answer could not be evaluated because the translation service is unavailable."
	if err != nil {
		feedback = "Your answer could not be evaluated: " + err.Error()
	}

	return &domain.EvaluationResult{
		Correct:              e.policy.Correct,
		Score:                e.policy.Score,
		Feedback:             feedback,
		SuggestedTranslation: reference,
		Details: domain.EvaluationDetails{
			Grammar:    "unavailable",
			Vocabulary: "unavailable",
			Accuracy:   "unavailable",
		},
		Fallback: true,
	}
}
