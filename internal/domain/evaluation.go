package domain

// EvaluationDetails carries per-aspect feedback on a submitted
// translation. Providers fill these from the model response; fallback
// verdicts mark them unavailable.
type EvaluationDetails struct {
	Grammar    string `json:"grammar,omitempty"`
	Vocabulary string `json:"vocabulary,omitempty"`
	Accuracy   string `json:"accuracy,omitempty"`
}

// EvaluationResult is the verdict on one submitted answer.
//
// Correct and Score come from the judging backend (or the local
// heuristic). SuggestedTranslation is the reference the answer was
// judged against.
//
// TranslationError and Fallback are transient flags attached by the
// Evaluator, not by the backend: TranslationError marks that generating
// a reference translation failed and the learner's own answer was
// substituted; Fallback marks that this result is a last-resort
// synthesized verdict rather than a backend judgment. Neither flag is
// persisted with the response.
type EvaluationResult struct {
	Correct              bool              `json:"correct"`
	Score                float64           `json:"score"`
	Feedback             string            `json:"feedback"`
	SuggestedTranslation string            `json:"suggested_translation"`
	Details              EvaluationDetails `json:"details"`
	TranslationError     bool              `json:"translation_error,omitempty"`
	Fallback             bool              `json:"fallback,omitempty"`
}
