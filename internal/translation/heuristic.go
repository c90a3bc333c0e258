package translation

import (
	"strings"

	"github.com/lexitra/lexitra/internal/domain"
)

// The local heuristic is the no-network baseline behind every provider:
// it must be deterministic and must never fail, because it is the last
// rung of the fallback ladder.

// closeMatchThreshold is the shared-word ratio at or above which two
// non-identical translations count as a close match.
const closeMatchThreshold = 0.5

// normalizeText lowercases the text and collapses all whitespace runs
// to single spaces, so comparison ignores case and formatting.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// sharedWordRatio returns the fraction of words in the smaller of the
// two texts that also appear in the other.
func sharedWordRatio(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	if len(wordsB) < len(wordsA) {
		wordsA, wordsB = wordsB, wordsA
	}

	set := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		set[w] = struct{}{}
	}

	shared := 0
	for _, w := range wordsA {
		if _, ok := set[w]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(wordsA))
}

// heuristicTranslate is the generate-side baseline. With no provider
// able to translate, the only deterministic reference available offline
// is the source text itself.
func heuristicTranslate(req GenerateRequest) string {
	return req.Content
}

// heuristicEvaluate compares the learner's translation to the reference
// without any network access. An exact case/whitespace-insensitive
// match scores 1.0; a close match (substring containment either way, or
// a shared-word ratio of at least closeMatchThreshold) counts as
// correct with a reduced score; anything else is incorrect.
func heuristicEvaluate(req EvaluateRequest) *domain.EvaluationResult {
	user := normalizeText(req.UserTranslation)
	reference := normalizeText(req.Reference)

	details := domain.EvaluationDetails{
		Grammar:    "not assessed (offline comparison)",
		Vocabulary: "not assessed (offline comparison)",
		Accuracy:   "compared against the reference translation only",
	}

	if user != "" && user == reference {
		return &domain.EvaluationResult{
			Correct:              true,
			Score:                1.0,
			Feedback:             "Exact match with the reference translation.",
			SuggestedTranslation: req.Reference,
			Details:              details,
		}
	}

	ratio := sharedWordRatio(user, reference)
	closeMatch := user != "" && reference != "" &&
		(strings.Contains(reference, user) || strings.Contains(user, reference) || ratio >= closeMatchThreshold)

	if closeMatch {
		return &domain.EvaluationResult{
			Correct:              true,
			Score:                0.7,
			Feedback:             "Close match with the reference translation.",
			SuggestedTranslation: req.Reference,
			Details:              details,
		}
	}

	return &domain.EvaluationResult{
		Correct:              false,
		Score:                ratio * closeMatchThreshold,
		Feedback:             "Does not match the reference translation.",
		SuggestedTranslation: req.Reference,
		Details:              details,
	}
}
