package gemini

import (
	"text/template"

	"github.com/lexitra/lexitra/internal/domain"
)

// generatePromptData is the data passed to the translation prompt template.
type generatePromptData struct {
	Content        string
	SourceLanguage string
	TargetLanguage string
}

// evaluatePromptData is the data passed to the evaluation prompt template.
type evaluatePromptData struct {
	Content         string
	SourceLanguage  string
	TargetLanguage  string
	UserTranslation string
	Reference       string
}

// generateResponseSchema is the expected JSON structure of a
// translation response.
type generateResponseSchema struct {
	Translation string `json:"translation"`
}

// evaluateResponseSchema is the expected JSON structure of an
// evaluation response.
type evaluateResponseSchema struct {
	Correct              bool    `json:"correct"`
	Score                float64 `json:"score"`
	Feedback             string  `json:"feedback"`
	SuggestedTranslation string  `json:"suggested_translation"`
	Grammar              string  `json:"grammar"`
	Vocabulary           string  `json:"vocabulary"`
	Accuracy             string  `json:"accuracy"`
}

// evaluationFromSchema maps a parsed evaluation response onto the
// domain verdict. When the model omits a suggested translation, the
// reference the learner was judged against is used instead.
func evaluationFromSchema(s evaluateResponseSchema, reference string) *domain.EvaluationResult {
	suggested := s.SuggestedTranslation
	if suggested == "" {
		suggested = reference
	}
	return &domain.EvaluationResult{
		Correct:              s.Correct,
		Score:                s.Score,
		Feedback:             s.Feedback,
		SuggestedTranslation: suggested,
		Details: domain.EvaluationDetails{
			Grammar:    s.Grammar,
			Vocabulary: s.Vocabulary,
			Accuracy:   s.Accuracy,
		},
	}
}

var generatePromptTemplate = template.Must(template.New("generate").Parse(
	`Translate the following {{.SourceLanguage}} text into {{.TargetLanguage}}.

Text: {{.Content}}

Respond with JSON only, in this exact shape:
{"translation": "<the translation>"}
`))

var evaluatePromptTemplate = template.Must(template.New("evaluate").Parse(
	`You are grading a language learner's translation exercise.

Original ({{.SourceLanguage}}): {{.Content}}
Reference translation ({{.TargetLanguage}}): {{.Reference}}
Learner's translation: {{.UserTranslation}}

Judge whether the learner's translation conveys the meaning of the
original. Minor spelling or word-order differences should not make an
otherwise good translation incorrect.

Respond with JSON only, in this exact shape:
{
  "correct": true or false,
  "score": <0.0 to 1.0>,
  "feedback": "<one or two short sentences>",
  "suggested_translation": "<the best translation>",
  "grammar": "<short note on grammar>",
  "vocabulary": "<short note on vocabulary>",
  "accuracy": "<short note on accuracy>"
}
`))
