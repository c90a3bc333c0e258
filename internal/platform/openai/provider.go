// Package openai implements the translation.Provider interface against
// an OpenAI-compatible chat completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/lexitra/lexitra/internal/config"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/translation"
)

// Provider implements the translation.Provider interface by calling an
// OpenAI-compatible /chat/completions endpoint over plain HTTP.
type Provider struct {
	logger     *slog.Logger
	cfg        config.TranslationConfig
	httpClient *http.Client
	baseURL    string
}

// New creates an OpenAI provider from the given configuration.
// The API key must be set; a provider is only constructed for a
// configured credential.
func New(logger *slog.Logger, cfg config.TranslationConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", translation.ErrInvalidConfig)
	}

	if cfg.OpenAIModel == "" {
		return nil, fmt.Errorf("%w: openai model name cannot be empty", translation.ErrInvalidConfig)
	}

	return &Provider{
		logger: logger.With(slog.String("component", "openai_provider")),
		cfg:    cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		baseURL: strings.TrimRight(cfg.OpenAIBaseURL, "/"),
	}, nil
}

// Ensure Provider implements the translation.Provider interface
var _ translation.Provider = (*Provider)(nil)

// Name implements translation.Provider.Name.
func (p *Provider) Name() string {
	return "openai"
}

// CredentialConfigured implements translation.Provider.CredentialConfigured.
func (p *Provider) CredentialConfigured() bool {
	return p.cfg.OpenAIAPIKey != ""
}

// GenerateTranslation implements translation.Service.GenerateTranslation.
func (p *Provider) GenerateTranslation(ctx context.Context, req translation.GenerateRequest) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following %s text into %s.\n\nText: %s\n\n"+
			`Respond with JSON only, in this exact shape: {"translation": "<the translation>"}`,
		req.SourceLanguage, req.TargetLanguage, req.Content)

	text, err := p.chatWithRetry(ctx, prompt)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Translation string `json:"translation"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return "", fmt.Errorf("%w: failed to parse translation JSON: %v", translation.ErrInvalidResponse, err)
	}
	if parsed.Translation == "" {
		return "", fmt.Errorf("%w: empty translation", translation.ErrInvalidResponse)
	}

	return parsed.Translation, nil
}

// EvaluateTranslation implements translation.Service.EvaluateTranslation.
func (p *Provider) EvaluateTranslation(
	ctx context.Context,
	req translation.EvaluateRequest,
) (*domain.EvaluationResult, error) {
	prompt := fmt.Sprintf(
		"You are grading a language learner's translation exercise.\n\n"+
			"Original (%s): %s\nReference translation (%s): %s\nLearner's translation: %s\n\n"+
			"Judge whether the learner's translation conveys the meaning of the original. "+
			"Minor spelling or word-order differences should not make an otherwise good translation incorrect.\n\n"+
			"Respond with JSON only, in this exact shape: "+
			`{"correct": <bool>, "score": <0.0-1.0>, "feedback": "<short>", `+
			`"suggested_translation": "<best translation>", "grammar": "<note>", `+
			`"vocabulary": "<note>", "accuracy": "<note>"}`,
		req.SourceLanguage, req.Content, req.TargetLanguage, req.Reference, req.UserTranslation)

	text, err := p.chatWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Correct              bool    `json:"correct"`
		Score                float64 `json:"score"`
		Feedback             string  `json:"feedback"`
		SuggestedTranslation string  `json:"suggested_translation"`
		Grammar              string  `json:"grammar"`
		Vocabulary           string  `json:"vocabulary"`
		Accuracy             string  `json:"accuracy"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse evaluation JSON: %v", translation.ErrInvalidResponse, err)
	}
	if parsed.Score < 0 || parsed.Score > 1 {
		return nil, fmt.Errorf("%w: score %f out of range", translation.ErrInvalidResponse, parsed.Score)
	}

	suggested := parsed.SuggestedTranslation
	if suggested == "" {
		suggested = req.Reference
	}

	return &domain.EvaluationResult{
		Correct:              parsed.Correct,
		Score:                parsed.Score,
		Feedback:             parsed.Feedback,
		SuggestedTranslation: suggested,
		Details: domain.EvaluationDetails{
			Grammar:    parsed.Grammar,
			Vocabulary: parsed.Vocabulary,
			Accuracy:   parsed.Accuracy,
		},
	}, nil
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// chatWithRetry posts one user message and returns the assistant reply,
// retrying transient failures (network errors, 429, 5xx) with jittered
// exponential backoff. Auth and client errors are permanent.
func (p *Provider) chatWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := p.cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := p.cfg.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		text, transient, err := p.chatOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		p.logger.WarnContext(ctx, "openai API call failed",
			"attempt", attempt+1,
			"transient", transient,
			"error", err)

		if !transient || attempt >= maxRetries {
			return "", err
		}

		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("cancelled during retry delay: %w", ctx.Err())
		}
	}

	return "", lastErr
}

func (p *Provider) chatOnce(ctx context.Context, prompt string) (string, bool, error) {
	body, err := json.Marshal(chatRequest{
		Model:          p.cfg.OpenAIModel,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.OpenAIAPIKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", true, fmt.Errorf("openai API call error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", true, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		apiMsg := strings.TrimSpace(string(payload))
		var parsed chatResponse
		if json.Unmarshal(payload, &parsed) == nil && parsed.Error != nil {
			apiMsg = parsed.Error.Message
		}
		return "", transient, fmt.Errorf("openai API returned %d: %s", resp.StatusCode, apiMsg)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", false, fmt.Errorf("%w: failed to parse chat response: %v", translation.ErrInvalidResponse, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", false, fmt.Errorf("%w: no choices in chat response", translation.ErrInvalidResponse)
	}

	return parsed.Choices[0].Message.Content, false, nil
}
