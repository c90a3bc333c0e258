package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/lexitra/lexitra/internal/config"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/translation"
	"google.golang.org/genai"
)

// Provider implements the translation.Provider interface using
// Google's Gemini API to translate text and judge learner answers.
type Provider struct {
	logger *slog.Logger
	cfg    config.TranslationConfig
	client *genai.Client
	model  string
}

// New creates a Gemini provider from the given configuration.
// The API key must be set; a provider is only constructed for a
// configured credential.
func New(ctx context.Context, logger *slog.Logger, cfg config.TranslationConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", translation.ErrInvalidConfig)
	}

	if cfg.GeminiModel == "" {
		return nil, fmt.Errorf("%w: gemini model name cannot be empty", translation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", translation.ErrInvalidConfig, err)
	}

	return &Provider{
		logger: logger.With(slog.String("component", "gemini_provider")),
		cfg:    cfg,
		client: client,
		model:  cfg.GeminiModel,
	}, nil
}

// Ensure Provider implements the translation.Provider interface
var _ translation.Provider = (*Provider)(nil)

// Name implements translation.Provider.Name.
func (p *Provider) Name() string {
	return "gemini"
}

// CredentialConfigured implements translation.Provider.CredentialConfigured.
// A Provider is only constructed with a non-empty API key.
func (p *Provider) CredentialConfigured() bool {
	return p.cfg.GeminiAPIKey != ""
}

// GenerateTranslation implements translation.Service.GenerateTranslation.
func (p *Provider) GenerateTranslation(ctx context.Context, req translation.GenerateRequest) (string, error) {
	prompt, err := renderPrompt(generatePromptTemplate, generatePromptData{
		Content:        req.Content,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
	})
	if err != nil {
		return "", err
	}

	text, err := p.callWithRetry(ctx, prompt)
	if err != nil {
		return "", err
	}

	var parsed generateResponseSchema
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
	prompt, err := renderPrompt(evaluatePromptTemplate, evaluatePromptData{
		Content:         req.Content,
		SourceLanguage:  req.SourceLanguage,
		TargetLanguage:  req.TargetLanguage,
		UserTranslation: req.UserTranslation,
		Reference:       req.Reference,
	})
	if err != nil {
		return nil, err
	}

	text, err := p.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed evaluateResponseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse evaluation JSON: %v", translation.ErrInvalidResponse, err)
	}

	if parsed.Score < 0 || parsed.Score > 1 {
		return nil, fmt.Errorf("%w: score %f out of range", translation.ErrInvalidResponse, parsed.Score)
	}

	result := evaluationFromSchema(parsed, req.Reference)
	return result, nil
}

// callWithRetry makes a call to the Gemini API with exponential backoff
// retry. Transient failures (API/network errors) are retried up to
// MaxRetries times with jittered backoff; malformed responses and
// safety blocks are permanent and returned immediately. Each attempt
// runs under its own request timeout.
func (p *Provider) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := p.cfg.MaxRetries
	baseDelaySeconds := p.cfg.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		p.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	if baseDelaySeconds < 1 {
		p.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		attemptNum := attempt + 1 // 1-based for logging
		p.logger.DebugContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		text, transient, err := p.callOnce(ctx, prompt)
		if err == nil {
			p.logger.DebugContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return text, nil
		}
		lastErr = err

		p.logger.WarnContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"transient", transient,
			"error", err)

		if !transient {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("exceeded maximum retry attempts (%d): %w", maxRetries, lastErr)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
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

// callOnce performs a single Gemini request under the configured
// request timeout. The second return value reports whether the failure
// is transient (retryable).
func (p *Provider) callOnce(ctx context.Context, prompt string) (string, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(callCtx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", true, fmt.Errorf("gemini API call error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", false, fmt.Errorf("%w: no content generated", translation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", false, fmt.Errorf("%w: content blocked by safety filters", translation.ErrInvalidResponse)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", false, fmt.Errorf("%w: empty content in response", translation.ErrInvalidResponse)
	}

	text := ""
	for _, part := range candidate.Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", false, fmt.Errorf("%w: no text in response", translation.ErrInvalidResponse)
	}

	return text, false, nil
}

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
