package translation

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the translation package.
var (
	// ErrProviderFailure is returned when a remote provider call fails
	// for any reason. It is always wrapped in a ProviderError carrying
	// the provider name, language pair, and credential state.
	ErrProviderFailure = errors.New("translation provider call failed")

	// ErrCredential is a ProviderFailure whose underlying cause is a
	// missing or invalid credential. Errors of this kind carry a
	// configuration hint instead of the raw provider message.
	ErrCredential = fmt.Errorf("%w: credential missing or invalid", ErrProviderFailure)

	// ErrEmptyContent is returned when a request carries no text to
	// translate or evaluate.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidConfig is returned when a provider configuration is invalid.
	ErrInvalidConfig = errors.New("invalid provider configuration")

	// ErrInvalidResponse is returned when a provider response cannot be
	// parsed or is malformed.
	ErrInvalidResponse = errors.New("invalid response from provider")
)

// ProviderError wraps a failed provider call with the context needed to
// diagnose it: which provider, which operation, the language pair, and
// whether a credential was configured at all.
type ProviderError struct {
	Provider       string // provider name, e.g. "gemini"
	Operation      string // "generate" or "evaluate"
	SourceLanguage string
	TargetLanguage string
	CredentialSet  bool
	Err            error
}

// Error implements the error interface for ProviderError.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed (%s->%s, credential configured: %t): %v",
		e.Provider, e.Operation, e.SourceLanguage, e.TargetLanguage, e.CredentialSet, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// credentialHint is the user-facing message substituted for raw
// credential failures. It points at configuration rather than at the
// provider's own wording, which tends to leak key fragments and HTTP
// noise.
const credentialHint = "the configured API key appears to be missing or invalid; " +
	"set LEXITRA_TRANSLATION_GEMINI_API_KEY or LEXITRA_TRANSLATION_OPENAI_API_KEY " +
	"(or the matching config file entries) and restart"

// credentialMarkers are lowercase fragments that identify a credential
// problem in a provider error message.
var credentialMarkers = []string{
	"api key",
	"api_key",
	"apikey",
	"unauthorized",
	"unauthenticated",
	"invalid authentication",
	"permission denied",
	"401",
	"403",
}

// isCredentialError reports whether the error message indicates a
// missing or invalid credential.
func isCredentialError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range credentialMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// wrapProviderError re-wraps a raw provider error with contextual
// metadata. Credential failures are rewritten into the configuration
// hint before surfacing; everything else keeps the original cause.
func wrapProviderError(p Provider, operation, sourceLanguage, targetLanguage string, err error) error {
	cause := fmt.Errorf("%w: %v", ErrProviderFailure, err)
	if isCredentialError(err) {
		cause = fmt.Errorf("%w: %s", ErrCredential, credentialHint)
	}
	return &ProviderError{
		Provider:       p.Name(),
		Operation:      operation,
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
		CredentialSet:  p.CredentialConfigured(),
		Err:            cause,
	}
}
