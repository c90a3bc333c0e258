// Package gemini implements the translation.Provider interface using
// Google's Gemini API.
package gemini
