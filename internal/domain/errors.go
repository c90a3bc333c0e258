package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrSessionComplete is returned when an operation requires an
	// in-progress session but the session has already been completed.
	ErrSessionComplete = errors.New("session is already complete")

	// ErrCardNotInDeck is returned when a response references a card
	// that is not part of the session's deck.
	ErrCardNotInDeck = errors.New("card is not part of the session deck")
)
