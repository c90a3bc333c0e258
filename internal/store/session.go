package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lexitra/lexitra/internal/domain"
)

// SessionStore defines the interface for session data persistence.
//
// Sessions are written back as whole records: deck, cursor, response
// log, and completion timestamp together. There is no partial-field
// update and no concurrency guard; two concurrent writers to the same
// session clobber each other (accepted single-user limitation).
type SessionStore interface {
	// Save persists the full session record, inserting or overwriting by ID.
	// Returns ErrInvalidEntity wrapping the validation error if the
	// session is invalid.
	Save(ctx context.Context, session *domain.Session) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
}
