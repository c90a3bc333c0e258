package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend. Sessions are
// written back whole: deck, cursor, response log, and completion
// timestamp in one statement (last write wins).
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of
// the SessionStore interface.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Save implements store.SessionStore.Save.
func (s *PostgresSessionStore) Save(ctx context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	responses, err := json.Marshal(session.Responses)
	if err != nil {
		return store.NewStoreError("session", "save", "failed to marshal responses", err)
	}

	const query = `
		INSERT INTO sessions (id, source_language, target_language, card_ids, current_card_index, responses, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			source_language = EXCLUDED.source_language,
			target_language = EXCLUDED.target_language,
			card_ids = EXCLUDED.card_ids,
			current_card_index = EXCLUDED.current_card_index,
			responses = EXCLUDED.responses,
			completed_at = EXCLUDED.completed_at`

	_, err = s.db.Exec(ctx, query,
		session.ID, session.SourceLanguage, session.TargetLanguage, session.CardIDs,
		session.CurrentCardIndex, responses, session.CreatedAt, session.CompletedAt)
	if err != nil {
		return store.NewStoreError("session", "save", "failed to save session", err)
	}

	s.logger.DebugContext(ctx, "session saved",
		"session_id", session.ID.String(),
		"cursor", session.CurrentCardIndex,
		"complete", session.IsComplete())
	return nil
}

// GetByID implements store.SessionStore.GetByID.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	const query = `
		SELECT id, source_language, target_language, card_ids, current_card_index, responses, created_at, completed_at
		FROM sessions
		WHERE id = $1`

	var session domain.Session
	var responses []byte

	row := s.db.QueryRow(ctx, query, id)
	err := row.Scan(
		&session.ID, &session.SourceLanguage, &session.TargetLanguage, &session.CardIDs,
		&session.CurrentCardIndex, &responses, &session.CreatedAt, &session.CompletedAt)
	if err != nil {
		return nil, mapRowError(err, store.ErrSessionNotFound)
	}

	if err := json.Unmarshal(responses, &session.Responses); err != nil {
		return nil, store.NewStoreError("session", "get", "failed to unmarshal responses", err)
	}
	if session.CardIDs == nil {
		session.CardIDs = []uuid.UUID{}
	}

	return &session, nil
}
