package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lexitra/lexitra/internal/domain"
	"github.com/lexitra/lexitra/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is
// nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// Save implements store.CardStore.Save.
// It writes the full card record, inserting or overwriting by ID.
func (s *PostgresCardStore) Save(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO cards (id, content, source_language, comment, user_translation, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			source_language = EXCLUDED.source_language,
			comment = EXCLUDED.comment,
			user_translation = EXCLUDED.user_translation,
			tags = EXCLUDED.tags,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.Exec(ctx, query,
		card.ID, card.Content, card.SourceLanguage, card.Comment,
		card.UserTranslation, card.Tags, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return store.NewStoreError("card", "save", "failed to save card", err)
	}

	s.logger.DebugContext(ctx, "card saved", "card_id", card.ID.String())
	return nil
}

// GetByID implements store.CardStore.GetByID.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	const query = `
		SELECT id, content, source_language, comment, user_translation, tags, created_at, updated_at
		FROM cards
		WHERE id = $1`

	row := s.db.QueryRow(ctx, query, id)
	card, err := scanCard(row)
	if err != nil {
		return nil, mapRowError(err, store.ErrCardNotFound)
	}

	return card, nil
}

// List implements store.CardStore.List.
// Tag matching uses OR semantics; untagged cards match only when the
// filter asks for them.
func (s *PostgresCardStore) List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	query := `
		SELECT id, content, source_language, comment, user_translation, tags, created_at, updated_at
		FROM cards
		WHERE source_language = $1`
	args := []any{filter.SourceLanguage}

	// With neither a tag set nor IncludeUntagged, every card for the
	// language matches.
	if len(filter.Tags) > 0 || filter.IncludeUntagged {
		clause := ""
		if len(filter.Tags) > 0 {
			args = append(args, filter.Tags)
			clause = fmt.Sprintf("tags && $%d", len(args))
		}
		if filter.IncludeUntagged {
			untagged := "cardinality(tags) = 0"
			if clause != "" {
				clause = clause + " OR " + untagged
			} else {
				clause = untagged
			}
		}
		query += " AND (" + clause + ")"
	}

	query += " ORDER BY created_at"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("card", "list", "failed to query cards", err)
	}
	defer rows.Close()

	cards := []*domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError("card", "list", "failed to scan card row", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "list", "row iteration failed", err)
	}

	return cards, nil
}

// scanCard reads one card row. Works for both QueryRow and Rows since
// pgx.Row and pgx.Rows share the Scan method.
func scanCard(row pgx.Row) (*domain.Card, error) {
	var card domain.Card
	err := row.Scan(
		&card.ID, &card.Content, &card.SourceLanguage, &card.Comment,
		&card.UserTranslation, &card.Tags, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &card, nil
}
